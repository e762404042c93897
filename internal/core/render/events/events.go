// Package events is a small synchronous pub/sub bus over which the renderer
// announces lifecycle changes: scopes opening and closing, features being
// downgraded, the device being rejected.
package events

import (
	"time"

	"github.com/benidon1974/zetaglest-source/internal/core/render/caps"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
)

// Event types published by the renderer.
const (
	TypeScopeOpened       = "render.scope.opened"
	TypeScopeEnded        = "render.scope.ended"
	TypeFeatureDowngraded = "render.feature.downgraded"
	TypeDeviceRejected    = "render.device.rejected"
	TypeResourcesReloaded = "render.resources.reloaded"
)

// Event is an immutable message. Data holds one of the payload types below.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// Handler is invoked on the publisher's goroutine.
type Handler func(event Event) error

// Subscription is a registered handler. Cancel may be called more than once.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Bus delivers each published event to the handlers subscribed to its type,
// in subscription order. Handler errors are joined and returned by Publish.
type Bus interface {
	Publish(event Event) error
	Subscribe(eventType string, handler Handler) (Subscription, error)
	Unsubscribe(sub Subscription) error
	Subscribers(eventType string) int
}

type ScopeOpened struct {
	Scope resource.Scope
}

type ScopeEnded struct {
	Scope    resource.Scope
	Released int
}

type FeatureDowngraded struct {
	Downgrade caps.Downgrade
}

type DeviceRejected struct {
	Err error
}

type ResourcesReloaded struct {
	Err error
}
