// Package entity defines the frame-scoped snapshot of a renderable game
// object and the guarded state cell shared by the render goroutine and the
// interpolation worker.
package entity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
)

var (
	ErrInvalidTransition = errors.New("invalid render entity state transition")
	ErrMalformed         = errors.New("malformed render entity")
)

type Kind uint8

const (
	KindObject Kind = iota
	KindUnit
	KindUnitFast
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindUnit:
		return "unit"
	case KindUnitFast:
		return "unit-fast"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type State uint8

const (
	StateUncomputed State = iota
	StateInterpolated
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateUncomputed:
		return "uncomputed"
	case StateInterpolated:
		return "interpolated"
	case StateRendered:
		return "rendered"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Source tells the render pass where a consumed transform came from.
type Source uint8

const (
	SourceInterpolated Source = iota
	SourceFallback
	SourceFlat
)

func (s Source) String() string {
	switch s {
	case SourceInterpolated:
		return "interpolated"
	case SourceFallback:
		return "fallback"
	case SourceFlat:
		return "flat"
	}
	return fmt.Sprintf("source(%d)", uint8(s))
}

// Transform places an entity in world space. X/Z follow the map grid, Y is up.
type Transform struct {
	Position mgl32.Vec3
	Rotation float32 // degrees around Y
}

// Matrix returns the model matrix for the transform.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation)))
}

// Motion is the movement snapshot of a unit between two simulation ticks.
// The current cell is the entity's MapPos.
type Motion struct {
	Last         geom.Vec2i
	Progress     float32 // fraction of the move from Last to MapPos, in [0,1]
	LastRotation float32
	Rotation     float32
	Height       float32
}

// Entity is one renderable game object for one frame. Everything except the
// state cell is written by the collector before the batch is armed and is
// read-only afterwards.
type Entity struct {
	Kind   Kind
	MapPos geom.Vec2i
	Object ObjectRef
	Unit   UnitRef
	Motion Motion
	Model  resource.Handle
	Size   int

	mu        sync.Mutex
	state     State
	transform Transform
}

// NewObject snapshots a static map object.
func NewObject(ref ObjectRef, pos geom.Vec2i, model resource.Handle) *Entity {
	return &Entity{Kind: KindObject, MapPos: pos, Object: ref, Model: model, Size: 1}
}

// NewUnit snapshots a unit for the interpolated draw path.
func NewUnit(ref UnitRef, pos geom.Vec2i, motion Motion, model resource.Handle) *Entity {
	return &Entity{Kind: KindUnit, MapPos: pos, Unit: ref, Motion: motion, Model: model, Size: 1}
}

// NewUnitFast snapshots a unit for the selection pass.
func NewUnitFast(ref UnitRef, pos geom.Vec2i, size int) *Entity {
	return &Entity{Kind: KindUnitFast, MapPos: pos, Unit: ref, Size: max(size, 1)}
}

// Validate checks that the references match the kind.
func (e *Entity) Validate() error {
	switch e.Kind {
	case KindObject:
		if !e.Object.Valid() || e.Unit.Valid() {
			return fmt.Errorf("%w: %s with %s, %s", ErrMalformed, e.Kind, e.Object, e.Unit)
		}
	case KindUnit, KindUnitFast:
		if !e.Unit.Valid() || e.Object.Valid() {
			return fmt.Errorf("%w: %s with %s, %s", ErrMalformed, e.Kind, e.Object, e.Unit)
		}
	default:
		return fmt.Errorf("%w: %s", ErrMalformed, e.Kind)
	}
	return nil
}

// DiscreteTransform is the last-known, non-smoothed transform: the entity's
// current cell at its current rotation.
func (e *Entity) DiscreteTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{float32(e.MapPos.X), e.Motion.Height, float32(e.MapPos.Y)},
		Rotation: e.Motion.Rotation,
	}
}

func (e *Entity) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Transform returns the transform currently stored in the cell, which is the
// zero Transform until the entity was interpolated or rendered.
func (e *Entity) Transform() Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transform
}

// SetInterpolated stores a smoothed transform and moves Uncomputed to
// Interpolated. Only the interpolation worker calls it.
func (e *Entity) SetInterpolated(t Transform) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Kind == KindUnitFast || e.state != StateUncomputed {
		return fmt.Errorf("%w: %s -> %s (%s)", ErrInvalidTransition, e.state, StateInterpolated, e.Kind)
	}
	e.transform = t
	e.state = StateInterpolated
	return nil
}

// Consume is the render pass side of the cell. It returns the smoothed
// transform if the worker got there first, the discrete transform otherwise,
// and marks the entity Rendered either way.
func (e *Entity) Consume() (Transform, Source, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.Kind == KindUnitFast:
		return e.renderFlatLocked()
	case e.state == StateInterpolated:
		e.state = StateRendered
		return e.transform, SourceInterpolated, nil
	case e.state == StateUncomputed:
		e.transform = e.DiscreteTransform()
		e.state = StateRendered
		return e.transform, SourceFallback, nil
	}
	return e.transform, 0, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.state, StateRendered)
}

// RenderFlat is the selection fast path: no interpolation, straight to
// Rendered.
func (e *Entity) RenderFlat() (Transform, Source, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderFlatLocked()
}

func (e *Entity) renderFlatLocked() (Transform, Source, error) {
	if e.state != StateUncomputed {
		return e.transform, 0, fmt.Errorf("%w: %s -> %s (flat)", ErrInvalidTransition, e.state, StateRendered)
	}
	e.transform = Transform{Position: mgl32.Vec3{float32(e.MapPos.X), 0, float32(e.MapPos.Y)}}
	e.state = StateRendered
	return e.transform, SourceFlat, nil
}
