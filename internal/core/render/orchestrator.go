// Package render drives one frame of the game view: it hands visible
// entities to the interpolation worker, draws them without waiting for it and
// owns the scoped GPU resources the frame uses.
package render

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/camera"
	"github.com/benidon1974/zetaglest-source/internal/core/render/caps"
	"github.com/benidon1974/zetaglest-source/internal/core/render/config"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
	"github.com/benidon1974/zetaglest-source/internal/core/render/events"
	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
	"github.com/benidon1974/zetaglest-source/internal/core/render/interpolate"
	"github.com/benidon1974/zetaglest-source/internal/core/render/metrics"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
	"github.com/benidon1974/zetaglest-source/internal/core/render/selection"
)

const shadowMapFormat = gputypes.TextureFormatDepth24PlusStencil8

// Scene is the game or menu state the renderer draws.
type Scene interface {
	Camera() camera.Camera
}

// Orchestrator is driven from a single render goroutine. Only Interpolate
// runs elsewhere, on the worker goroutine.
type Orchestrator struct {
	dev       device.Device
	log       log.Log
	cfg       config.Config
	strategy  atomic.Pointer[interpolate.Strategy]
	resources *resource.Registry
	metrics   *metrics.Recorder
	selection *selection.Buffer
	worker    *interpolate.Worker
	events    events.Bus

	initialized bool
	features    caps.Features
	downgrades  []caps.Downgrade
	lists       map[device.ListKind]device.ListID
	shadowMap   resource.Handle

	cam    camera.Camera
	camSet bool
	quad   geom.Quad2i
}

var _ interpolate.Interpolator = (*Orchestrator)(nil)

func New(dev device.Device, cfg config.Config, logger log.Log) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		dev:    dev,
		log:    logger.With(log.Component("renderer")),
		lists:  make(map[device.ListKind]device.ListID),
		events: events.New(),
	}
	o.resources = resource.NewRegistry(dev, logger, resource.Options{})
	if err := o.LoadConfig(cfg); err != nil {
		return nil, err
	}

	rec, err := metrics.New(o.liveAssets)
	if err != nil {
		return nil, err
	}
	o.metrics = rec
	return o, nil
}

// LoadConfig applies cfg. Texture options take effect for scopes opened
// afterwards; the easing applies from the next interpolated batch.
func (o *Orchestrator) LoadConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	fn, err := interpolate.EasingByName(cfg.Easing)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.strategy.Store(&interpolate.Strategy{Ease: fn, RotateUnits: cfg.AllowRotateUnits, Log: o.log})
	o.resources.SetOptions(resource.Options{Mipmaps: cfg.Filter == config.FilterTrilinear})
	return nil
}

func (o *Orchestrator) Config() config.Config { return o.cfg }

// Init checks the device, opens the Global scope and starts the worker.
// A missing mandatory capability leaves the renderer uninitialized.
func (o *Orchestrator) Init() error {
	if o.initialized {
		return ErrAlreadyInitialized
	}

	info := o.dev.Info()
	features, downgrades, err := caps.Check(info, o.cfg)
	if err != nil {
		o.log.Error("device rejected", log.String("renderer", info.Renderer), log.Error(err))
		o.publish(events.TypeDeviceRejected, events.DeviceRejected{Err: err})
		return err
	}
	for _, d := range downgrades {
		o.log.Warn("feature downgraded", log.Stringer("downgrade", d))
		o.publish(events.TypeFeatureDowngraded, events.FeatureDowngraded{Downgrade: d})
	}

	if err := o.openScope(resource.ScopeGlobal, device.List2D); err != nil {
		return err
	}

	o.features = features
	o.downgrades = downgrades
	o.worker = interpolate.NewWorker(o, o.log)
	o.worker.Start()
	o.initialized = true
	o.log.Info("renderer initialized", log.Stringer("features", features))
	return nil
}

// End stops the worker and releases every scope. Calling End on an
// uninitialized renderer does nothing.
func (o *Orchestrator) End() {
	if !o.initialized {
		return
	}
	o.worker.Stop()
	o.EndGame()
	o.EndMenu()
	n := o.endScope(resource.ScopeGlobal, device.List2D)
	o.initialized = false
	o.log.Info("renderer ended", log.Int("released", n))
}

func (o *Orchestrator) InitMenu() error {
	if !o.initialized {
		return ErrNotInitialized
	}
	return o.openScope(resource.ScopeMenu, device.List3DMenu)
}

func (o *Orchestrator) EndMenu() {
	if !o.resources.Active(resource.ScopeMenu) {
		return
	}
	o.worker.Flush()
	n := o.endScope(resource.ScopeMenu, device.List3DMenu)
	o.log.Debug("menu ended", log.Int("released", n))
}

// InitGame opens the Game scope. With shadow mapping enabled it also
// allocates the shadow map there.
func (o *Orchestrator) InitGame() error {
	if !o.initialized {
		return ErrNotInitialized
	}
	if err := o.openScope(resource.ScopeGame, device.List3D); err != nil {
		return err
	}
	if o.features.Shadows == config.ShadowsMapping {
		h, err := o.resources.NewTexture2D(resource.ScopeGame, resource.TextureParams{
			Label:  "shadow map",
			Format: shadowMapFormat,
			Width:  o.features.ShadowTextureSize,
			Height: o.features.ShadowTextureSize,
		})
		if err != nil {
			o.EndGame()
			return err
		}
		o.shadowMap = h
	}
	return nil
}

// EndGame drops any batch still queued for the worker and releases the Game
// scope. Handles allocated under it are stale afterwards.
func (o *Orchestrator) EndGame() {
	if !o.resources.Active(resource.ScopeGame) {
		return
	}
	o.worker.Flush()
	o.shadowMap = resource.Handle{}
	n := o.endScope(resource.ScopeGame, device.List3D)
	o.log.Debug("game ended", log.Int("released", n))
}

// openScope opens the pool of scope and compiles its draw list.
func (o *Orchestrator) openScope(scope resource.Scope, list device.ListKind) error {
	if _, err := o.resources.Open(scope); err != nil {
		return err
	}
	id, err := o.dev.CompileList(list)
	if err != nil {
		o.resources.Teardown(scope)
		return fmt.Errorf("compile %s: %w", list, err)
	}
	o.lists[list] = id
	o.publish(events.TypeScopeOpened, events.ScopeOpened{Scope: scope})
	return nil
}

func (o *Orchestrator) endScope(scope resource.Scope, list device.ListKind) int {
	if id, ok := o.lists[list]; ok {
		o.dev.DeleteList(id)
		delete(o.lists, list)
	}
	n := o.resources.Teardown(scope)
	o.publish(events.TypeScopeEnded, events.ScopeEnded{Scope: scope, Released: n})
	return n
}

// Events is the bus lifecycle notifications are published on.
func (o *Orchestrator) Events() events.Bus { return o.events }

func (o *Orchestrator) publish(typ string, data any) {
	if err := o.events.Publish(events.NewEvent(typ, "renderer", data)); err != nil {
		o.log.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

// Interpolate is the worker callback.
func (o *Orchestrator) Interpolate(ctx context.Context, b *entity.Batch) {
	stats := o.strategy.Load().Process(ctx, b)
	o.log.WithContext(ctx).Debug("batch interpolated",
		log.Int("interpolated", stats.Interpolated),
		log.Int("skipped", stats.Skipped),
		log.Int("malformed", stats.Malformed),
		log.Bool("aborted", stats.Aborted))
}

func (o *Orchestrator) liveAssets() map[string]int {
	out := make(map[string]int, len(resource.Scopes))
	for _, s := range resource.Scopes {
		out[s.String()] = o.resources.Live(s)
	}
	return out
}
