package render

import (
	"context"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/camera"
	"github.com/benidon1974/zetaglest-source/internal/core/render/config"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
)

// SetCamera installs cam. The visible quad is only recomputed when the
// camera actually changed.
func (o *Orchestrator) SetCamera(cam camera.Camera) {
	if o.camSet && cam == o.cam {
		return
	}
	o.cam = cam
	o.camSet = true
	o.quad = cam.VisibleQuad()
	o.log.Debug("visible quad updated", log.Stringer("quad", o.quad))
}

// SetScene takes the camera from s.
func (o *Orchestrator) SetScene(s Scene) { o.SetCamera(s.Camera()) }

func (o *Orchestrator) Camera() (camera.Camera, bool) { return o.cam, o.camSet }

// VisibleQuad is the ground area under the current camera.
func (o *Orchestrator) VisibleQuad() geom.Quad2i { return o.quad }

// BeginFrame zeroes the per-frame counters and returns the new frame number.
func (o *Orchestrator) BeginFrame(ctx context.Context) uint64 {
	return o.metrics.BeginFrame(ctx)
}

// RenderFrame arms the worker with b and draws every entity of b. It never
// waits for the worker: entities it has not reached yet are drawn at their
// last-known transform. b must not be armed twice.
func (o *Orchestrator) RenderFrame(ctx context.Context, b *entity.Batch) error {
	if !o.initialized {
		return ErrNotInitialized
	}
	ctx = log.ContextWithFrame(ctx, b.Frame)
	o.worker.Arm(b)

	// Particles go first so the worker has a head start on the units.
	o.RenderParticles(ctx)

	return o.RenderBatch(ctx, b)
}

// RenderBatch draws the entities of b without arming the worker.
func (o *Orchestrator) RenderBatch(ctx context.Context, b *entity.Batch) error {
	if !o.initialized {
		return ErrNotInitialized
	}
	logger := o.log.WithContext(ctx)
	for _, e := range b.Entities {
		if e == nil || e.Kind == entity.KindUnitFast {
			continue
		}
		t, src, err := e.Consume()
		if err != nil {
			logger.Warn("entity not drawable", log.Stringer("kind", e.Kind), log.Error(err))
			continue
		}
		o.metrics.AddConsumed(ctx, src)
		o.drawModel(ctx, logger, e.Model, t)
	}
	return nil
}

func (o *Orchestrator) drawModel(ctx context.Context, logger log.Log, h resource.Handle, t entity.Transform) {
	if h.IsZero() {
		return
	}
	model, err := o.resources.Model(h)
	if err != nil {
		logger.Warn("skipping draw", log.Stringer("model", h), log.Error(err))
		return
	}
	m := t.Matrix()
	for _, mesh := range model.Meshes() {
		stats, err := o.dev.DrawMesh(mesh, m)
		if err != nil {
			logger.Warn("draw failed", log.Stringer("model", h), log.Error(err))
			continue
		}
		o.metrics.AddDraw(ctx, stats)
	}
}

// UpdateParticles advances the particle systems of every open scope and
// reaps finished ones.
func (o *Orchestrator) UpdateParticles() int {
	n := 0
	for _, s := range resource.Scopes {
		n += o.resources.UpdateParticles(s)
	}
	return n
}

// RenderParticles draws the live particle systems. Game scope systems are
// skipped when unit particles are turned off.
func (o *Orchestrator) RenderParticles(ctx context.Context) {
	for _, s := range resource.Scopes {
		if s == resource.ScopeGame && !o.cfg.UnitParticles {
			continue
		}
		o.metrics.AddDraw(ctx, o.resources.RenderParticles(s))
	}
}

// ShadowPass reports whether frame should refresh the shadow map.
func (o *Orchestrator) ShadowPass(frame uint64) bool {
	if o.features.Shadows != config.ShadowsMapping || o.shadowMap.IsZero() {
		return false
	}
	return frame%uint64(o.cfg.ShadowFrameSkip+1) == 0
}
