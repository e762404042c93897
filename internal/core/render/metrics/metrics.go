// Package metrics keeps the renderer's frame counters. Values are exported
// through the global OpenTelemetry meter, which is a no-op until the host
// installs a provider, and mirrored in atomics for the diagnostics screen.
package metrics

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
)

// LiveFunc reports live asset counts keyed by scope name.
type LiveFunc func() map[string]int

type Recorder struct {
	frames       metric.Int64Counter
	triangles    metric.Int64Counter
	vertices     metric.Int64Counter
	fallback     metric.Int64Counter
	interpolated metric.Int64Counter
	liveAssets   metric.Int64ObservableGauge

	frame             atomic.Uint64
	frameTriangles    atomic.Int64
	frameVertices     atomic.Int64
	totalFallback     atomic.Int64
	totalInterpolated atomic.Int64
}

// New registers the render instruments. live may be nil.
func New(live LiveFunc) (*Recorder, error) {
	m := meter()
	r := &Recorder{}

	var err error
	r.frames, err = m.Int64Counter("render.frames",
		metric.WithDescription("Frames rendered"))
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}
	r.triangles, err = m.Int64Counter("render.triangles",
		metric.WithDescription("Triangles submitted to the device"))
	if err != nil {
		return nil, fmt.Errorf("creating triangles counter: %w", err)
	}
	r.vertices, err = m.Int64Counter("render.vertices",
		metric.WithDescription("Vertices submitted to the device"))
	if err != nil {
		return nil, fmt.Errorf("creating vertices counter: %w", err)
	}
	r.fallback, err = m.Int64Counter("render.entities.fallback",
		metric.WithDescription("Entities drawn at their last-known transform because interpolation lagged"))
	if err != nil {
		return nil, fmt.Errorf("creating fallback counter: %w", err)
	}
	r.interpolated, err = m.Int64Counter("render.entities.interpolated",
		metric.WithDescription("Entities drawn with an interpolated transform"))
	if err != nil {
		return nil, fmt.Errorf("creating interpolated counter: %w", err)
	}

	if live != nil {
		r.liveAssets, err = m.Int64ObservableGauge("render.assets.live",
			metric.WithDescription("Live GPU assets per resource scope"))
		if err != nil {
			return nil, fmt.Errorf("creating live assets gauge: %w", err)
		}
		_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			for scope, n := range live() {
				o.ObserveInt64(r.liveAssets, int64(n), metric.WithAttributes(attribute.String("scope", scope)))
			}
			return nil
		}, r.liveAssets)
		if err != nil {
			return nil, fmt.Errorf("registering live assets callback: %w", err)
		}
	}
	return r, nil
}

// BeginFrame starts a new frame and zeroes the per-frame counters.
func (r *Recorder) BeginFrame(ctx context.Context) uint64 {
	r.frameTriangles.Store(0)
	r.frameVertices.Store(0)
	r.frames.Add(ctx, 1)
	return r.frame.Add(1)
}

// AddDraw accumulates the cost of one draw call.
func (r *Recorder) AddDraw(ctx context.Context, s device.DrawStats) {
	if s.Triangles == 0 && s.Vertices == 0 {
		return
	}
	r.frameTriangles.Add(int64(s.Triangles))
	r.frameVertices.Add(int64(s.Vertices))
	r.triangles.Add(ctx, int64(s.Triangles))
	r.vertices.Add(ctx, int64(s.Vertices))
}

// AddConsumed counts how the render pass obtained an entity's transform.
func (r *Recorder) AddConsumed(ctx context.Context, src entity.Source) {
	switch src {
	case entity.SourceInterpolated:
		r.totalInterpolated.Add(1)
		r.interpolated.Add(ctx, 1)
	case entity.SourceFallback:
		r.totalFallback.Add(1)
		r.fallback.Add(ctx, 1)
	}
}

func (r *Recorder) Frame() uint64 { return r.frame.Load() }

// Triangles is the triangle count of the current frame so far.
func (r *Recorder) Triangles() int64 { return r.frameTriangles.Load() }

// Vertices is the vertex count of the current frame so far.
func (r *Recorder) Vertices() int64 { return r.frameVertices.Load() }

func (r *Recorder) Fallbacks() int64 { return r.totalFallback.Load() }

func (r *Recorder) Interpolated() int64 { return r.totalInterpolated.Load() }
