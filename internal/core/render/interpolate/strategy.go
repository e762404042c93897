package interpolate

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
)

var easings = map[string]ease.TweenFunc{
	"linear":    ease.Linear,
	"inquad":    ease.InQuad,
	"outquad":   ease.OutQuad,
	"inoutquad": ease.InOutQuad,
	"outcubic":  ease.OutCubic,
	"inoutsine": ease.InOutSine,
}

// EasingByName returns the tween function registered under name. An empty
// name selects linear.
func EasingByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// Unit blends a unit between its last and current cell. progress is clamped
// to [0,1]. The result depends only on the arguments.
func Unit(m entity.Motion, current mgl32.Vec2, fn ease.TweenFunc, rotate bool) entity.Transform {
	t := min(max(m.Progress, 0), 1)
	lastX, lastZ := float32(m.Last.X), float32(m.Last.Y)

	rotation := m.Rotation
	if rotate {
		rotation = fn(t, m.LastRotation, shortestTurn(m.LastRotation, m.Rotation), 1)
	}
	return entity.Transform{
		Position: mgl32.Vec3{
			fn(t, lastX, current.X()-lastX, 1),
			m.Height,
			fn(t, lastZ, current.Y()-lastZ, 1),
		},
		Rotation: rotation,
	}
}

// shortestTurn returns the signed angle in (-180,180] that turns from onto to.
func shortestTurn(from, to float32) float32 {
	d := float32(math.Mod(float64(to-from), 360))
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

// Compute returns the smoothed transform for e according to its kind.
func Compute(e *entity.Entity, fn ease.TweenFunc, rotate bool) (entity.Transform, error) {
	if err := e.Validate(); err != nil {
		return entity.Transform{}, err
	}
	switch e.Kind {
	case entity.KindObject:
		return e.DiscreteTransform(), nil
	case entity.KindUnit:
		return Unit(e.Motion, mgl32.Vec2{float32(e.MapPos.X), float32(e.MapPos.Y)}, fn, rotate), nil
	case entity.KindUnitFast:
		return entity.Transform{}, fmt.Errorf("%s entities are not interpolated", e.Kind)
	}
	return entity.Transform{}, fmt.Errorf("%w: %s", entity.ErrMalformed, e.Kind)
}

// Stats summarises one Process call.
type Stats struct {
	Interpolated int
	Skipped      int
	Malformed    int
	Aborted      bool
}

// Strategy is the default batch interpolator.
type Strategy struct {
	Ease        ease.TweenFunc
	RotateUnits bool
	Log         log.Log
}

// Process interpolates every entity of b that is still Uncomputed. Rendered
// and fast-path entities are skipped, malformed ones are logged and left
// Uncomputed. It stops between entities once ctx is cancelled.
func (s Strategy) Process(ctx context.Context, b *entity.Batch) Stats {
	fn := s.Ease
	if fn == nil {
		fn = ease.Linear
	}
	logger := s.Log
	if logger == nil {
		logger = log.NewNop()
	}

	var stats Stats
	for i, e := range b.Entities {
		if ctx.Err() != nil {
			stats.Aborted = true
			break
		}
		if e == nil {
			stats.Malformed++
			logger.WithContext(ctx).Warn("skipping nil render entity", log.Int("index", i))
			continue
		}
		if e.Kind == entity.KindUnitFast || e.State() != entity.StateUncomputed {
			stats.Skipped++
			continue
		}
		t, err := Compute(e, fn, s.RotateUnits)
		if err != nil {
			stats.Malformed++
			logger.WithContext(ctx).Warn("skipping malformed render entity",
				log.Int("index", i), log.Stringer("kind", e.Kind), log.Error(err))
			continue
		}
		if err := e.SetInterpolated(t); err != nil {
			// the render pass got there first
			stats.Skipped++
			continue
		}
		stats.Interpolated++
	}
	return stats
}
