package interpolate

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
)

func movingUnit(i int, progress float32) *entity.Entity {
	return entity.NewUnit(
		entity.UnitRef{Index: uint32(i), Generation: 1},
		geom.Vec2i{X: 10, Y: 5},
		entity.Motion{Last: geom.Vec2i{}, Progress: progress, LastRotation: 350, Rotation: 10, Height: 1},
		resource.Handle{},
	)
}

func TestUnit_Deterministic(t *testing.T) {
	m := entity.Motion{Last: geom.Vec2i{}, Progress: 0.5, Height: 1}
	cur := mgl32.Vec2{10, 5}

	first := Unit(m, cur, ease.Linear, false)
	for range 100 {
		require.Equal(t, first, Unit(m, cur, ease.Linear, false))
	}
	require.Equal(t, mgl32.Vec3{5, 1, 2.5}, first.Position)
}

func TestUnit_ClampsProgress(t *testing.T) {
	cur := mgl32.Vec2{4, 4}
	over := Unit(entity.Motion{Progress: 3}, cur, ease.Linear, false)
	under := Unit(entity.Motion{Progress: -1}, cur, ease.Linear, false)

	require.Equal(t, mgl32.Vec3{4, 0, 4}, over.Position)
	require.Equal(t, mgl32.Vec3{0, 0, 0}, under.Position)
}

func TestUnit_RotationTakesShortestTurn(t *testing.T) {
	m := entity.Motion{Progress: 0.5, LastRotation: 350, Rotation: 10}

	got := Unit(m, mgl32.Vec2{}, ease.Linear, true)
	require.InDelta(t, 360, got.Rotation, 1e-4)

	fixed := Unit(m, mgl32.Vec2{}, ease.Linear, false)
	require.Equal(t, float32(10), fixed.Rotation)
}

func TestShortestTurn(t *testing.T) {
	tests := []struct {
		from, to, want float32
	}{
		{0, 90, 90},
		{90, 0, -90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{0, 540, 180},
	}
	for _, tt := range tests {
		require.InDelta(t, tt.want, shortestTurn(tt.from, tt.to), 1e-4, "%v -> %v", tt.from, tt.to)
	}
}

func TestEasingByName(t *testing.T) {
	fn, err := EasingByName("")
	require.NoError(t, err)
	require.Equal(t, float32(0.5), fn(0.5, 0, 1, 1))

	fn, err = EasingByName("InOutQuad")
	require.NoError(t, err)
	require.Equal(t, ease.InOutQuad(0.25, 0, 1, 1), fn(0.25, 0, 1, 1))

	_, err = EasingByName("bounce-twice")
	require.Error(t, err)
}

func TestStrategy_Process(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := Strategy{Log: log.NewWithZap(zap.New(core))}

	obj := entity.NewObject(entity.ObjectRef{Index: 1, Generation: 1}, geom.Vec2i{X: 2, Y: 3}, resource.Handle{})
	moving := movingUnit(1, 0.5)
	rendered := movingUnit(2, 0.5)
	_, _, err := rendered.Consume()
	require.NoError(t, err)
	fast := entity.NewUnitFast(entity.UnitRef{Index: 3, Generation: 1}, geom.Vec2i{}, 1)
	broken := movingUnit(4, 0.5)
	broken.Unit = entity.UnitRef{}

	b := entity.NewBatch(7, obj, moving, nil, rendered, fast, broken)
	stats := s.Process(context.Background(), b)

	require.Equal(t, Stats{Interpolated: 2, Skipped: 2, Malformed: 2}, stats)
	require.Equal(t, entity.StateInterpolated, obj.State())
	require.Equal(t, obj.DiscreteTransform(), obj.Transform())
	require.Equal(t, entity.StateInterpolated, moving.State())
	require.Equal(t, entity.StateUncomputed, fast.State())
	require.Equal(t, entity.StateUncomputed, broken.State())

	require.Equal(t, 1, logs.FilterMessage("skipping malformed render entity").Len())
	require.Equal(t, 1, logs.FilterMessage("skipping nil render entity").Len())
}

func TestStrategy_ProcessAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := entity.NewBatch(1, movingUnit(1, 0), movingUnit(2, 0))
	stats := Strategy{}.Process(ctx, b)

	require.True(t, stats.Aborted)
	require.Zero(t, stats.Interpolated)
	require.Equal(t, 2, b.Count(entity.StateUncomputed))
}
