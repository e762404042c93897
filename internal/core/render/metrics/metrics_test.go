package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	r, err := New(func() map[string]int { return map[string]int{"game": 3} })
	require.NoError(t, err)

	require.Equal(t, uint64(1), r.BeginFrame(ctx))
	r.AddDraw(ctx, device.DrawStats{Triangles: 12, Vertices: 8})
	r.AddDraw(ctx, device.DrawStats{Triangles: 2, Vertices: 4})
	require.Equal(t, int64(14), r.Triangles())
	require.Equal(t, int64(12), r.Vertices())

	r.AddConsumed(ctx, entity.SourceInterpolated)
	r.AddConsumed(ctx, entity.SourceFallback)
	r.AddConsumed(ctx, entity.SourceFallback)
	r.AddConsumed(ctx, entity.SourceFlat)
	require.Equal(t, int64(1), r.Interpolated())
	require.Equal(t, int64(2), r.Fallbacks())

	require.Equal(t, uint64(2), r.BeginFrame(ctx))
	require.Zero(t, r.Triangles())
	require.Zero(t, r.Vertices())
	require.Equal(t, int64(2), r.Fallbacks())
	require.Equal(t, uint64(2), r.Frame())
}
