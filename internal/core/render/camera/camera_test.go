package camera

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
)

var vp = Viewport{Width: 800, Height: 600}

func topDown() Camera {
	c := New(mgl32.Vec3{10, 20, 5}, mgl32.Vec3{10, 0, 5}, vp)
	c.Up = mgl32.Vec3{0, 0, -1}
	return c
}

func horizontal() Camera {
	return New(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 2, -10}, vp)
}

func TestComputePosition(t *testing.T) {
	t.Run("screen centre over the ground", func(t *testing.T) {
		got, ok := topDown().ComputePosition(image.Pt(400, 300))
		require.True(t, ok)
		require.Equal(t, geom.Vec2i{X: 10, Y: 5}, got)
	})

	t.Run("above the horizon", func(t *testing.T) {
		_, ok := horizontal().ComputePosition(image.Pt(400, 0))
		require.False(t, ok)
	})

	t.Run("below the horizon", func(t *testing.T) {
		got, ok := horizontal().ComputePosition(image.Pt(400, 599))
		require.True(t, ok)
		require.Equal(t, 0, got.X)
		require.Less(t, got.Y, 0)
	})

	t.Run("screen top is towards -z", func(t *testing.T) {
		top, ok := topDown().ComputePosition(image.Pt(400, 10))
		require.True(t, ok)
		require.Less(t, top.Y, 5)
	})
}

func TestVisibleQuad(t *testing.T) {
	t.Run("top down", func(t *testing.T) {
		q := topDown().VisibleQuad()
		require.True(t, q.Contains(geom.Vec2i{X: 10, Y: 5}))
		require.False(t, q.Contains(geom.Vec2i{X: 60, Y: 5}))

		b := q.Bounds()
		require.Less(t, b.Min.X, 10)
		require.Greater(t, b.Max.X, 10)
	})

	t.Run("horizon clamped to far plane", func(t *testing.T) {
		q := horizontal().VisibleQuad()
		require.True(t, q.Contains(geom.Vec2i{X: 0, Y: -100}))
		require.False(t, q.Contains(geom.Vec2i{X: 0, Y: -400}))
		require.False(t, q.Contains(geom.Vec2i{X: 0, Y: 10}))
	})
}

func TestProject(t *testing.T) {
	c := topDown()
	p, ok := c.Project(mgl32.Vec3{10, 0, 5})
	require.True(t, ok)
	require.InDelta(t, 400, p.X, 1)
	require.InDelta(t, 300, p.Y, 1)

	_, ok = horizontal().Project(mgl32.Vec3{0, 2, 10})
	require.False(t, ok)
}
