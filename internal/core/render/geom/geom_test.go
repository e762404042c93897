package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuad2i_Contains(t *testing.T) {
	// trapezoid as produced by a tilted camera
	q := Quad2i{P: [4]Vec2i{{0, 0}, {10, 0}, {7, 6}, {3, 6}}}

	t.Run("inside", func(t *testing.T) {
		require.True(t, q.Contains(Vec2i{5, 3}))
		require.True(t, q.Contains(Vec2i{0, 0}))
		require.True(t, q.Contains(Vec2i{5, 6}))
	})

	t.Run("outside", func(t *testing.T) {
		require.False(t, q.Contains(Vec2i{0, 6}))
		require.False(t, q.Contains(Vec2i{11, 0}))
		require.False(t, q.Contains(Vec2i{5, -1}))
	})

	t.Run("reverse winding", func(t *testing.T) {
		r := Quad2i{P: [4]Vec2i{q.P[3], q.P[2], q.P[1], q.P[0]}}
		require.True(t, r.Contains(Vec2i{5, 3}))
		require.False(t, r.Contains(Vec2i{0, 6}))
	})
}

func TestQuad2i_Bounds(t *testing.T) {
	q := Quad2i{P: [4]Vec2i{{2, 9}, {-1, 4}, {6, 0}, {3, 3}}}
	require.Equal(t, Rect2i{Min: Vec2i{-1, 0}, Max: Vec2i{6, 9}}, q.Bounds())
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Vec2i{5, 1}, Vec2i{2, 7})
	require.Equal(t, Vec2i{2, 1}, r.Min)
	require.Equal(t, Vec2i{5, 7}, r.Max)
	require.True(t, r.Contains(Vec2i{5, 7}))
	require.False(t, r.Contains(Vec2i{6, 7}))
}
