// Package geom holds the discrete map geometry shared by the renderer and the
// spatial queries built on it.
package geom

import "fmt"

// Vec2i is a cell coordinate on the map grid.
type Vec2i struct {
	X, Y int
}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{v.X + o.X, v.Y + o.Y} }
func (v Vec2i) Sub(o Vec2i) Vec2i { return Vec2i{v.X - o.X, v.Y - o.Y} }

func (v Vec2i) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Quad2i is a quadrilateral given in winding order. The visible region built
// from a camera frustum is always convex.
type Quad2i struct {
	P [4]Vec2i
}

// Bounds returns the axis-aligned bounding rectangle of the quad.
func (q Quad2i) Bounds() Rect2i {
	r := Rect2i{Min: q.P[0], Max: q.P[0]}
	for _, p := range q.P[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// Contains reports whether p lies inside the quad or on its border.
// Works for either winding as long as the quad is convex.
func (q Quad2i) Contains(p Vec2i) bool {
	var pos, neg bool
	for i := range q.P {
		a, b := q.P[i], q.P[(i+1)%len(q.P)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

func (q Quad2i) String() string {
	return fmt.Sprintf("[%s %s %s %s]", q.P[0], q.P[1], q.P[2], q.P[3])
}

// Rect2i is an inclusive axis-aligned rectangle.
type Rect2i struct {
	Min, Max Vec2i
}

// RectFromCorners normalizes two arbitrary corners into a Rect2i.
func RectFromCorners(a, b Vec2i) Rect2i {
	return Rect2i{
		Min: Vec2i{min(a.X, b.X), min(a.Y, b.Y)},
		Max: Vec2i{max(a.X, b.X), max(a.Y, b.Y)},
	}
}

func (r Rect2i) Contains(p Vec2i) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
