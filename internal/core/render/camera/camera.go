// Package camera models the game camera and maps between screen pixels and
// map cells.
package camera

import (
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
)

// Viewport is the window size in pixels. Screen coordinates have their
// origin at the top-left corner.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Camera is a perspective camera over the ground plane y=0. One world unit is
// one map cell; world x maps to cell X and world z to cell Y.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FOV      float32 // vertical, degrees
	Near     float32
	Far      float32
	Viewport Viewport
}

// New returns a camera with the game's default lens.
func New(position, target mgl32.Vec3, vp Viewport) Camera {
	return Camera{
		Position: position,
		Target:   target,
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      60,
		Near:     1,
		Far:      200,
		Viewport: vp,
	}
}

func (c Camera) String() string {
	return fmt.Sprintf("camera(%v -> %v, fov %.0f, %dx%d)", c.Position, c.Target, c.FOV,
		c.Viewport.Width, c.Viewport.Height)
}

func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Viewport.Aspect(), c.Near, c.Far)
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ray returns the near and far plane points under a screen pixel.
func (c Camera) ray(x, y float32) (mgl32.Vec3, mgl32.Vec3, error) {
	view, proj := c.View(), c.Projection()
	winY := float32(c.Viewport.Height) - y
	near, err := mgl32.UnProject(mgl32.Vec3{x, winY, 0}, view, proj, 0, 0, c.Viewport.Width, c.Viewport.Height)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	far, err := mgl32.UnProject(mgl32.Vec3{x, winY, 1}, view, proj, 0, 0, c.Viewport.Width, c.Viewport.Height)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	return near, far, nil
}

// ground intersects the pixel ray with y=0. t is the fraction of the
// near-to-far segment at the hit; ok is false if the ray never descends.
func (c Camera) ground(x, y float32) (hit mgl32.Vec3, t float32, ok bool) {
	near, far, err := c.ray(x, y)
	if err != nil {
		return mgl32.Vec3{}, 0, false
	}
	dir := far.Sub(near)
	if dir.Y() >= 0 {
		return mgl32.Vec3{}, 0, false
	}
	t = -near.Y() / dir.Y()
	if t < 0 {
		return mgl32.Vec3{}, 0, false
	}
	return near.Add(dir.Mul(t)), t, true
}

// ComputePosition returns the map cell under the screen pixel p. It returns
// false when the pixel looks at or above the horizon, or the ground under it
// lies beyond the far plane.
func (c Camera) ComputePosition(p image.Point) (geom.Vec2i, bool) {
	hit, t, ok := c.ground(float32(p.X)+0.5, float32(p.Y)+0.5)
	if !ok || t > 1 {
		return geom.Vec2i{}, false
	}
	return cell(hit), true
}

// VisibleQuad is the ground footprint of the four screen corners. Corners
// whose rays miss the ground within the far plane are pulled back to the far
// plane's projection onto the ground.
func (c Camera) VisibleQuad() geom.Quad2i {
	w, h := float32(c.Viewport.Width), float32(c.Viewport.Height)
	// top-left, bottom-left, bottom-right, top-right
	corners := [4][2]float32{{0, 0}, {0, h}, {w, h}, {w, 0}}

	var q geom.Quad2i
	for i, corner := range corners {
		hit, t, ok := c.ground(corner[0], corner[1])
		if !ok || t > 1 {
			_, far, err := c.ray(corner[0], corner[1])
			if err != nil {
				far = c.Target
			}
			hit = mgl32.Vec3{far.X(), 0, far.Z()}
		}
		q.P[i] = cell(hit)
	}
	return q
}

// Project maps a world point to screen pixels. ok is false for points behind
// the camera.
func (c Camera) Project(world mgl32.Vec3) (image.Point, bool) {
	view := c.View()
	if view.Mul4x1(world.Vec4(1)).Z() >= 0 {
		return image.Point{}, false
	}
	win := mgl32.Project(world, view, c.Projection(), 0, 0, c.Viewport.Width, c.Viewport.Height)
	return image.Pt(int(math.Floor(float64(win.X()))), c.Viewport.Height-int(math.Ceil(float64(win.Y())))), true
}

func cell(v mgl32.Vec3) geom.Vec2i {
	return geom.Vec2i{
		X: int(math.Round(float64(v.X()))),
		Y: int(math.Round(float64(v.Z()))),
	}
}
