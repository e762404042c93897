// Package selection implements the off-screen pass used for mouse picking.
// Each unit is painted in a colour that encodes its slot; reading the
// colours back under a screen rectangle yields the units there.
package selection

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/benidon1974/zetaglest-source/internal/core/render/camera"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
)

// MaxUnits is the number of distinct slots a 24-bit colour can encode.
const MaxUnits = 1<<24 - 1

var ErrBufferFull = errors.New("selection buffer full")

// Encode maps slot i to its colour. Slot colours are never the clear colour.
func Encode(i int) color.RGBA {
	n := uint32(i + 1)
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}

// Decode inverts Encode. ok is false for the clear colour.
func Decode(c color.RGBA) (int, bool) {
	n := int(c.R)<<16 | int(c.G)<<8 | int(c.B)
	if c.A == 0 || n == 0 {
		return 0, false
	}
	return n - 1, true
}

type Buffer struct {
	img   *image.RGBA
	units []entity.UnitRef
}

func NewBuffer(vp camera.Viewport) *Buffer {
	return &Buffer{img: image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))}
}

// Reset clears the image and forgets every painted unit. The buffer is
// reallocated if the viewport changed size.
func (b *Buffer) Reset(vp camera.Viewport) {
	if b.img.Bounds().Dx() != vp.Width || b.img.Bounds().Dy() != vp.Height {
		b.img = image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	} else {
		draw.Draw(b.img, b.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}
	b.units = b.units[:0]
}

func (b *Buffer) Image() image.Image { return b.img }

func (b *Buffer) Len() int { return len(b.units) }

// Paint draws the screen footprint of a unit standing at t. Units entirely
// off-screen or behind the camera take no slot.
func (b *Buffer) Paint(cam camera.Camera, ref entity.UnitRef, t entity.Transform, size int) error {
	if len(b.units) >= MaxUnits {
		return ErrBufferFull
	}
	r, ok := footprint(cam, t.Position, float32(max(size, 1)))
	if !ok {
		return nil
	}
	r = r.Intersect(b.img.Bounds())
	if r.Empty() {
		return nil
	}
	draw.Draw(b.img, r, image.NewUniform(Encode(len(b.units))), image.Point{}, draw.Src)
	b.units = append(b.units, ref)
	return nil
}

// Pick returns the units visible inside r, in order of first appearance
// scanning rows top to bottom. An empty r picks the single pixel at r.Min.
func (b *Buffer) Pick(r image.Rectangle) []entity.UnitRef {
	r = r.Canon()
	if r.Empty() {
		r = image.Rectangle{Min: r.Min, Max: r.Min.Add(image.Pt(1, 1))}
	}
	r = r.Intersect(b.img.Bounds())

	seen := make(map[int]bool)
	var out []entity.UnitRef
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i, ok := Decode(b.img.RGBAAt(x, y))
			if !ok || seen[i] || i >= len(b.units) {
				continue
			}
			seen[i] = true
			out = append(out, b.units[i])
		}
	}
	return out
}

// footprint projects the unit's bounding box and returns its screen bounds.
func footprint(cam camera.Camera, pos mgl32.Vec3, size float32) (image.Rectangle, bool) {
	half := size / 2
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	projected := false
	for _, dx := range [2]float32{-half, half} {
		for _, dz := range [2]float32{-half, half} {
			for _, dy := range [2]float32{0, size} {
				p, ok := cam.Project(pos.Add(mgl32.Vec3{dx, dy, dz}))
				if !ok {
					continue
				}
				projected = true
				minX, minY = min(minX, p.X), min(minY, p.Y)
				maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
			}
		}
	}
	if !projected {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
