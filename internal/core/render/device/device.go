// Package device is the boundary between the render core and the graphics
// driver. The core never issues driver calls itself; it hands descriptors to a
// Device and receives opaque ids back.
package device

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

var (
	ErrUnsupportedFormat = errors.New("texture format not supported by device")
	ErrTextureTooLarge   = errors.New("texture exceeds device size limit")
	ErrUnknownResource   = errors.New("unknown device resource")
	ErrDeviceLost        = errors.New("device lost")
)

type (
	TextureID uint32
	MeshID    uint32
	ListID    uint32
)

// ListKind selects one of the precompiled state lists.
type ListKind uint8

const (
	List2D ListKind = iota
	List3D
	List3DMenu
)

func (k ListKind) String() string {
	switch k {
	case List2D:
		return "2d"
	case List3D:
		return "3d"
	case List3DMenu:
		return "3d-menu"
	}
	return fmt.Sprintf("list(%d)", uint8(k))
}

// Info describes the driver. Extensions is the raw capability list the
// capability check runs against.
type Info struct {
	Vendor     string
	Renderer   string
	Version    string
	Extensions []string

	MaxTextureSize int
	MaxLights      int
	TextureUnits   int
}

// HasExtension reports whether name is among the advertised extensions.
func (i Info) HasExtension(name string) bool {
	for _, ext := range i.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

// TextureDesc mirrors the fields a driver needs to create a texture.
type TextureDesc struct {
	Label     string
	Dimension gputypes.TextureDimension
	Format    gputypes.TextureFormat
	Size      gputypes.Extent3D
	Mipmap    bool
	Pixels    image.Image
}

// MeshDesc is a model's geometry ready for upload.
type MeshDesc struct {
	Label    string
	Vertices []mgl32.Vec3
	Indices  []uint32
	Texture  TextureID
}

// DrawStats is what a single draw call reports back to the frame counters.
type DrawStats struct {
	Triangles int
	Vertices  int
}

func (s DrawStats) Add(o DrawStats) DrawStats {
	return DrawStats{Triangles: s.Triangles + o.Triangles, Vertices: s.Vertices + o.Vertices}
}

// Device is implemented by the graphics backend. All methods are called from
// the render goroutine only.
type Device interface {
	Info() Info

	CreateTexture(desc TextureDesc) (TextureID, error)
	DestroyTexture(id TextureID)

	CreateMesh(desc MeshDesc) (MeshID, error)
	DestroyMesh(id MeshID)

	CompileList(kind ListKind) (ListID, error)
	DeleteList(id ListID)

	DrawMesh(id MeshID, model mgl32.Mat4) (DrawStats, error)
	DrawQuads(count int, texture TextureID) DrawStats
}
