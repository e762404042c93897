package resource

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/font"

	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

// asset is implemented by everything a Pool can own.
type asset interface {
	kind() Kind
	label() string
	upload(dev device.Device) error
	destroy(dev device.Device)
}

type MeshParams struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

type ModelParams struct {
	Label  string
	Meshes []MeshParams
}

// Model is a set of uploaded meshes drawn with one transform.
type Model struct {
	name   string
	meshes []device.MeshDesc
	ids    []device.MeshID
}

func (m *Model) Label() string { return m.name }

// Meshes returns the device ids of the uploaded meshes.
func (m *Model) Meshes() []device.MeshID { return m.ids }

// Triangles is the triangle count of one draw of the whole model.
func (m *Model) Triangles() int {
	n := 0
	for _, mesh := range m.meshes {
		n += len(mesh.Indices) / 3
	}
	return n
}

func (m *Model) kind() Kind    { return KindModel }
func (m *Model) label() string { return m.name }

func (m *Model) upload(dev device.Device) error {
	ids := make([]device.MeshID, 0, len(m.meshes))
	for _, desc := range m.meshes {
		id, err := dev.CreateMesh(desc)
		if err != nil {
			for _, created := range ids {
				dev.DestroyMesh(created)
			}
			return err
		}
		ids = append(ids, id)
	}
	m.ids = ids
	return nil
}

func (m *Model) destroy(dev device.Device) {
	for _, id := range m.ids {
		dev.DestroyMesh(id)
	}
	m.ids = nil
}

// TextureParams describes a 2D or 3D texture. For 2D textures the size is
// taken from Image when it is set.
type TextureParams struct {
	Label  string
	Format gputypes.TextureFormat
	Width  int
	Height int
	Depth  int
	Image  image.Image
}

// Texture is a 2D or 3D texture living on the device.
type Texture struct {
	desc device.TextureDesc
	id   device.TextureID
}

func (t *Texture) ID() device.TextureID                 { return t.id }
func (t *Texture) Label() string                        { return t.desc.Label }
func (t *Texture) Format() gputypes.TextureFormat       { return t.desc.Format }
func (t *Texture) Dimension() gputypes.TextureDimension { return t.desc.Dimension }
func (t *Texture) Size() gputypes.Extent3D              { return t.desc.Size }

func (t *Texture) kind() Kind {
	if t.desc.Dimension == gputypes.TextureDimension3D {
		return KindTexture3D
	}
	return KindTexture2D
}

func (t *Texture) label() string { return t.desc.Label }

func (t *Texture) upload(dev device.Device) error {
	id, err := dev.CreateTexture(t.desc)
	if err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Texture) destroy(dev device.Device) {
	if t.id != 0 {
		dev.DestroyTexture(t.id)
		t.id = 0
	}
}

// FontParams describes a font face. A nil Source selects Go Regular.
type FontParams struct {
	Label  string
	Source []byte
	Size   float64
	DPI    float64
}

// Font is a rasterizable face. Glyph atlases are built lazily by the text
// renderer, so a font holds no device resources of its own.
type Font struct {
	name   string
	size   float64
	face   font.Face
	height int
}

func (f *Font) Label() string   { return f.name }
func (f *Font) Face() font.Face { return f.face }
func (f *Font) Size() float64   { return f.size }

// Height is the line height in pixels.
func (f *Font) Height() int { return f.height }

// Measure returns the advance width of s in pixels.
func (f *Font) Measure(s string) int {
	return font.MeasureString(f.face, s).Ceil()
}

func (f *Font) kind() Kind                 { return KindFont }
func (f *Font) label() string              { return f.name }
func (f *Font) upload(device.Device) error { return nil }

func (f *Font) destroy(device.Device) {
	if f.face != nil {
		_ = f.face.Close()
	}
}

// ParticleSystem is driven by game logic; the pool only keeps it alive for
// its scope and draws it.
type ParticleSystem interface {
	// Update advances the system by one simulation tick.
	Update()
	// Alive is false once every particle has expired.
	Alive() bool
	// Quads is the number of particle billboards to draw this frame.
	Quads() int
}

// particleAsset keeps the texture by handle; the device id behind it changes
// on reload and disappears on release.
type particleAsset struct {
	system  ParticleSystem
	texture Handle
}

func (p *particleAsset) kind() Kind                 { return KindParticleSystem }
func (p *particleAsset) label() string              { return "particles" }
func (p *particleAsset) upload(device.Device) error { return nil }
func (p *particleAsset) destroy(device.Device)      {}
