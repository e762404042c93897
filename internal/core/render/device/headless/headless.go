// Package headless provides a Device that keeps everything in memory. It backs
// the tests and the rendersim binary, where no graphics context exists.
package headless

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

var _ device.Device = (*Device)(nil)

// Standard extension names advertised by Default.
var standardExtensions = []string{
	"GL_ARB_multitexture",
	"GL_ARB_texture_env_combine",
	"GL_ARB_texture_env_crossbar",
	"GL_ARB_texture_cube_map",
	"GL_EXT_texture3D",
	"GL_ARB_shadow",
	"GL_ARB_shadow_ambient",
	"GL_ARB_depth_texture",
}

// DrawCall records one DrawMesh invocation.
type DrawCall struct {
	Mesh  device.MeshID
	Model mgl32.Mat4
	Stats device.DrawStats
}

type mesh struct {
	desc  device.MeshDesc
	stats device.DrawStats
}

// Device is safe for concurrent use, although the render core only calls it
// from one goroutine.
type Device struct {
	mu sync.Mutex

	info    device.Info
	formats map[gputypes.TextureFormat]bool

	nextID   uint32
	textures map[device.TextureID]device.TextureDesc
	meshes   map[device.MeshID]mesh
	lists    map[device.ListID]device.ListKind
	draws    []DrawCall

	// OnDraw, if set, runs after every DrawMesh with the lock released.
	OnDraw func(DrawCall)
}

// Option customizes a Device built by New.
type Option func(*Device)

// WithExtensions replaces the advertised extension list.
func WithExtensions(exts ...string) Option {
	return func(d *Device) { d.info.Extensions = slices.Clone(exts) }
}

// WithoutExtensions removes names from the advertised extension list.
func WithoutExtensions(exts ...string) Option {
	return func(d *Device) {
		d.info.Extensions = slices.DeleteFunc(d.info.Extensions, func(e string) bool {
			return slices.Contains(exts, e)
		})
	}
}

// WithMaxTextureSize sets the largest accepted texture edge.
func WithMaxTextureSize(size int) Option {
	return func(d *Device) { d.info.MaxTextureSize = size }
}

// WithFormats restricts the accepted texture formats to formats.
func WithFormats(formats ...gputypes.TextureFormat) Option {
	return func(d *Device) {
		d.formats = make(map[gputypes.TextureFormat]bool, len(formats))
		for _, f := range formats {
			d.formats[f] = true
		}
	}
}

// New builds a headless device advertising the standard extension set.
func New(opts ...Option) *Device {
	d := &Device{
		info: device.Info{
			Vendor:         "zetaglest",
			Renderer:       "headless",
			Version:        "1.3",
			Extensions:     slices.Clone(standardExtensions),
			MaxTextureSize: 4096,
			MaxLights:      8,
			TextureUnits:   4,
		},
		formats: map[gputypes.TextureFormat]bool{
			gputypes.TextureFormatRGBA8Unorm:          true,
			gputypes.TextureFormatBGRA8Unorm:          true,
			gputypes.TextureFormatR8Unorm:             true,
			gputypes.TextureFormatDepth24PlusStencil8: true,
		},
		textures: make(map[device.TextureID]device.TextureDesc),
		meshes:   make(map[device.MeshID]mesh),
		lists:    make(map[device.ListID]device.ListKind),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Info() device.Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	info := d.info
	info.Extensions = slices.Clone(d.info.Extensions)
	return info
}

func (d *Device) CreateTexture(desc device.TextureDesc) (device.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.formats[desc.Format] {
		return 0, fmt.Errorf("%w: %v", device.ErrUnsupportedFormat, desc.Format)
	}
	if desc.Dimension == gputypes.TextureDimension3D && !d.info.HasExtension("GL_EXT_texture3D") {
		return 0, fmt.Errorf("%w: 3d textures", device.ErrUnsupportedFormat)
	}
	limit := uint32(d.info.MaxTextureSize)
	if desc.Size.Width > limit || desc.Size.Height > limit || desc.Size.DepthOrArrayLayers > limit {
		return 0, fmt.Errorf("%w: %dx%dx%d > %d", device.ErrTextureTooLarge,
			desc.Size.Width, desc.Size.Height, desc.Size.DepthOrArrayLayers, limit)
	}

	d.nextID++
	id := device.TextureID(d.nextID)
	d.textures[id] = desc
	return id, nil
}

func (d *Device) DestroyTexture(id device.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.textures, id)
}

func (d *Device) CreateMesh(desc device.MeshDesc) (device.MeshID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, idx := range desc.Indices {
		if int(idx) >= len(desc.Vertices) {
			return 0, fmt.Errorf("mesh %q: index %d out of range", desc.Label, idx)
		}
	}
	d.nextID++
	id := device.MeshID(d.nextID)
	d.meshes[id] = mesh{
		desc: desc,
		stats: device.DrawStats{
			Triangles: len(desc.Indices) / 3,
			Vertices:  len(desc.Vertices),
		},
	}
	return id, nil
}

func (d *Device) DestroyMesh(id device.MeshID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.meshes, id)
}

func (d *Device) CompileList(kind device.ListKind) (device.ListID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := device.ListID(d.nextID)
	d.lists[id] = kind
	return id, nil
}

func (d *Device) DeleteList(id device.ListID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.lists, id)
}

func (d *Device) DrawMesh(id device.MeshID, model mgl32.Mat4) (device.DrawStats, error) {
	d.mu.Lock()
	m, ok := d.meshes[id]
	if !ok {
		d.mu.Unlock()
		return device.DrawStats{}, fmt.Errorf("%w: mesh %d", device.ErrUnknownResource, id)
	}
	call := DrawCall{Mesh: id, Model: model, Stats: m.stats}
	d.draws = append(d.draws, call)
	hook := d.OnDraw
	d.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return m.stats, nil
}

func (d *Device) DrawQuads(count int, _ device.TextureID) device.DrawStats {
	return device.DrawStats{Triangles: 2 * count, Vertices: 4 * count}
}

// Draws returns a copy of every recorded draw call.
func (d *Device) Draws() []DrawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.draws)
}

// LiveTextures is the number of textures created and not yet destroyed.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

func (d *Device) LiveMeshes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.meshes)
}

// Lists returns the kinds of the currently compiled lists.
func (d *Device) Lists() []device.ListKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	kinds := make([]device.ListKind, 0, len(d.lists))
	for _, k := range d.lists {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
