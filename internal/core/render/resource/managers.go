package resource

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

const (
	defaultFontSize = 12
	defaultFontDPI  = 72
)

type modelManager struct {
	dev device.Device
}

func (m modelManager) create(p ModelParams) (*Model, error) {
	if len(p.Meshes) == 0 {
		return nil, fmt.Errorf("%w: model without meshes", ErrInvalidParams)
	}
	model := &Model{name: p.Label, meshes: make([]device.MeshDesc, 0, len(p.Meshes))}
	for i, mesh := range p.Meshes {
		if len(mesh.Indices)%3 != 0 {
			return nil, fmt.Errorf("%w: mesh %d has %d indices", ErrInvalidParams, i, len(mesh.Indices))
		}
		model.meshes = append(model.meshes, device.MeshDesc{
			Label:    fmt.Sprintf("%s#%d", p.Label, i),
			Vertices: mesh.Vertices,
			Indices:  mesh.Indices,
		})
	}
	if err := model.upload(m.dev); err != nil {
		return nil, err
	}
	return model, nil
}

type textureManager struct {
	dev     device.Device
	mipmaps bool
}

func (m textureManager) create2D(p TextureParams) (*Texture, error) {
	w, h := p.Width, p.Height
	if p.Image != nil {
		b := p.Image.Bounds()
		w, h = b.Dx(), b.Dy()
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: 2d texture size %dx%d", ErrInvalidParams, w, h)
	}
	return m.create(p, gputypes.TextureDimension2D, gputypes.Extent3D{
		Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1,
	})
}

func (m textureManager) create3D(p TextureParams) (*Texture, error) {
	if p.Width <= 0 || p.Height <= 0 || p.Depth <= 0 {
		return nil, fmt.Errorf("%w: 3d texture size %dx%dx%d", ErrInvalidParams, p.Width, p.Height, p.Depth)
	}
	return m.create(p, gputypes.TextureDimension3D, gputypes.Extent3D{
		Width: uint32(p.Width), Height: uint32(p.Height), DepthOrArrayLayers: uint32(p.Depth),
	})
}

func (m textureManager) create(p TextureParams, dim gputypes.TextureDimension, size gputypes.Extent3D) (*Texture, error) {
	format := p.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	tex := &Texture{desc: device.TextureDesc{
		Label:     p.Label,
		Dimension: dim,
		Format:    format,
		Size:      size,
		Mipmap:    m.mipmaps,
		Pixels:    p.Image,
	}}
	if err := tex.upload(m.dev); err != nil {
		return nil, err
	}
	return tex, nil
}

type fontManager struct{}

func (fontManager) create(p FontParams) (*Font, error) {
	src := p.Source
	if len(src) == 0 {
		src = goregular.TTF
	}
	size := p.Size
	if size <= 0 {
		size = defaultFontSize
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = defaultFontDPI
	}

	parsed, err := opentype.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return &Font{
		name:   p.Label,
		size:   size,
		face:   face,
		height: face.Metrics().Height.Ceil(),
	}, nil
}

type particleManager struct{}

func (particleManager) manage(ps ParticleSystem, texture Handle) (*particleAsset, error) {
	if ps == nil {
		return nil, fmt.Errorf("%w: nil particle system", ErrInvalidParams)
	}
	return &particleAsset{system: ps, texture: texture}, nil
}
