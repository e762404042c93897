package resource

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device/headless"
)

// destroyRecorder remembers the order meshes are destroyed in.
type destroyRecorder struct {
	*headless.Device
	destroyed []device.MeshID
}

func (d *destroyRecorder) DestroyMesh(id device.MeshID) {
	d.destroyed = append(d.destroyed, id)
	d.Device.DestroyMesh(id)
}

// quadRecorder remembers the texture of every particle draw.
type quadRecorder struct {
	*headless.Device
	textures []device.TextureID
}

func (d *quadRecorder) DrawQuads(count int, texture device.TextureID) device.DrawStats {
	d.textures = append(d.textures, texture)
	return d.Device.DrawQuads(count, texture)
}

var errDeviceLost = errors.New("device lost")

// lossyDevice refuses new meshes once lost is set.
type lossyDevice struct {
	*headless.Device
	lost bool
}

func (d *lossyDevice) CreateMesh(desc device.MeshDesc) (device.MeshID, error) {
	if d.lost {
		return 0, errDeviceLost
	}
	return d.Device.CreateMesh(desc)
}

func quadModel(label string) ModelParams {
	return ModelParams{
		Label: label,
		Meshes: []MeshParams{{
			Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}},
			Indices:  []uint32{0, 1, 2, 2, 1, 3},
		}},
	}
}

func newTestRegistry(t *testing.T, dev device.Device) *Registry {
	t.Helper()
	r := NewRegistry(dev, log.NewNop(), Options{})
	for _, s := range []Scope{ScopeGlobal, ScopeMenu, ScopeGame} {
		_, err := r.Open(s)
		require.NoError(t, err)
	}
	return r
}

type fakeParticles struct {
	ticks, lifetime, quads int
}

func (f *fakeParticles) Update()     { f.ticks++ }
func (f *fakeParticles) Alive() bool { return f.ticks < f.lifetime }
func (f *fakeParticles) Quads() int  { return f.quads }

func TestRegistry_Teardown(t *testing.T) {
	dev := headless.New()
	r := newTestRegistry(t, dev)

	global, err := r.NewModel(ScopeGlobal, quadModel("cursor"))
	require.NoError(t, err)

	var game []Handle
	for i := 0; i < 3; i++ {
		h, err := r.NewModel(ScopeGame, quadModel("unit"))
		require.NoError(t, err)
		game = append(game, h)
	}
	_, err = r.NewTexture2D(ScopeGame, TextureParams{Width: 16, Height: 16})
	require.NoError(t, err)
	require.Equal(t, 4, r.Live(ScopeGame))

	require.Equal(t, 4, r.Teardown(ScopeGame))
	require.Zero(t, r.Live(ScopeGame))
	require.False(t, r.Active(ScopeGame))

	t.Run("old handles are rejected", func(t *testing.T) {
		for _, h := range game {
			require.ErrorIs(t, r.Release(ScopeGame, h), ErrStaleHandle)
			_, err := r.Model(h)
			require.ErrorIs(t, err, ErrStaleHandle)
		}
	})

	t.Run("global untouched", func(t *testing.T) {
		require.Equal(t, 1, r.Live(ScopeGlobal))
		_, err := r.Model(global)
		require.NoError(t, err)
		require.Equal(t, 1, dev.LiveMeshes())
	})

	t.Run("reopened scope hands out fresh handles", func(t *testing.T) {
		_, err := r.Open(ScopeGame)
		require.NoError(t, err)
		h, err := r.NewModel(ScopeGame, quadModel("unit"))
		require.NoError(t, err)
		for _, old := range game {
			require.NotEqual(t, old.ID, h.ID)
			require.ErrorIs(t, r.Release(ScopeGame, old), ErrStaleHandle)
		}
		require.NoError(t, r.Release(ScopeGame, h))
	})

	t.Run("teardown of inactive scope is a no-op", func(t *testing.T) {
		require.Zero(t, r.Teardown(ScopeMenu))
		require.Zero(t, r.Teardown(ScopeMenu))
	})
}

func TestRegistry_TeardownReverseOrder(t *testing.T) {
	dev := &destroyRecorder{Device: headless.New()}
	r := newTestRegistry(t, dev)

	var meshes []device.MeshID
	for i := 0; i < 3; i++ {
		h, err := r.NewModel(ScopeMenu, quadModel("menu"))
		require.NoError(t, err)
		m, err := r.Model(h)
		require.NoError(t, err)
		meshes = append(meshes, m.Meshes()...)
	}

	r.Teardown(ScopeMenu)
	require.Equal(t, []device.MeshID{meshes[2], meshes[1], meshes[0]}, dev.destroyed)
}

func TestRegistry_ScopeMismatch(t *testing.T) {
	r := newTestRegistry(t, headless.New())

	h, err := r.NewTexture2D(ScopeGame, TextureParams{Width: 8, Height: 8})
	require.NoError(t, err)

	err = r.Release(ScopeMenu, h)
	var mismatch *ScopeMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, ScopeMenu, mismatch.Requested)
	require.Equal(t, ScopeGame, mismatch.Handle.Scope)

	require.Equal(t, 1, r.Live(ScopeGame))
	_, err = r.Texture(h)
	require.NoError(t, err)

	require.NoError(t, r.Release(ScopeGame, h))
	require.Zero(t, r.Live(ScopeGame))
	require.ErrorIs(t, r.Release(ScopeGame, h), ErrStaleHandle)
}

func TestRegistry_CreationErrors(t *testing.T) {
	r := newTestRegistry(t, headless.New(
		headless.WithMaxTextureSize(64),
		headless.WithFormats(gputypes.TextureFormatRGBA8Unorm),
	))

	tests := []struct {
		name   string
		create func() (Handle, error)
		kind   Kind
		cause  error
	}{
		{
			name: "texture too large",
			create: func() (Handle, error) {
				return r.NewTexture2D(ScopeGame, TextureParams{Label: "big", Width: 128, Height: 128})
			},
			kind:  KindTexture2D,
			cause: device.ErrTextureTooLarge,
		},
		{
			name: "unsupported format",
			create: func() (Handle, error) {
				return r.NewTexture3D(ScopeGame, TextureParams{
					Width: 4, Height: 4, Depth: 4, Format: gputypes.TextureFormatBGRA8Unorm,
				})
			},
			kind:  KindTexture3D,
			cause: device.ErrUnsupportedFormat,
		},
		{
			name: "empty model",
			create: func() (Handle, error) {
				return r.NewModel(ScopeGame, ModelParams{Label: "empty"})
			},
			kind:  KindModel,
			cause: ErrInvalidParams,
		},
		{
			name: "zero sized texture",
			create: func() (Handle, error) {
				return r.NewTexture2D(ScopeMenu, TextureParams{})
			},
			kind:  KindTexture2D,
			cause: ErrInvalidParams,
		},
		{
			name: "garbage font",
			create: func() (Handle, error) {
				return r.NewFont(ScopeGlobal, FontParams{Source: []byte("not a font")})
			},
			kind: KindFont,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.create()
			require.True(t, h.IsZero())
			var creation *ResourceCreationError
			require.True(t, errors.As(err, &creation))
			require.Equal(t, tt.kind, creation.Kind)
			if tt.cause != nil {
				require.ErrorIs(t, err, tt.cause)
			}
		})
	}

	require.Zero(t, r.Live(ScopeGame))
}

func TestRegistry_InactiveScope(t *testing.T) {
	r := NewRegistry(headless.New(), log.NewNop(), Options{})

	_, err := r.NewModel(ScopeGame, quadModel("x"))
	require.ErrorIs(t, err, ErrScopeInactive)

	_, err = r.Open(ScopeGame)
	require.NoError(t, err)
	_, err = r.Open(ScopeGame)
	require.ErrorIs(t, err, ErrScopeActive)
}

func TestRegistry_Fonts(t *testing.T) {
	r := newTestRegistry(t, headless.New())

	h, err := r.NewFont(ScopeGlobal, FontParams{Label: "console", Size: 14})
	require.NoError(t, err)
	require.Equal(t, KindFont, h.Kind)

	f, err := r.Font(h)
	require.NoError(t, err)
	require.Positive(t, f.Height())
	require.Greater(t, f.Measure("Glest"), f.Measure("G"))

	_, err = r.Model(h)
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestRegistry_Particles(t *testing.T) {
	r := newTestRegistry(t, headless.New())

	tex, err := r.NewTexture2D(ScopeGlobal, TextureParams{Label: "spark", Width: 8, Height: 8})
	require.NoError(t, err)

	short := &fakeParticles{lifetime: 1, quads: 10}
	long := &fakeParticles{lifetime: 5, quads: 3}
	_, err = r.ManageParticleSystem(ScopeGame, short, tex)
	require.NoError(t, err)
	_, err = r.ManageParticleSystem(ScopeGame, long, Handle{})
	require.NoError(t, err)

	require.Equal(t, device.DrawStats{Triangles: 26, Vertices: 52}, r.RenderParticles(ScopeGame))

	require.Equal(t, 1, r.UpdateParticles(ScopeGame))
	require.Equal(t, 1, r.Live(ScopeGame))
	require.Equal(t, device.DrawStats{Triangles: 6, Vertices: 12}, r.RenderParticles(ScopeGame))

	menuTex, err := r.NewTexture2D(ScopeMenu, TextureParams{Width: 8, Height: 8})
	require.NoError(t, err)
	_, err = r.ManageParticleSystem(ScopeGame, long, menuTex)
	var mismatch *ScopeMismatchError
	require.True(t, errors.As(err, &mismatch))
}

func TestRegistry_ParticleTextureReleased(t *testing.T) {
	dev := &quadRecorder{Device: headless.New()}
	r := newTestRegistry(t, dev)

	tex, err := r.NewTexture2D(ScopeGame, TextureParams{Label: "smoke", Width: 8, Height: 8})
	require.NoError(t, err)
	live, err := r.Texture(tex)
	require.NoError(t, err)
	_, err = r.ManageParticleSystem(ScopeGame, &fakeParticles{lifetime: 5, quads: 2}, tex)
	require.NoError(t, err)

	require.Equal(t, device.DrawStats{Triangles: 4, Vertices: 8}, r.RenderParticles(ScopeGame))
	require.Equal(t, []device.TextureID{live.ID()}, dev.textures)

	require.NoError(t, r.Release(ScopeGame, tex))
	require.Zero(t, dev.LiveTextures())
	require.Equal(t, device.DrawStats{}, r.RenderParticles(ScopeGame))
	require.Len(t, dev.textures, 1)
	require.Equal(t, 1, r.Live(ScopeGame))
}

func TestRegistry_ParticleTextureReloaded(t *testing.T) {
	dev := &quadRecorder{Device: headless.New()}
	r := newTestRegistry(t, dev)

	tex, err := r.NewTexture2D(ScopeGlobal, TextureParams{Label: "spark", Width: 8, Height: 8})
	require.NoError(t, err)
	_, err = r.ManageParticleSystem(ScopeGame, &fakeParticles{lifetime: 5, quads: 1}, tex)
	require.NoError(t, err)
	before, err := r.Texture(tex)
	require.NoError(t, err)
	oldID := before.ID()

	require.NoError(t, r.Reload())
	after, err := r.Texture(tex)
	require.NoError(t, err)
	require.NotEqual(t, oldID, after.ID())

	r.RenderParticles(ScopeGame)
	require.Equal(t, []device.TextureID{after.ID()}, dev.textures)
	require.Equal(t, 1, dev.LiveTextures())
}

func TestRegistry_ReloadDropsFailedAssets(t *testing.T) {
	dev := &lossyDevice{Device: headless.New()}
	r := newTestRegistry(t, dev)

	model, err := r.NewModel(ScopeGame, quadModel("barracks"))
	require.NoError(t, err)
	tex, err := r.NewTexture2D(ScopeGlobal, TextureParams{Width: 4, Height: 4})
	require.NoError(t, err)

	dev.lost = true
	err = r.Reload()
	require.ErrorIs(t, err, errDeviceLost)

	_, err = r.Model(model)
	require.ErrorIs(t, err, ErrStaleHandle)
	require.Zero(t, r.Live(ScopeGame))
	require.Zero(t, dev.LiveMeshes())

	_, err = r.Texture(tex)
	require.NoError(t, err)
	require.Equal(t, 1, dev.LiveTextures())

	dev.lost = false
	require.NoError(t, r.Reload())
}

func TestRegistry_LoadTextures(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, size := range []int{4, 8, 16} {
		p := filepath.Join(dir, string(rune('a'+i))+".png")
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		f, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		paths = append(paths, p)
	}

	dev := headless.New()
	r := newTestRegistry(t, dev)

	first, err := r.LoadTexture2D(ScopeMenu, paths[0], TextureParams{})
	require.NoError(t, err)
	again, err := r.LoadTexture2D(ScopeMenu, paths[0], TextureParams{})
	require.NoError(t, err)
	require.Equal(t, first, again)

	handles, err := r.LoadTextures(t.Context(), ScopeMenu, paths, 2)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	require.Equal(t, first, handles[0])
	require.Equal(t, 3, r.Live(ScopeMenu))

	tex, err := r.Texture(handles[2])
	require.NoError(t, err)
	require.Equal(t, uint32(16), tex.Size().Width)
	require.Equal(t, gputypes.TextureFormatRGBA8Unorm, tex.Format())

	_, err = r.LoadTextures(t.Context(), ScopeMenu, []string{filepath.Join(dir, "missing.png")}, 1)
	var creation *ResourceCreationError
	require.True(t, errors.As(err, &creation))

	r.Teardown(ScopeMenu)
	_, err = r.Open(ScopeMenu)
	require.NoError(t, err)
	fresh, err := r.LoadTexture2D(ScopeMenu, paths[0], TextureParams{})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, fresh.ID)
}

func TestRegistry_Reload(t *testing.T) {
	dev := headless.New()
	r := newTestRegistry(t, dev)

	h, err := r.NewModel(ScopeGame, quadModel("tank"))
	require.NoError(t, err)
	_, err = r.NewTexture2D(ScopeGlobal, TextureParams{Width: 4, Height: 4})
	require.NoError(t, err)

	before, err := r.Model(h)
	require.NoError(t, err)
	oldIDs := append([]device.MeshID(nil), before.Meshes()...)

	require.NoError(t, r.Reload())
	after, err := r.Model(h)
	require.NoError(t, err)
	require.NotEqual(t, oldIDs, after.Meshes())
	require.Equal(t, 1, dev.LiveMeshes())
	require.Equal(t, 1, dev.LiveTextures())
}

func TestParseScope(t *testing.T) {
	for _, s := range []Scope{ScopeGlobal, ScopeMenu, ScopeGame} {
		got, err := ParseScope(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	_, err := ParseScope("level")
	require.Error(t, err)
}
