package resource

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

type entry struct {
	handle  Handle
	asset   asset
	pathKey uint64
}

// Pool owns the assets of one scope for one lifetime of that scope. It is
// mutated from the render goroutine only; the lock exists so diagnostics can
// read counts from anywhere.
type Pool struct {
	scope      Scope
	generation uint64
	dev        device.Device
	log        log.Log

	models    modelManager
	textures  textureManager
	fonts     fontManager
	particles particleManager
	textureOf func(Handle) (*Texture, error)

	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
	order   []uuid.UUID
	byPath  map[uint64]Handle
	closed  bool
}

func newPool(scope Scope, generation uint64, dev device.Device, logger log.Log, opts Options, textureOf func(Handle) (*Texture, error)) *Pool {
	return &Pool{
		scope:      scope,
		generation: generation,
		dev:        dev,
		log:        logger.With(log.Stringer("scope", scope), log.Uint64("generation", generation)),
		models:     modelManager{dev: dev},
		textures:   textureManager{dev: dev, mipmaps: opts.Mipmaps},
		textureOf:  textureOf,
		entries:    make(map[uuid.UUID]*entry),
		byPath:     make(map[uint64]Handle),
	}
}

func (p *Pool) Scope() Scope       { return p.scope }
func (p *Pool) Generation() uint64 { return p.generation }

// NewModel uploads a model and registers it under the pool's scope.
func (p *Pool) NewModel(params ModelParams) (Handle, error) {
	m, err := p.models.create(params)
	if err != nil {
		return Handle{}, p.creationError(KindModel, params.Label, err)
	}
	return p.register(m, 0), nil
}

func (p *Pool) NewTexture2D(params TextureParams) (Handle, error) {
	t, err := p.textures.create2D(params)
	if err != nil {
		return Handle{}, p.creationError(KindTexture2D, params.Label, err)
	}
	return p.register(t, 0), nil
}

func (p *Pool) NewTexture3D(params TextureParams) (Handle, error) {
	t, err := p.textures.create3D(params)
	if err != nil {
		return Handle{}, p.creationError(KindTexture3D, params.Label, err)
	}
	return p.register(t, 0), nil
}

func (p *Pool) NewFont(params FontParams) (Handle, error) {
	f, err := p.fonts.create(params)
	if err != nil {
		return Handle{}, p.creationError(KindFont, params.Label, err)
	}
	return p.register(f, 0), nil
}

// ManageParticleSystem hands ps to the pool; texture is the texture its
// billboards are drawn with and may be zero. It is resolved on every draw.
func (p *Pool) ManageParticleSystem(ps ParticleSystem, texture Handle) (Handle, error) {
	a, err := p.particles.manage(ps, texture)
	if err != nil {
		return Handle{}, p.creationError(KindParticleSystem, "particles", err)
	}
	return p.register(a, 0), nil
}

// cachedTexture returns the handle of a texture previously registered for
// path, if it is still alive.
func (p *Pool) cachedTexture(path string) (Handle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.byPath[xxhash.Sum64String(path)]
	return h, ok
}

func (p *Pool) newTextureForPath(path string, params TextureParams) (Handle, error) {
	if params.Label == "" {
		params.Label = path
	}
	t, err := p.textures.create2D(params)
	if err != nil {
		return Handle{}, p.creationError(KindTexture2D, params.Label, err)
	}
	return p.register(t, xxhash.Sum64String(path)), nil
}

func (p *Pool) register(a asset, pathKey uint64) Handle {
	h := Handle{
		ID:         uuid.New(),
		Scope:      p.scope,
		Kind:       a.kind(),
		Generation: p.generation,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[h.ID] = &entry{handle: h, asset: a, pathKey: pathKey}
	p.order = append(p.order, h.ID)
	if pathKey != 0 {
		p.byPath[pathKey] = h
	}
	p.log.Debug("asset allocated", log.Stringer("kind", h.Kind), log.String("label", a.label()))
	return h
}

func (p *Pool) creationError(kind Kind, label string, err error) error {
	p.log.Warn("asset creation failed", log.Stringer("kind", kind), log.String("label", label), log.Error(err))
	return &ResourceCreationError{Scope: p.scope, Kind: kind, Label: label, Err: err}
}

func (p *Pool) lookup(h Handle) (*entry, error) {
	if h.Scope != p.scope {
		return nil, &ScopeMismatchError{Handle: h, Requested: p.scope}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || h.Generation != p.generation {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	e, ok := p.entries[h.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return e, nil
}

func (p *Pool) Model(h Handle) (*Model, error) {
	e, err := p.lookup(h)
	if err != nil {
		return nil, err
	}
	m, ok := e.asset.(*Model)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model", ErrWrongKind, h)
	}
	return m, nil
}

func (p *Pool) Texture(h Handle) (*Texture, error) {
	e, err := p.lookup(h)
	if err != nil {
		return nil, err
	}
	t, ok := e.asset.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a texture", ErrWrongKind, h)
	}
	return t, nil
}

func (p *Pool) Font(h Handle) (*Font, error) {
	e, err := p.lookup(h)
	if err != nil {
		return nil, err
	}
	f, ok := e.asset.(*Font)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a font", ErrWrongKind, h)
	}
	return f, nil
}

// Release destroys a single asset ahead of scope teardown.
func (p *Pool) Release(h Handle) error {
	e, err := p.lookup(h)
	if err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.entries, h.ID)
	if i := slices.Index(p.order, h.ID); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
	if e.pathKey != 0 {
		delete(p.byPath, e.pathKey)
	}
	p.mu.Unlock()

	e.asset.destroy(p.dev)
	return nil
}

// teardown destroys every live asset, newest first, and closes the pool so
// every outstanding handle is rejected. It returns the number of assets
// destroyed.
func (p *Pool) teardown() int {
	p.mu.Lock()
	order := p.order
	entries := p.entries
	p.order = nil
	p.entries = make(map[uuid.UUID]*entry)
	p.byPath = make(map[uint64]Handle)
	p.closed = true
	p.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		entries[order[i]].asset.destroy(p.dev)
	}
	p.log.Info("scope torn down", log.Int("assets", len(order)))
	return len(order)
}

// reload re-creates the device side of every live asset, e.g. after the
// graphics context was lost. An asset that fails to upload again is dropped
// from the pool, so its handle turns stale instead of drawing nothing; the
// rest are still reloaded and the failures are returned joined.
func (p *Pool) reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	kept := p.order[:0]
	for _, id := range p.order {
		e := p.entries[id]
		e.asset.destroy(p.dev)
		if err := e.asset.upload(p.dev); err != nil {
			p.log.Warn("asset dropped on reload", log.Stringer("handle", e.handle), log.Error(err))
			delete(p.entries, id)
			if e.pathKey != 0 {
				delete(p.byPath, e.pathKey)
			}
			errs = append(errs, fmt.Errorf("reload %s %q: %w", e.asset.kind(), e.asset.label(), err))
			continue
		}
		kept = append(kept, id)
	}
	clear(p.order[len(kept):])
	p.order = kept
	return errors.Join(errs...)
}

// UpdateParticles advances every managed particle system and drops the ones
// that have expired. It returns the number dropped.
func (p *Pool) UpdateParticles() int {
	var dead []uuid.UUID
	for _, a := range p.particleSystems() {
		a.system.Update()
	}

	p.mu.Lock()
	for _, id := range p.order {
		if a, ok := p.entries[id].asset.(*particleAsset); ok && !a.system.Alive() {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		delete(p.entries, id)
	}
	p.order = slices.DeleteFunc(p.order, func(id uuid.UUID) bool { return slices.Contains(dead, id) })
	p.mu.Unlock()
	return len(dead)
}

// RenderParticles draws every live particle system. A system whose texture
// has been released or torn down is not drawn.
func (p *Pool) RenderParticles() device.DrawStats {
	var stats device.DrawStats
	for _, a := range p.particleSystems() {
		if !a.system.Alive() {
			continue
		}
		var texID device.TextureID
		if !a.texture.IsZero() {
			tex, err := p.textureOf(a.texture)
			if err != nil {
				p.log.Warn("skipping particle system", log.Stringer("texture", a.texture), log.Error(err))
				continue
			}
			texID = tex.ID()
		}
		stats = stats.Add(p.dev.DrawQuads(a.system.Quads(), texID))
	}
	return stats
}

func (p *Pool) particleSystems() []*particleAsset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*particleAsset
	for _, id := range p.order {
		if a, ok := p.entries[id].asset.(*particleAsset); ok {
			out = append(out, a)
		}
	}
	return out
}

// Live returns the number of assets currently registered.
func (p *Pool) Live() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// LiveKind returns the number of live assets of kind k.
func (p *Pool) LiveKind(k Kind) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, e := range p.entries {
		if e.handle.Kind == k {
			n++
		}
	}
	return n
}
