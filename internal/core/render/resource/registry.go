package resource

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

// Options tunes how pools create assets.
type Options struct {
	// Mipmaps requests mipmap chains for every texture (trilinear filtering).
	Mipmaps bool
}

// Registry holds the live pool of every scope. A scope with no pool is
// inactive: allocations fail and old handles are stale.
type Registry struct {
	dev  device.Device
	log  log.Log
	opts Options

	// mu guards the pool table so diagnostics can read it off the render
	// goroutine.
	mu          sync.RWMutex
	pools       [scopeCount]*Pool
	generations [scopeCount]uint64
}

func NewRegistry(dev device.Device, logger log.Log, opts Options) *Registry {
	return &Registry{
		dev:  dev,
		log:  logger.With(log.Component("resources")),
		opts: opts,
	}
}

// SetOptions changes the options used by pools opened afterwards.
func (r *Registry) SetOptions(opts Options) { r.opts = opts }

// Open starts a new lifetime of scope.
func (r *Registry) Open(scope Scope) (*Pool, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("open %s: invalid scope", scope)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pools[scope] != nil {
		return nil, fmt.Errorf("open %s: %w", scope, ErrScopeActive)
	}
	r.generations[scope]++
	p := newPool(scope, r.generations[scope], r.dev, r.log, r.opts, r.Texture)
	r.pools[scope] = p
	r.log.Info("scope opened", log.Stringer("scope", scope), log.Uint64("generation", p.generation))
	return p, nil
}

// Pool returns the live pool of scope.
func (r *Registry) Pool(scope Scope) (*Pool, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%s: %w", scope, ErrScopeInactive)
	}
	r.mu.RLock()
	p := r.pools[scope]
	r.mu.RUnlock()
	if p == nil {
		return nil, fmt.Errorf("%s: %w", scope, ErrScopeInactive)
	}
	return p, nil
}

// Active reports whether scope currently has a pool.
func (r *Registry) Active(scope Scope) bool {
	_, err := r.Pool(scope)
	return err == nil
}

// Teardown destroys every asset of scope and closes its pool. Tearing down an
// inactive scope does nothing.
func (r *Registry) Teardown(scope Scope) int {
	if !scope.Valid() {
		return 0
	}
	r.mu.Lock()
	p := r.pools[scope]
	r.pools[scope] = nil
	r.mu.Unlock()
	if p == nil {
		return 0
	}
	return p.teardown()
}

// TeardownAll tears down every active scope, Global last.
func (r *Registry) TeardownAll() {
	for _, s := range Scopes {
		r.Teardown(s)
	}
}

func (r *Registry) NewModel(scope Scope, params ModelParams) (Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return Handle{}, err
	}
	return p.NewModel(params)
}

func (r *Registry) NewTexture2D(scope Scope, params TextureParams) (Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return Handle{}, err
	}
	return p.NewTexture2D(params)
}

func (r *Registry) NewTexture3D(scope Scope, params TextureParams) (Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return Handle{}, err
	}
	return p.NewTexture3D(params)
}

func (r *Registry) NewFont(scope Scope, params FontParams) (Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return Handle{}, err
	}
	return p.NewFont(params)
}

// ManageParticleSystem registers ps under scope. The optional texture must
// live at least as long as the system: same scope or Global.
func (r *Registry) ManageParticleSystem(scope Scope, ps ParticleSystem, texture Handle) (Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return Handle{}, err
	}
	if !texture.IsZero() {
		if texture.Scope != scope && texture.Scope != ScopeGlobal {
			return Handle{}, &ScopeMismatchError{Handle: texture, Requested: scope}
		}
		if _, err := r.Texture(texture); err != nil {
			return Handle{}, p.creationError(KindParticleSystem, "particles", err)
		}
	}
	return p.ManageParticleSystem(ps, texture)
}

// UpdateParticles advances the particle systems of scope and reaps expired ones.
func (r *Registry) UpdateParticles(scope Scope) int {
	p, err := r.Pool(scope)
	if err != nil {
		return 0
	}
	return p.UpdateParticles()
}

// RenderParticles draws the particle systems of scope.
func (r *Registry) RenderParticles(scope Scope) device.DrawStats {
	p, err := r.Pool(scope)
	if err != nil {
		return device.DrawStats{}
	}
	return p.RenderParticles()
}

// Release destroys h ahead of its scope's teardown. Releasing under a scope
// other than the one h was allocated in is a ScopeMismatchError and touches
// nothing.
func (r *Registry) Release(scope Scope, h Handle) error {
	if h.Scope != scope {
		r.log.Error("release under wrong scope", log.Stringer("handle", h), log.Stringer("scope", scope))
		return &ScopeMismatchError{Handle: h, Requested: scope}
	}
	p, err := r.Pool(scope)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return p.Release(h)
}

// Model resolves a model handle through the pool of its own scope.
func (r *Registry) Model(h Handle) (*Model, error) {
	p, err := r.Pool(h.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return p.Model(h)
}

func (r *Registry) Texture(h Handle) (*Texture, error) {
	p, err := r.Pool(h.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return p.Texture(h)
}

func (r *Registry) Font(h Handle) (*Font, error) {
	p, err := r.Pool(h.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return p.Font(h)
}

// Live returns the number of live assets of scope; zero when inactive.
func (r *Registry) Live(scope Scope) int {
	p, err := r.Pool(scope)
	if err != nil {
		return 0
	}
	return p.Live()
}

// Reload re-uploads every live asset of every active scope. Assets that fail
// are dropped and reported; the rest stay usable.
func (r *Registry) Reload() error {
	var errs []error
	for _, s := range []Scope{ScopeGlobal, ScopeMenu, ScopeGame} {
		p, err := r.Pool(s)
		if err != nil {
			continue
		}
		if err := p.reload(); err != nil {
			errs = append(errs, fmt.Errorf("reload %s scope: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
