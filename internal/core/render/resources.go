package render

import (
	"context"
	"runtime"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/events"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
)

func (o *Orchestrator) NewModel(scope resource.Scope, params resource.ModelParams) (resource.Handle, error) {
	return o.resources.NewModel(scope, params)
}

func (o *Orchestrator) NewTexture2D(scope resource.Scope, params resource.TextureParams) (resource.Handle, error) {
	return o.resources.NewTexture2D(scope, params)
}

// NewTexture3D fails once the capability check has turned 3D textures off.
func (o *Orchestrator) NewTexture3D(scope resource.Scope, params resource.TextureParams) (resource.Handle, error) {
	if o.initialized && !o.features.Textures3D {
		return resource.Handle{}, &resource.ResourceCreationError{
			Scope: scope, Kind: resource.KindTexture3D, Label: params.Label, Err: errTextures3DDisabled,
		}
	}
	return o.resources.NewTexture3D(scope, params)
}

func (o *Orchestrator) NewFont(scope resource.Scope, params resource.FontParams) (resource.Handle, error) {
	return o.resources.NewFont(scope, params)
}

func (o *Orchestrator) ManageParticleSystem(scope resource.Scope, ps resource.ParticleSystem, texture resource.Handle) (resource.Handle, error) {
	return o.resources.ManageParticleSystem(scope, ps, texture)
}

func (o *Orchestrator) Release(scope resource.Scope, h resource.Handle) error {
	return o.resources.Release(scope, h)
}

func (o *Orchestrator) LoadTexture2D(scope resource.Scope, path string) (resource.Handle, error) {
	return o.resources.LoadTexture2D(scope, path, resource.TextureParams{Label: path})
}

// LoadTextures decodes paths in parallel and registers them under scope.
func (o *Orchestrator) LoadTextures(ctx context.Context, scope resource.Scope, paths []string) ([]resource.Handle, error) {
	return o.resources.LoadTextures(ctx, scope, paths, runtime.GOMAXPROCS(0))
}

// Model resolves h. Font and texture lookups go through Resources.
func (o *Orchestrator) Model(h resource.Handle) (*resource.Model, error) {
	return o.resources.Model(h)
}

func (o *Orchestrator) Resources() *resource.Registry { return o.resources }

// ReloadResources re-uploads every live asset after a device reset.
func (o *Orchestrator) ReloadResources() error {
	err := o.resources.Reload()
	o.publish(events.TypeResourcesReloaded, events.ResourcesReloaded{Err: err})
	if err != nil {
		o.log.Error("resource reload failed", log.Error(err))
		return err
	}
	o.log.Info("resources reloaded")
	return nil
}
