//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render"
	"github.com/benidon1974/zetaglest-source/internal/core/render/config"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device"
)

func InitializeLogger(cfg config.Config) (log.Log, error) {
	wire.Build(ProvideLogger)
	return nil, nil
}

func InitializeRenderer(cfg config.Config, dev device.Device) (*render.Orchestrator, error) {
	wire.Build(RendererSet)
	return nil, nil
}
