package injector

import (
	"github.com/google/wire"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render"
	"github.com/benidon1974/zetaglest-source/internal/core/render/config"
)

var RendererSet = wire.NewSet(ProvideLogger, render.New)

// ProvideLogger returns the process logger at the configured level.
func ProvideLogger(cfg config.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.Provide()
	logger.SetLevel(level)
	return logger, nil
}
