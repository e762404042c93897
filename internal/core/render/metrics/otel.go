package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/benidon1974/zetaglest-source/internal/core/render"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
