package render

import (
	"fmt"

	"github.com/benidon1974/zetaglest-source/internal/core/render/caps"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
)

// TriangleCount is the number of triangles drawn since BeginFrame.
func (o *Orchestrator) TriangleCount() int64 { return o.metrics.Triangles() }

// PointCount is the number of vertices drawn since BeginFrame.
func (o *Orchestrator) PointCount() int64 { return o.metrics.Vertices() }

// FallbackCount is the number of entities drawn at their last-known transform
// since the renderer was created.
func (o *Orchestrator) FallbackCount() int64 { return o.metrics.Fallbacks() }

func (o *Orchestrator) InterpolatedCount() int64 { return o.metrics.Interpolated() }

func (o *Orchestrator) DeviceInfo() string {
	info := o.dev.Info()
	return fmt.Sprintf("%s %s (%s)", info.Vendor, info.Renderer, info.Version)
}

func (o *Orchestrator) DeviceMoreInfo() string {
	return caps.Describe(o.dev.Info())
}

// Features is the configuration that survived the capability check.
func (o *Orchestrator) Features() caps.Features { return o.features }

func (o *Orchestrator) Downgrades() []caps.Downgrade { return o.downgrades }

func (o *Orchestrator) LiveAssets(scope resource.Scope) int { return o.resources.Live(scope) }

func (o *Orchestrator) Initialized() bool { return o.initialized }
