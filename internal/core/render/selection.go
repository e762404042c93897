package render

import (
	"image"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
	"github.com/benidon1974/zetaglest-source/internal/core/render/selection"
)

// ComputePosition returns the map cell under the screen pixel p. It returns
// false without a camera or when p looks above the horizon.
func (o *Orchestrator) ComputePosition(p image.Point) (geom.Vec2i, bool) {
	if !o.camSet {
		return geom.Vec2i{}, false
	}
	return o.cam.ComputePosition(p)
}

// RenderSelection paints the fast-path units of b into the selection buffer.
// The worker is not involved: every entity goes straight to Rendered.
func (o *Orchestrator) RenderSelection(b *entity.Batch) error {
	if !o.initialized {
		return ErrNotInitialized
	}
	if !o.camSet {
		return ErrNoCamera
	}
	if o.selection == nil {
		o.selection = selection.NewBuffer(o.cam.Viewport)
	} else {
		o.selection.Reset(o.cam.Viewport)
	}

	for _, e := range b.Entities {
		if e == nil || e.Kind != entity.KindUnitFast {
			continue
		}
		t, _, err := e.RenderFlat()
		if err != nil {
			o.log.Warn("unit not selectable", log.Stringer("unit", e.Unit), log.Error(err))
			continue
		}
		if err := o.selection.Paint(o.cam, e.Unit, t, e.Size); err != nil {
			return err
		}
	}
	return nil
}

// ComputeSelected returns the units drawn inside the screen rectangle spanned
// by down and up. A click with down == up picks at most one unit.
func (o *Orchestrator) ComputeSelected(b *entity.Batch, down, up image.Point) ([]entity.UnitRef, error) {
	if err := o.RenderSelection(b); err != nil {
		return nil, err
	}
	return o.selection.Pick(image.Rectangle{Min: down, Max: up}), nil
}
