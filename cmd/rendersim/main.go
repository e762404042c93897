package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render"
	"github.com/benidon1974/zetaglest-source/internal/core/render/camera"
	"github.com/benidon1974/zetaglest-source/internal/core/render/config"
	"github.com/benidon1974/zetaglest-source/internal/core/render/device/headless"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
	"github.com/benidon1974/zetaglest-source/internal/core/render/resource"
	"github.com/benidon1974/zetaglest-source/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "Render config YAML (empty = defaults)")
	frames := flag.Int("frames", 300, "Frames to render before exiting (0 = until interrupted)")
	units := flag.Int("units", 100, "Number of simulated units")
	fps := flag.Int("fps", 60, "Target frame rate")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
	}

	logger, err := injector.InitializeLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *frames, *units, *fps); err != nil {
		logger.Error("rendersim failed", log.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger log.Log, frames, units, fps int) error {
	r, err := injector.InitializeRenderer(cfg, headless.New())
	if err != nil {
		return err
	}
	if err := r.Init(); err != nil {
		return err
	}
	defer r.End()
	logger.Info("device", log.String("info", r.DeviceInfo()), log.Stringer("features", r.Features()))

	if err := r.InitGame(); err != nil {
		return err
	}
	model, err := r.NewModel(resource.ScopeGame, unitModel())
	if err != nil {
		return err
	}

	vp := camera.Viewport{Width: 1024, Height: 768}
	r.SetScene(staticScene{cam: camera.New(mgl32.Vec3{16, 24, 40}, mgl32.Vec3{16, 0, 16}, vp)})

	sim := newSimulation(units)
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	for n := 0; frames == 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", log.Int("frames", n))
			return nil
		case <-ticker.C:
		}

		frame := r.BeginFrame(ctx)
		b := entity.NewBatch(frame, sim.snapshot(model)...)
		culled := b.Cull(r.VisibleQuad())
		if err := r.RenderFrame(ctx, b); err != nil {
			return err
		}
		r.UpdateParticles()

		if frame%uint64(max(fps, 1)) == 0 {
			picked, err := r.ComputeSelected(entity.NewBatch(frame, sim.fast()...),
				image.Pt(vp.Width/2-50, vp.Height/2-50), image.Pt(vp.Width/2+50, vp.Height/2+50))
			if err != nil {
				return err
			}
			logger.Info("frame",
				log.Uint64("frame", frame),
				log.Int("culled", culled),
				log.Int64("triangles", r.TriangleCount()),
				log.Int64("vertices", r.PointCount()),
				log.Int64("fallbacks", r.FallbackCount()),
				log.Int("selected", len(picked)))
		}
		sim.step()
	}
	return nil
}

func unitModel() resource.ModelParams {
	return resource.ModelParams{
		Label: "unit",
		Meshes: []resource.MeshParams{{
			Vertices: []mgl32.Vec3{
				{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {0.5, 0, 0.5}, {-0.5, 0, 0.5}, {0, 1, 0},
			},
			Indices: []uint32{0, 1, 4, 1, 2, 4, 2, 3, 4, 3, 0, 4},
		}},
	}
}

// simulation walks units around the edge of a square, one cell every
// ticksPerCell frames.
type simulation struct {
	tick  int
	units []simUnit
}

type simUnit struct {
	ref    entity.UnitRef
	offset int
}

const (
	ticksPerCell = 8
	side         = 32
)

func newSimulation(n int) *simulation {
	s := &simulation{units: make([]simUnit, n)}
	for i := range s.units {
		s.units[i] = simUnit{
			ref:    entity.UnitRef{Index: uint32(i), Generation: 1},
			offset: i * 4 * side / max(n, 1),
		}
	}
	return s
}

func perimeter(i int) geom.Vec2i {
	i %= 4 * side
	switch {
	case i < side:
		return geom.Vec2i{X: i, Y: 0}
	case i < 2*side:
		return geom.Vec2i{X: side, Y: i - side}
	case i < 3*side:
		return geom.Vec2i{X: 3*side - i, Y: side}
	}
	return geom.Vec2i{X: 0, Y: 4*side - i}
}

func (s *simulation) snapshot(model resource.Handle) []*entity.Entity {
	cell := s.tick / ticksPerCell
	progress := float32(s.tick%ticksPerCell) / ticksPerCell
	out := make([]*entity.Entity, len(s.units))
	for i, u := range s.units {
		out[i] = entity.NewUnit(u.ref, perimeter(u.offset+cell+1), entity.Motion{
			Last:     perimeter(u.offset + cell),
			Progress: progress,
		}, model)
	}
	return out
}

func (s *simulation) fast() []*entity.Entity {
	cell := s.tick / ticksPerCell
	out := make([]*entity.Entity, len(s.units))
	for i, u := range s.units {
		out[i] = entity.NewUnitFast(u.ref, perimeter(u.offset+cell+1), 1)
	}
	return out
}

func (s *simulation) step() { s.tick++ }

var _ render.Scene = staticScene{}

// staticScene is a fixed view over the whole square.
type staticScene struct{ cam camera.Camera }

func (s staticScene) Camera() camera.Camera { return s.cam }
