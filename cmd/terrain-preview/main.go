// Command terrain-preview streams terrain around a point without a window and
// writes the band colors of every chunk in view to a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"endless-terrain/internal/config"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/scene"
	"endless-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "", "terrain YAML file; built-in defaults when empty")
	x := flag.Float64("x", 0, "viewer X in world units")
	y := flag.Float64("y", 0, "viewer Y in world units")
	radius := flag.Int("radius", -1, "chunks around the viewer; -1 uses the configured view distance")
	out := flag.String("out", "terrain.png", "output PNG path")
	scale := flag.Float64("scale", 1, "output scale factor")
	smooth := flag.Bool("smooth", false, "filter when scaling instead of keeping texels sharp")
	flag.Parse()

	if err := run(*configPath, mgl32.Vec2{float32(*x), float32(*y)}, *radius, *out, *scale, *smooth); err != nil {
		log.Fatalf("terrain: %v", err)
	}
}

func run(configPath string, pos mgl32.Vec2, radius int, out string, scale float64, smooth bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if radius >= 0 {
		cfg.ViewDistance = radius
	}
	if !(scale > 0) {
		return fmt.Errorf("%w: scale %v", world.ErrInvalidParameter, scale)
	}

	genCfg, err := cfg.GeneratorConfig()
	if err != nil {
		return err
	}
	gen, err := world.NewGenerator(genCfg)
	if err != nil {
		return err
	}
	opts, err := cfg.StreamerOptions(1)
	if err != nil {
		return err
	}
	// Every chunk is wanted at once; throttling only slows the preview down.
	opts.Limiter = nil
	opts.MaxDispatchPerTick = 0

	pool := world.NewWorkerPool(cfg.Workers)
	defer pool.Shutdown()

	sc := scene.New()
	streamer, err := world.NewChunkStreamer(gen, sc, pool, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	first := streamer.Tick(pos)
	streamer.WaitIdle()
	report := streamer.Tick(pos)
	log.Printf("terrain: origin %s: dispatched %d, published %d, failed %d in %s",
		report.Origin, first.Dispatched, first.Published+report.Published, report.Failed, time.Since(start).Round(time.Millisecond))
	log.Printf("terrain: generation: %s", profiling.TopN(3))

	chunks := streamer.Store().AppendChunksInRadius(report.Origin, opts.ViewDistance, nil)
	img, placed, err := sc.Mosaic(chunks, report.Origin, opts.ViewDistance)
	if err != nil {
		return err
	}
	if placed == 0 {
		return fmt.Errorf("no chunk published around %s", report.Origin)
	}
	if scale != 1 {
		img = scene.Scale(img, scale, smooth)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	st := sc.Stats()
	log.Printf("terrain: wrote %s (%dx%d, %d chunks, %d triangles)",
		out, img.Bounds().Dx(), img.Bounds().Dy(), placed, st.Triangles)
	return nil
}
