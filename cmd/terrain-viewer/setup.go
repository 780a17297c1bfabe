package main

import (
	"fmt"

	"endless-terrain/internal/config"
	"endless-terrain/internal/graphics"
	"endless-terrain/internal/graphics/renderables/terrain"
	renderer "endless-terrain/internal/graphics/renderer"
	"endless-terrain/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	windowWidth  = 1280
	windowHeight = 720

	terrainMaterial world.MaterialHandle = 1
)

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "endless terrain", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Vsync off; the loop has its own limiter
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// Viewer holds everything the loop drives.
type Viewer struct {
	Renderer *renderer.Renderer
	Terrain  *terrain.Terrain
	Streamer *world.ChunkStreamer
	Camera   *graphics.FlyCamera
	Pool     *world.WorkerPool

	chunkSize float32
}

func setupViewer(cfg config.Terrain) (*Viewer, error) {
	genCfg, err := cfg.GeneratorConfig()
	if err != nil {
		return nil, err
	}
	gen, err := world.NewGenerator(genCfg)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.StreamerOptions(terrainMaterial)
	if err != nil {
		return nil, err
	}

	chunkSize := genCfg.ChunkWorldSize()
	t := terrain.NewTerrain(fogDistance(opts.ViewDistance, chunkSize))
	r, err := renderer.NewRenderer(windowWidth, windowHeight, t)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		Renderer:  r,
		Terrain:   t,
		chunkSize: chunkSize,
		Camera: &graphics.FlyCamera{
			Position: mgl32.Vec3{0, 0, float32(cfg.ElevationMultiplier) * 0.8},
			Pitch:    -20,
			Speed:    chunkSize / 4,
		},
	}

	var dispatcher world.Dispatcher
	if cfg.Async {
		v.Pool = world.NewWorkerPool(cfg.Workers)
		dispatcher = v.Pool
	}
	v.Streamer, err = world.NewChunkStreamer(gen, t, dispatcher, opts)
	if err != nil {
		v.Dispose()
		return nil, fmt.Errorf("streamer: %w", err)
	}
	return v, nil
}

// SetViewDistance applies a new view radius to the streamer and the fog.
func (v *Viewer) SetViewDistance(chunks int) {
	v.Streamer.SetViewDistance(chunks)
	v.Terrain.SetFogDistance(fogDistance(chunks, v.chunkSize))
}

// Dispose stops generation before releasing GL objects.
func (v *Viewer) Dispose() {
	if v.Pool != nil {
		v.Pool.Shutdown()
	}
	if v.Renderer != nil {
		v.Renderer.Dispose()
	}
}

func fogDistance(viewDistance int, chunkSize float32) float32 {
	return (float32(viewDistance) + 0.5) * chunkSize
}
