package main

import (
	"flag"
	"log"
	"runtime"

	"endless-terrain/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "terrain YAML file; built-in defaults when empty")
	fpsLimit := flag.Int("fps", config.GetFPSLimit(), "frame rate cap, 0 for unlimited")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("terrain: %v", err)
		}
	}
	if err := cfg.BandWarnings(); err != nil {
		log.Printf("terrain: %v", err)
	}
	config.SetFPSLimit(*fpsLimit)
	config.SetViewDistance(cfg.ViewDistance)

	if err := glfw.Init(); err != nil {
		log.Fatalf("terrain: glfw: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		log.Fatalf("terrain: window: %v", err)
	}

	v, err := setupViewer(cfg)
	if err != nil {
		log.Fatalf("terrain: %v", err)
	}
	defer v.Dispose()

	loop := NewViewLoop(window, v)
	setupInputHandlers(window, loop)
	loop.Run()
}
