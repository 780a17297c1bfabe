package renderer

import (
	"endless-terrain/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera   *graphics.Camera
	Viewer   *graphics.FlyCamera
	DT       float64
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	LightDir mgl32.Vec3
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
