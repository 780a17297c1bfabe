package renderer

import (
	"endless-terrain/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
	lightDir    mgl32.Vec3
}

// NewRenderer configures GL state and initializes the given renderables
func NewRenderer(width, height int, rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	// Terrain is seen from both sides when the camera dips below it.
	gl.Disable(gl.CULL_FACE)

	r := &Renderer{
		renderables: rs,
		camera:      graphics.NewCamera(width, height),
		lightDir:    mgl32.Vec3{-0.4, -0.3, -1}.Normalize(),
	}

	for i, rd := range rs {
		if err := rd.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
		rd.SetViewport(width, height)
	}
	return r, nil
}

// Render clears the frame and draws every feature from the viewer's eye
func (r *Renderer) Render(viewer *graphics.FlyCamera, dt float64) {
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := RenderContext{
		Camera:   r.camera,
		Viewer:   viewer,
		DT:       dt,
		View:     viewer.GetViewMatrix(),
		Proj:     r.camera.GetProjectionMatrix(),
		LightDir: r.lightDir,
	}
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

// GetCamera returns the camera instance
func (r *Renderer) GetCamera() *graphics.Camera {
	return r.camera
}

// UpdateViewport updates the camera and every renderable after a resize
func (r *Renderer) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, rd := range r.renderables {
		rd.SetViewport(width, height)
	}
}
