package main

import (
	"log"
	"time"

	"endless-terrain/internal/config"
	"endless-terrain/internal/input"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	mouseSensitivity = 0.1
	fastMultiplier   = 6
)

// ViewLoop manages the per-frame state of the viewer
type ViewLoop struct {
	window       *glfw.Window
	viewer       *Viewer
	inputManager *input.InputManager
	fpsLimiter   *FPSLimiter

	paused     bool
	firstMouse bool
	lastX      float64
	lastY      float64

	frames           int
	lastFPSCheckTime time.Time
	lastTime         time.Time
	lastReport       world.TickReport
}

// NewViewLoop creates a loop over an initialized viewer
func NewViewLoop(window *glfw.Window, v *Viewer) *ViewLoop {
	return &ViewLoop{
		window:           window,
		viewer:           v,
		inputManager:     input.NewInputManager(),
		fpsLimiter:       NewFPSLimiter(),
		firstMouse:       true,
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
}

// Run renders until the window closes
func (vl *ViewLoop) Run() {
	for !vl.window.ShouldClose() {
		vl.tick()
	}
}

func (vl *ViewLoop) tick() {
	profiling.ResetTick()
	now := time.Now()
	dt := now.Sub(vl.lastTime).Seconds()
	vl.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	vl.handleInputActions()
	if !vl.paused {
		vl.moveCamera(float32(dt))
	}

	func() {
		defer profiling.Track("world.Stream")()
		vl.lastReport = vl.viewer.Streamer.Update(vl.viewer.Camera)
	}()

	func() {
		defer profiling.Track("render.Frame")()
		vl.viewer.Renderer.Render(vl.viewer.Camera, dt)
	}()
	vl.frames++

	func() { defer profiling.Track("glfw.SwapBuffers")(); vl.window.SwapBuffers() }()
	vl.inputManager.PostUpdate()

	vl.reportTiming(now)
	vl.fpsLimiter.Wait(vl.paused)
}

func (vl *ViewLoop) handleInputActions() {
	im := vl.inputManager

	if im.JustPressed(input.ActionPause) {
		vl.paused = !vl.paused
		if vl.paused {
			vl.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			vl.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			vl.firstMouse = true
		}
	}
	if im.JustPressed(input.ActionViewDistanceUp) {
		vl.viewer.SetViewDistance(config.AdjustViewDistance(1))
		log.Printf("terrain: view distance %d", config.GetViewDistance())
	}
	if im.JustPressed(input.ActionViewDistanceDown) {
		vl.viewer.SetViewDistance(config.AdjustViewDistance(-1))
		log.Printf("terrain: view distance %d", config.GetViewDistance())
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		config.ToggleWireframeMode()
	}
	if im.JustPressed(input.ActionPrintStats) {
		vl.printStats()
	}
}

func (vl *ViewLoop) moveCamera(dt float32) {
	im := vl.inputManager
	cam := vl.viewer.Camera

	speed := cam.Speed
	if im.IsActive(input.ActionFast) {
		cam.Speed *= fastMultiplier
	}
	cam.Move(
		im.Axis(input.ActionMoveForward, input.ActionMoveBackward),
		im.Axis(input.ActionMoveRight, input.ActionMoveLeft),
		im.Axis(input.ActionAscend, input.ActionDescend),
		dt,
	)
	cam.Speed = speed
}

// handleMouseMovement turns cursor motion into camera look
func (vl *ViewLoop) handleMouseMovement(xpos, ypos float64) {
	if vl.paused {
		return
	}
	if vl.firstMouse {
		vl.lastX, vl.lastY = xpos, ypos
		vl.firstMouse = false
		return
	}
	dx := float32(xpos-vl.lastX) * mouseSensitivity
	dy := float32(vl.lastY-ypos) * mouseSensitivity
	vl.lastX, vl.lastY = xpos, ypos
	// Yaw grows counter-clockwise, so moving right turns negative.
	vl.viewer.Camera.Look(-dx, dy)
}

// RefreshRender redraws without advancing state, used while resizing
func (vl *ViewLoop) RefreshRender() {
	vl.viewer.Renderer.Render(vl.viewer.Camera, 0.016)
	vl.window.SwapBuffers()
}

func (vl *ViewLoop) reportTiming(frameStart time.Time) {
	if time.Since(vl.lastFPSCheckTime) >= time.Second {
		r := vl.lastReport
		log.Printf("terrain: fps=%d origin=%s visible=%d pending=%d drawn=%d culled=%d",
			vl.frames, r.Origin, len(r.Visible), r.Pending, vl.viewer.Terrain.Drawn, vl.viewer.Terrain.Culled)
		vl.frames = 0
		vl.lastFPSCheckTime = time.Now()
	}

	limit := config.GetFPSLimit()
	if limit <= 0 || vl.paused {
		return
	}
	// Swap may block on the compositor; judge only our own work.
	total := time.Since(frameStart)
	work := total - profiling.Snapshot()["glfw.SwapBuffers"]
	if target := time.Second / time.Duration(limit); work > target {
		log.Printf("terrain: slow frame %.2fms (target %.2fms): %s",
			float64(work.Microseconds())/1000, float64(target.Microseconds())/1000, profiling.TopN(5))
	}
}

func (vl *ViewLoop) printStats() {
	st := vl.viewer.Streamer.Stats()
	log.Printf("terrain: chunks=%d ready=%d published=%d failed=%d generating=%d inflight=%d lod cache %d/%d",
		st.Chunks,
		st.ByState[world.StateReady],
		st.ByState[world.StatePublished],
		st.ByState[world.StateFailed],
		st.ByState[world.StateGenerating],
		st.InFlight,
		st.CacheHits, st.CacheHits+st.CacheMisses)
	if p := vl.viewer.Pool; p != nil {
		log.Printf("terrain: workers running=%d queued=%d", p.Running(), p.QueueLength())
	}
}
