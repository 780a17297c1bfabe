package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(window *glfw.Window, loop *ViewLoop) {
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		loop.handleMouseMovement(xpos, ypos)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		loop.inputManager.HandleKeyEvent(key, action)
	})

	// The framebuffer may be larger than the window on HiDPI displays
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		if fbWidth == 0 || fbHeight == 0 {
			return
		}
		loop.viewer.Renderer.UpdateViewport(fbWidth, fbHeight)
	})

	// Keeps the picture alive during a live resize
	window.SetRefreshCallback(func(w *glfw.Window) {
		loop.RefreshRender()
	})
}
