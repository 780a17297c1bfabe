package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestPressEdges(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyEqual, glfw.Press)
	if !im.JustPressed(ActionViewDistanceUp) || !im.IsActive(ActionViewDistanceUp) {
		t.Fatalf("press not registered")
	}
	im.PostUpdate()
	if im.JustPressed(ActionViewDistanceUp) {
		t.Errorf("edge survived PostUpdate")
	}

	// A repeat while held is not a second press.
	im.HandleKeyEvent(glfw.KeyEqual, glfw.Repeat)
	if im.JustPressed(ActionViewDistanceUp) {
		t.Errorf("repeat counted as a press")
	}

	im.HandleKeyEvent(glfw.KeyEqual, glfw.Release)
	if !im.JustReleased(ActionViewDistanceUp) || im.IsActive(ActionViewDistanceUp) {
		t.Errorf("release not registered")
	}
}

func TestAxisAndAliases(t *testing.T) {
	im := NewInputManager()
	if got := im.Axis(ActionMoveForward, ActionMoveBackward); got != 0 {
		t.Fatalf("idle axis = %v", got)
	}

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	if got := im.Axis(ActionMoveForward, ActionMoveBackward); got != 1 {
		t.Errorf("forward axis = %v, want 1", got)
	}
	im.HandleKeyEvent(glfw.KeyS, glfw.Press)
	if got := im.Axis(ActionMoveForward, ActionMoveBackward); got != 0 {
		t.Errorf("opposed axis = %v, want 0", got)
	}
	im.HandleKeyEvent(glfw.KeyUp, glfw.Release)
	if got := im.Axis(ActionMoveForward, ActionMoveBackward); got != -1 {
		t.Errorf("backward axis = %v, want -1", got)
	}
}

func TestUnboundKeysAndActions(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyZ, glfw.Press)
	for a := Action(0); a < ActionCount; a++ {
		if im.IsActive(a) {
			t.Errorf("unbound key activated %d", a)
		}
	}
	if im.IsActive(ActionCount) || im.JustPressed(-1) {
		t.Errorf("out of range actions must read false")
	}

	im.UnbindKey(glfw.KeyW)
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	if im.IsActive(ActionMoveForward) {
		t.Errorf("unbound W still moves forward")
	}
}
