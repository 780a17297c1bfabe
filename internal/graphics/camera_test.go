package graphics

import (
	"testing"

	"endless-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

var _ world.ViewerSource = (*FlyCamera)(nil)

func TestFlyCameraFront(t *testing.T) {
	c := &FlyCamera{}
	if f := c.Front(); !f.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("front at yaw 0 = %v", f)
	}
	c.Yaw = 90
	if f := c.Front(); !f.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("front at yaw 90 = %v", f)
	}
	if r := c.Right(); !r.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("right at yaw 90 = %v", r)
	}
}

func TestFlyCameraPitchClamp(t *testing.T) {
	c := &FlyCamera{}
	c.Look(0, 500)
	if c.Pitch != maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, maxPitch)
	}
	c.Look(370, -1000)
	if c.Pitch != -maxPitch || c.Yaw != 10 {
		t.Errorf("yaw=%v pitch=%v", c.Yaw, c.Pitch)
	}
}

func TestFlyCameraMove(t *testing.T) {
	c := &FlyCamera{Position: mgl32.Vec3{0, 0, 100}, Speed: 10}
	c.Move(1, 0, 0, 0.5)
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{5, 0, 100}, 1e-5) {
		t.Errorf("after forward: %v", c.Position)
	}
	c.Move(0, 1, 1, 1)
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{5, -10, 110}, 1e-5) {
		t.Errorf("after right+up: %v", c.Position)
	}
	if p := c.ViewerPosition(); !p.ApproxEqualThreshold(mgl32.Vec2{5, -10}, 1e-5) {
		t.Errorf("viewer position = %v", p)
	}
}

func TestCameraViewport(t *testing.T) {
	c := NewCamera(900, 600)
	c.SetViewport(1200, 600)
	if c.AspectRatio != 2 {
		t.Errorf("aspect = %v", c.AspectRatio)
	}
	c.SetViewport(10, 0)
	if c.AspectRatio != 2 {
		t.Errorf("zero height changed aspect to %v", c.AspectRatio)
	}
}
