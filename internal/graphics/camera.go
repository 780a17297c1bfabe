package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the projection matrix
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   1.0,
		FarPlane:    20000.0,
	}
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// SetViewport updates the aspect ratio after a resize.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// FlyCamera is a free-flying Z-up viewer. Yaw rotates around +Z starting at
// +X; pitch is clamped short of straight up or down.
type FlyCamera struct {
	Position mgl32.Vec3
	Yaw      float32 // degrees
	Pitch    float32 // degrees
	Speed    float32 // world units per second
}

const maxPitch = 89

// Front returns the unit view direction.
func (f *FlyCamera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(f.Yaw))
	pitch := float64(mgl32.DegToRad(f.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(pitch) * math.Cos(yaw)),
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
	}.Normalize()
}

// Right returns the horizontal unit vector to the right of Front.
func (f *FlyCamera) Right() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(f.Yaw))
	return mgl32.Vec3{float32(math.Sin(yaw)), float32(-math.Cos(yaw)), 0}
}

// Look applies a mouse delta in degrees.
func (f *FlyCamera) Look(dYaw, dPitch float32) {
	f.Yaw = float32(math.Mod(float64(f.Yaw+dYaw), 360))
	f.Pitch = mgl32.Clamp(f.Pitch+dPitch, -maxPitch, maxPitch)
}

// Move translates along the view direction, the right vector and world up.
func (f *FlyCamera) Move(forward, right, up, dt float32) {
	step := f.Speed * dt
	delta := f.Front().Mul(forward * step).
		Add(f.Right().Mul(right * step)).
		Add(mgl32.Vec3{0, 0, up * step})
	f.Position = f.Position.Add(delta)
}

// GetViewMatrix returns the world-to-camera transform.
func (f *FlyCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(f.Position, f.Position.Add(f.Front()), mgl32.Vec3{0, 0, 1})
}

// ViewerPosition reports the camera's ground-plane position.
func (f *FlyCamera) ViewerPosition() mgl32.Vec2 {
	return f.Position.Vec2()
}
