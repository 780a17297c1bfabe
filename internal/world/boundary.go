package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SectionID is an opaque, monotonically increasing render boundary handle.
type SectionID int

// TextureHandle names a texture uploaded to the render boundary.
type TextureHandle uint32

// MaterialHandle names a host material.
type MaterialHandle uint32

// Material binds a section to a host material and a chunk texture.
type Material struct {
	Base    MaterialHandle
	Texture TextureHandle
}

// MeshSection is a full replacement of one section's geometry.
type MeshSection struct {
	Vertices []mgl32.Vec3
	Indices  []int32
	// Normals may be nil.
	Normals []mgl32.Vec3
	UVs     []mgl32.Vec2
}

// RenderBoundary is the host scene that owns every chunk's uploaded
// geometry. The streamer serializes all calls behind one mutex.
type RenderBoundary interface {
	AllocateSectionID() SectionID
	CreateOrUpdateMeshSection(id SectionID, section MeshSection) error
	SetSectionVisible(id SectionID, visible bool)
	SetSectionMaterial(id SectionID, material Material)
	UploadTexture(width, height int, rgba []byte) (TextureHandle, error)
}

// ViewerSource reports the viewer's world-space position on the XY plane.
type ViewerSource interface {
	ViewerPosition() mgl32.Vec2
}

// Dispatcher runs generation tasks. Results flow back only through chunk
// state.
type Dispatcher interface {
	Submit(task func())
}

// InlineDispatcher runs every task on the calling goroutine.
type InlineDispatcher struct{}

// Submit runs task immediately.
func (InlineDispatcher) Submit(task func()) {
	task()
}
