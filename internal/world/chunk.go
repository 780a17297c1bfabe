package world

import (
	"fmt"
	"math"
	"sync/atomic"

	"endless-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkCoord identifies a chunk on the infinite grid.
type ChunkCoord struct {
	X, Y int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add offsets c by d.
func (c ChunkCoord) Add(d ChunkCoord) ChunkCoord {
	return ChunkCoord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Sub returns c - d.
func (c ChunkCoord) Sub(d ChunkCoord) ChunkCoord {
	return ChunkCoord{X: c.X - d.X, Y: c.Y - d.Y}
}

// ChunkWithCoord pairs a chunk with its key.
type ChunkWithCoord struct {
	Chunk *Chunk
	Coord ChunkCoord
}

// Rect is an axis-aligned world-space rectangle.
type Rect struct {
	Min, Max mgl32.Vec2
}

// Center returns the midpoint of r.
func (r Rect) Center() mgl32.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Size returns the extent of r.
func (r Rect) Size() mgl32.Vec2 {
	return r.Max.Sub(r.Min)
}

// DistanceTo is the 2D distance from p to the nearest point of r, zero inside.
func (r Rect) DistanceTo(p mgl32.Vec2) float32 {
	dx := max(r.Min.X()-p.X(), 0, p.X()-r.Max.X())
	dy := max(r.Min.Y()-p.Y(), 0, p.Y()-r.Max.Y())
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// ChunkRect returns the world rect of coord for a chunk of worldSize.
func ChunkRect(coord ChunkCoord, worldSize float32) Rect {
	center := mgl32.Vec2{float32(coord.X) * worldSize, float32(coord.Y) * worldSize}
	half := worldSize / 2
	return Rect{
		Min: center.Sub(mgl32.Vec2{half, half}),
		Max: center.Add(mgl32.Vec2{half, half}),
	}
}

// ChunkState is the lifecycle position of a chunk.
type ChunkState int32

const (
	// StateNotStarted has no buffers yet, or a retryable build failed.
	StateNotStarted ChunkState = iota
	// StateGenerating is owned by the generation task.
	StateGenerating
	// StateReady has buffers waiting for their first publish.
	StateReady
	// StatePublished has a mesh section on the render boundary.
	StatePublished
	// StateFailed hit a configuration error and is never retried.
	StateFailed
)

func (s ChunkState) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Chunk is one square tile of terrain. Chunks are never evicted; leaving view
// only hides their section.
//
// While the state is StateGenerating the generation task owns every buffer.
// The streamer reads them only after observing StateReady.
type Chunk struct {
	Coord ChunkCoord
	Rect  Rect

	state atomic.Int32

	// Written by the generation task.
	noise     *NoiseField
	texture   []byte
	targetLod meshing.Lod
	lods      *meshing.LodCache
	err       error

	// Owned by the streamer goroutine.
	sectionID   SectionID
	lod         meshing.Lod
	visible     bool
	textureSent bool
}

// NewChunk creates an empty chunk at coord.
func NewChunk(coord ChunkCoord, worldSize float32, withNormals bool) *Chunk {
	return &Chunk{
		Coord: coord,
		Rect:  ChunkRect(coord, worldSize),
		lods:  meshing.NewLodCache(withNormals),
	}
}

// State returns the current lifecycle state.
func (c *Chunk) State() ChunkState {
	return ChunkState(c.state.Load())
}

func (c *Chunk) transition(from, to ChunkState) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}

func (c *Chunk) setState(s ChunkState) {
	c.state.Store(int32(s))
}

// Err returns the last generation error. Only meaningful once the state has
// left StateGenerating.
func (c *Chunk) Err() error {
	return c.err
}

// SectionID is the render boundary handle of the chunk.
func (c *Chunk) SectionID() SectionID {
	return c.sectionID
}

// Lod is the level last published.
func (c *Chunk) Lod() meshing.Lod {
	return c.lod
}

// Visible reports whether the chunk's section is shown.
func (c *Chunk) Visible() bool {
	return c.visible
}

// Noise returns the chunk's noise field, nil before generation.
func (c *Chunk) Noise() *NoiseField {
	return c.noise
}

// Surface returns the dense vertex/UV buffers, nil before generation.
func (c *Chunk) Surface() *meshing.Surface {
	return c.lods.Surface()
}

// Texture returns the RGBA8 color texture, nil before generation.
func (c *Chunk) Texture() []byte {
	return c.texture
}

// LodBuffers returns (building if needed) the index/normal buffers for lod.
func (c *Chunk) LodBuffers(lod meshing.Lod) (*meshing.LodBuffers, error) {
	return c.lods.Get(lod)
}

// IsInVisibleDistance reports whether p is within viewDistance of the
// chunk's rect, ignoring height.
func (c *Chunk) IsInVisibleDistance(p mgl32.Vec2, viewDistance float32) bool {
	return c.Rect.DistanceTo(p) <= viewDistance
}
