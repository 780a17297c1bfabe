// Package scene is an in-memory render boundary. It keeps every published
// mesh section and texture so headless hosts can inspect what a GPU-backed
// host would have drawn.
package scene

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"

	"endless-terrain/internal/world"
)

// ErrCapacity is returned when a section or texture limit is reached.
var ErrCapacity = errors.New("scene: capacity exhausted")

// Section is one published mesh region.
type Section struct {
	ID       world.SectionID
	Mesh     world.MeshSection
	Visible  bool
	Material world.Material
	// Uploads counts CreateOrUpdateMeshSection calls.
	Uploads int
}

// Triangles returns the section's triangle count.
func (s *Section) Triangles() int {
	return len(s.Mesh.Indices) / 3
}

// Scene implements world.RenderBoundary. All methods are safe for
// concurrent use.
type Scene struct {
	mu       sync.RWMutex
	nextID   world.SectionID
	sections map[world.SectionID]*Section
	textures map[world.TextureHandle]*image.RGBA
	nextTex  world.TextureHandle
	meshes   int // sections holding geometry

	// Zero means unlimited.
	maxSections int
	maxTextures int
}

// Option configures a Scene.
type Option func(*Scene)

// WithMaxSections limits how many sections may hold geometry.
func WithMaxSections(n int) Option {
	return func(s *Scene) { s.maxSections = n }
}

// WithMaxTextures limits how many textures may be uploaded.
func WithMaxTextures(n int) Option {
	return func(s *Scene) { s.maxTextures = n }
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		sections: make(map[world.SectionID]*Section),
		textures: make(map[world.TextureHandle]*image.RGBA),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scene) AllocateSectionID() world.SectionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

func (s *Scene) section(id world.SectionID) *Section {
	sec, ok := s.sections[id]
	if !ok {
		sec = &Section{ID: id}
		s.sections[id] = sec
	}
	return sec
}

// CreateOrUpdateMeshSection replaces the geometry of section id. The
// buffers are retained, not copied; publishers never mutate them.
func (s *Scene) CreateOrUpdateMeshSection(id world.SectionID, mesh world.MeshSection) error {
	if len(mesh.UVs) != len(mesh.Vertices) {
		return fmt.Errorf("scene: section %d has %d uvs for %d vertices", id, len(mesh.UVs), len(mesh.Vertices))
	}
	if mesh.Normals != nil && len(mesh.Normals) != len(mesh.Vertices) {
		return fmt.Errorf("scene: section %d has %d normals for %d vertices", id, len(mesh.Normals), len(mesh.Vertices))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sec := s.section(id)
	if sec.Uploads == 0 {
		if s.maxSections > 0 && s.meshes >= s.maxSections {
			return fmt.Errorf("%w: %d sections", ErrCapacity, s.maxSections)
		}
		s.meshes++
	}
	sec.Mesh = mesh
	sec.Uploads++
	return nil
}

func (s *Scene) SetSectionVisible(id world.SectionID, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec, ok := s.sections[id]; ok {
		sec.Visible = visible
	}
}

func (s *Scene) SetSectionMaterial(id world.SectionID, material world.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.section(id).Material = material
}

// UploadTexture copies rgba into a new texture.
func (s *Scene) UploadTexture(width, height int, rgba []byte) (world.TextureHandle, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return 0, fmt.Errorf("scene: texture %dx%d with %d bytes", width, height, len(rgba))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, rgba)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxTextures > 0 && len(s.textures) >= s.maxTextures {
		return 0, fmt.Errorf("%w: %d textures", ErrCapacity, s.maxTextures)
	}
	s.nextTex++
	s.textures[s.nextTex] = img
	return s.nextTex, nil
}

// Section returns a copy of section id.
func (s *Scene) Section(id world.SectionID) (Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.sections[id]
	if !ok {
		return Section{}, false
	}
	return *sec, true
}

// Texture returns the image behind handle h, or nil.
func (s *Scene) Texture(h world.TextureHandle) *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textures[h]
}

// VisibleSections lists visible section ids in ascending order.
func (s *Scene) VisibleSections() []world.SectionID {
	s.mu.RLock()
	ids := make([]world.SectionID, 0, len(s.sections))
	for id, sec := range s.sections {
		if sec.Visible {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Stats summarizes the scene.
type Stats struct {
	Sections        int
	VisibleSections int
	Triangles       int // visible only
	Textures        int
}

func (s *Scene) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Sections: len(s.sections), Textures: len(s.textures)}
	for _, sec := range s.sections {
		if sec.Visible {
			st.VisibleSections++
			st.Triangles += sec.Triangles()
		}
	}
	return st
}
