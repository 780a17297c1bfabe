package scene

import (
	"errors"
	"image/color"
	"sync"
	"testing"

	"endless-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

var _ world.RenderBoundary = (*Scene)(nil)

func quad() world.MeshSection {
	return world.MeshSection{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Indices:  []int32{0, 2, 3, 0, 3, 1},
		UVs:      []mgl32.Vec2{{0, 0}, {0.5, 0}, {0, 0.5}, {0.5, 0.5}},
	}
}

func TestSceneSectionLifecycle(t *testing.T) {
	s := New()
	id := s.AllocateSectionID()
	if next := s.AllocateSectionID(); next <= id {
		t.Fatalf("ids not increasing: %d then %d", id, next)
	}
	if err := s.CreateOrUpdateMeshSection(id, quad()); err != nil {
		t.Fatal(err)
	}
	s.SetSectionVisible(id, true)
	s.SetSectionMaterial(id, world.Material{Base: 2, Texture: 9})

	sec, ok := s.Section(id)
	if !ok || !sec.Visible || sec.Triangles() != 2 || sec.Material.Texture != 9 {
		t.Errorf("section = %+v", sec)
	}
	if err := s.CreateOrUpdateMeshSection(id, quad()); err != nil {
		t.Fatal(err)
	}
	if sec, _ := s.Section(id); sec.Uploads != 2 {
		t.Errorf("uploads = %d, want 2", sec.Uploads)
	}

	s.SetSectionVisible(id, false)
	if v := s.VisibleSections(); len(v) != 0 {
		t.Errorf("visible = %v", v)
	}
	if st := s.Stats(); st.Sections != 1 || st.Triangles != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestSceneRejectsMismatchedBuffers(t *testing.T) {
	s := New()
	m := quad()
	m.UVs = m.UVs[:2]
	if err := s.CreateOrUpdateMeshSection(1, m); err == nil {
		t.Errorf("short uv buffer accepted")
	}
	m = quad()
	m.Normals = []mgl32.Vec3{{0, 0, 1}}
	if err := s.CreateOrUpdateMeshSection(1, m); err == nil {
		t.Errorf("short normal buffer accepted")
	}
}

func TestSceneTextures(t *testing.T) {
	s := New(WithMaxTextures(1))
	pix := []byte{10, 20, 30, 255, 1, 2, 3, 4}
	h, err := s.UploadTexture(2, 1, pix)
	if err != nil {
		t.Fatal(err)
	}
	pix[0] = 99
	img := s.Texture(h)
	if img == nil || img.RGBAAt(0, 0) != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("texture not copied: %v", img)
	}
	if _, err := s.UploadTexture(2, 1, pix); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
	if _, err := s.UploadTexture(3, 1, pix); err == nil {
		t.Errorf("size mismatch accepted")
	}
}

func TestSceneSectionCapacity(t *testing.T) {
	s := New(WithMaxSections(1))
	if err := s.CreateOrUpdateMeshSection(1, quad()); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateOrUpdateMeshSection(1, quad()); err != nil {
		t.Errorf("updating an existing section must not hit the cap: %v", err)
	}
	if err := s.CreateOrUpdateMeshSection(2, quad()); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
}

func TestSceneConcurrentUse(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.AllocateSectionID()
			_ = s.CreateOrUpdateMeshSection(id, quad())
			s.SetSectionVisible(id, true)
			_ = s.Stats()
		}()
	}
	wg.Wait()
	if got := len(s.VisibleSections()); got != 16 {
		t.Errorf("visible = %d, want 16", got)
	}
}
