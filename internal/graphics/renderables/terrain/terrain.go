// Package terrain draws streamed terrain chunks with OpenGL. It is both a
// renderer.Renderable and the world.RenderBoundary the streamer publishes to.
// Every boundary method issues GL calls and must run on the GL thread.
package terrain

import (
	_ "embed"
	"fmt"
	"math"

	"endless-terrain/internal/config"
	"endless-terrain/internal/graphics"
	renderer "endless-terrain/internal/graphics/renderer"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/terrain.vert
var vertexSource string

//go:embed shaders/terrain.frag
var fragmentSource string

// Interleaved position(3) normal(3) uv(2).
const floatsPerVertex = 8

type section struct {
	vao, vbo, ebo uint32
	indexCount    int32
	visible       bool
	material      world.Material
	min, max      mgl32.Vec3
}

// Terrain owns one VAO per chunk section and the chunk textures.
type Terrain struct {
	shader   *graphics.Shader
	nextID   world.SectionID
	sections map[world.SectionID]*section
	textures map[world.TextureHandle]uint32
	nextTex  world.TextureHandle
	blank    uint32

	fogColor    mgl32.Vec3
	fogDistance float32

	scratch []float32

	// Per-frame counters.
	Drawn, Culled int
}

// NewTerrain creates the renderable. GL resources are created in Init.
func NewTerrain(fogDistance float32) *Terrain {
	return &Terrain{
		sections:    make(map[world.SectionID]*section),
		textures:    make(map[world.TextureHandle]uint32),
		fogColor:    mgl32.Vec3{0.53, 0.81, 0.92},
		fogDistance: fogDistance,
	}
}

// Init compiles the terrain shader and the fallback texture
func (t *Terrain) Init() error {
	var err error
	t.shader, err = graphics.NewShader(vertexSource, fragmentSource)
	if err != nil {
		return fmt.Errorf("terrain shader: %w", err)
	}
	t.blank, err = graphics.UploadRGBA(1, 1, []byte{255, 255, 255, 255})
	if err != nil {
		return err
	}
	t.shader.Use()
	t.shader.SetInt("colorMap", 0)
	return nil
}

// SetFogDistance changes where terrain fades into the sky.
func (t *Terrain) SetFogDistance(d float32) {
	t.fogDistance = d
}

func (t *Terrain) SetViewport(width, height int) {}

func (t *Terrain) AllocateSectionID() world.SectionID {
	t.nextID++
	return t.nextID
}

func (t *Terrain) CreateOrUpdateMeshSection(id world.SectionID, mesh world.MeshSection) error {
	if len(mesh.UVs) != len(mesh.Vertices) {
		return fmt.Errorf("section %d: %d uvs for %d vertices", id, len(mesh.UVs), len(mesh.Vertices))
	}
	s, ok := t.sections[id]
	if !ok {
		s = &section{}
		t.sections[id] = s
	}
	if s.vao == 0 {
		gl.GenVertexArrays(1, &s.vao)
		gl.GenBuffers(1, &s.vbo)
		gl.GenBuffers(1, &s.ebo)
		if s.vao == 0 || s.vbo == 0 || s.ebo == 0 {
			return fmt.Errorf("section %d: could not allocate GL buffers", id)
		}
	}

	t.scratch = interleave(t.scratch[:0], mesh)
	s.min, s.max = bounds(mesh.Vertices)

	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	if len(t.scratch) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(t.scratch)*4, gl.Ptr(t.scratch), gl.STATIC_DRAW)
	}
	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	if len(mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}
	s.indexCount = int32(len(mesh.Indices))
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("section %d: GL error 0x%x", id, code)
	}
	return nil
}

func (t *Terrain) SetSectionVisible(id world.SectionID, visible bool) {
	if s, ok := t.sections[id]; ok {
		s.visible = visible
	}
}

func (t *Terrain) SetSectionMaterial(id world.SectionID, material world.Material) {
	if s, ok := t.sections[id]; ok {
		s.material = material
		return
	}
	// Materials may be bound before the first geometry upload.
	t.sections[id] = &section{material: material}
}

func (t *Terrain) UploadTexture(width, height int, rgba []byte) (world.TextureHandle, error) {
	tex, err := graphics.UploadRGBA(width, height, rgba)
	if err != nil {
		return 0, err
	}
	t.nextTex++
	t.textures[t.nextTex] = tex
	return t.nextTex, nil
}

// Render draws every visible section that intersects the view frustum
func (t *Terrain) Render(ctx renderer.RenderContext) {
	defer profiling.Track("render.Terrain")()

	t.shader.Use()
	t.shader.SetMat4("view", ctx.View)
	t.shader.SetMat4("proj", ctx.Proj)
	t.shader.SetVec3("lightDir", ctx.LightDir)
	t.shader.SetVec3("fogColor", t.fogColor)
	t.shader.SetFloat("fogDistance", t.fogDistance)
	gl.ActiveTexture(gl.TEXTURE0)
	if config.IsWireframeMode() {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	planes := extractFrustumPlanes(ctx.Proj.Mul4(ctx.View))
	t.Drawn, t.Culled = 0, 0
	for _, s := range t.sections {
		if !s.visible || s.indexCount == 0 || s.vao == 0 {
			continue
		}
		if !aabbInFrustum(s.min, s.max, planes) {
			t.Culled++
			continue
		}
		tex, ok := t.textures[s.material.Texture]
		if !ok {
			tex = t.blank
		}
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.BindVertexArray(s.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, s.indexCount, gl.UNSIGNED_INT, 0)
		t.Drawn++
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Dispose releases every GL object
func (t *Terrain) Dispose() {
	for id, s := range t.sections {
		if s.vao != 0 {
			gl.DeleteVertexArrays(1, &s.vao)
			gl.DeleteBuffers(1, &s.vbo)
			gl.DeleteBuffers(1, &s.ebo)
		}
		delete(t.sections, id)
	}
	for h, tex := range t.textures {
		gl.DeleteTextures(1, &tex)
		delete(t.textures, h)
	}
	if t.blank != 0 {
		gl.DeleteTextures(1, &t.blank)
	}
	if t.shader != nil {
		t.shader.Delete()
	}
}

// interleave packs mesh into dst. Missing normals default to +Z.
func interleave(dst []float32, mesh world.MeshSection) []float32 {
	up := mgl32.Vec3{0, 0, 1}
	for i, v := range mesh.Vertices {
		n := up
		if mesh.Normals != nil {
			n = mesh.Normals[i]
		}
		uv := mesh.UVs[i]
		dst = append(dst, v[0], v[1], v[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return dst
}

func bounds(vs []mgl32.Vec3) (lo, hi mgl32.Vec3) {
	if len(vs) == 0 {
		return lo, hi
	}
	inf := float32(math.Inf(1))
	lo = mgl32.Vec3{inf, inf, inf}
	hi = mgl32.Vec3{-inf, -inf, -inf}
	for _, v := range vs {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	return lo, hi
}
