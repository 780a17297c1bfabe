package meshing

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrGridSize   = errors.New("meshing: invalid grid size")
	ErrInvalidLod = errors.New("meshing: invalid lod")
	ErrIndexCount = errors.New("meshing: index count mismatch")
	ErrIndexRange = errors.New("meshing: index out of range")
)

// Grid describes the dense vertex lattice of one chunk.
type Grid struct {
	Width    int
	Height   int
	TileSize float32
	// Origin is the world-space position of vertex (0,0), the chunk's min corner.
	Origin mgl32.Vec2
}

func (g Grid) validate() error {
	if g.Width < 2 || g.Height < 2 {
		return fmt.Errorf("%w: %dx%d", ErrGridSize, g.Width, g.Height)
	}
	if g.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %v", ErrGridSize, g.TileSize)
	}
	return nil
}

// Surface is the LOD-independent part of a chunk mesh: every dense grid
// cell as a vertex, plus its UV.
type Surface struct {
	Grid     Grid
	Vertices []mgl32.Vec3
	UVs      []mgl32.Vec2
}

// BuildSurface emits one vertex per grid cell. elevations is row-major
// (y*Width + x) and supplies the Z of each vertex.
func BuildSurface(g Grid, elevations []float32) (*Surface, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if len(elevations) != g.Width*g.Height {
		return nil, fmt.Errorf("%w: %d elevations for %dx%d grid", ErrGridSize, len(elevations), g.Width, g.Height)
	}

	n := g.Width * g.Height
	s := &Surface{
		Grid:     g,
		Vertices: make([]mgl32.Vec3, n),
		UVs:      make([]mgl32.Vec2, n),
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := y*g.Width + x
			s.Vertices[i] = mgl32.Vec3{
				g.Origin.X() + float32(x)*g.TileSize,
				g.Origin.Y() + float32(y)*g.TileSize,
				elevations[i],
			}
			s.UVs[i] = mgl32.Vec2{float32(x) / float32(g.Width), float32(y) / float32(g.Height)}
		}
	}
	return s, nil
}

// BuildIndices strides the dense grid by the LOD step and emits two
// triangles per quad. Indices address the dense vertex array.
//
//	idx ------ idx+col
//	 | \         |
//	 |   \   B   |
//	 |  A  \     |
//	idx+row -- idx+row+col
func BuildIndices(width, height int, lod Lod) ([]int32, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridSize, width, height)
	}
	if !lod.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLod, int(lod))
	}

	step := lod.Step()
	col := step
	row := width * step
	want := IndexCount(width, height, lod)
	total := width * height

	indices := make([]int32, 0, want)
	for y := 0; y < height-step; y += step {
		for x := 0; x < width-step; x += step {
			idx := y*width + x
			if idx+row+col >= total {
				return nil, fmt.Errorf("%w: quad (%d,%d) at %s", ErrIndexRange, x, y, lod)
			}
			indices = append(indices,
				int32(idx), int32(idx+row), int32(idx+row+col),
				int32(idx), int32(idx+row+col), int32(idx+col),
			)
		}
	}

	if len(indices) != want {
		return nil, fmt.Errorf("%w: got %d, want %d at %s", ErrIndexCount, len(indices), want, lod)
	}
	return indices, nil
}

// ComputeNormals returns smooth per-vertex normals: face normals summed into
// every vertex of the face, then normalized. Vertices that belong to no
// triangle at this LOD keep +Z.
func ComputeNormals(vertices []mgl32.Vec3, indices []int32) ([]mgl32.Vec3, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a triangle list", ErrIndexCount, len(indices))
	}
	acc := make([]mgl32.Vec3, len(vertices))
	for t := 0; t < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if !inRange(i0, len(vertices)) || !inRange(i1, len(vertices)) || !inRange(i2, len(vertices)) {
			return nil, fmt.Errorf("%w: triangle %d", ErrIndexRange, t/3)
		}
		n := faceNormal(vertices[i0], vertices[i1], vertices[i2])
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}

	up := mgl32.Vec3{0, 0, 1}
	for i, n := range acc {
		if n.Len() == 0 {
			acc[i] = up
			continue
		}
		acc[i] = n.Normalize()
	}
	return acc, nil
}

// faceNormal points +Z for the layout emitted by BuildIndices: rows grow
// along +Y, so the triangles wind clockwise seen from above in a right-handed
// frame and the edge operands are taken in (v2-v0, v1-v0) order.
func faceNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	n := v2.Sub(v0).Cross(v1.Sub(v0))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return n
}

func inRange(i int32, n int) bool {
	return i >= 0 && int(i) < n
}
