package world

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"endless-terrain/internal/meshing"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

// GeneratorConfig holds everything needed to rebuild any chunk from its
// coordinate alone.
type GeneratorConfig struct {
	Seed            int64
	Scale           float64
	Octaves         int
	Persistence     float64
	Lacunarity      float64
	Basis           Basis
	Mode            NormalizeMode
	GlobalThreshold float64

	VerticesPerChunk int
	TileSize         float32
	ComputeNormals   bool

	Height HeightSampler
	Bands  Bands
}

// ChunkWorldSize is the world extent of one chunk edge.
func (c GeneratorConfig) ChunkWorldSize() float32 {
	return float32(c.VerticesPerChunk-1) * c.TileSize
}

// Generator fills chunks with noise, mesh and texture buffers.
type Generator struct {
	cfg     GeneratorConfig
	sampler Sampler

	unclassifiedOnce sync.Once
}

// NewGenerator validates the chunk geometry and builds the noise sampler.
// Noise parameters are checked per chunk so a bad value fails chunks, not
// the streamer.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.VerticesPerChunk < 2 {
		return nil, fmt.Errorf("%w: vertices per chunk %d", ErrInvalidParameter, cfg.VerticesPerChunk)
	}
	if !(cfg.TileSize > 0) {
		return nil, fmt.Errorf("%w: tile size %v", ErrInvalidParameter, cfg.TileSize)
	}
	sampler, err := NewSampler(cfg.Basis, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, sampler: sampler}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

// NoiseParams returns the noise inputs for coord. Neighbouring chunks share
// their border column because the offset advances by VerticesPerChunk-1.
func (g *Generator) NoiseParams(coord ChunkCoord) NoiseParams {
	cells := float64(g.cfg.VerticesPerChunk - 1)
	return NoiseParams{
		Seed:            g.cfg.Seed,
		Width:           g.cfg.VerticesPerChunk,
		Height:          g.cfg.VerticesPerChunk,
		Scale:           g.cfg.Scale,
		Octaves:         g.cfg.Octaves,
		Persistence:     g.cfg.Persistence,
		Lacunarity:      g.cfg.Lacunarity,
		Offset:          mgl64.Vec2{float64(coord.X) * cells, float64(coord.Y) * cells},
		Mode:            g.cfg.Mode,
		GlobalThreshold: g.cfg.GlobalThreshold,
	}
}

// PopulateChunk computes the chunk's noise field, dense surface, color
// texture and the index buffers for lod. The caller must own the chunk.
func (g *Generator) PopulateChunk(c *Chunk, lod meshing.Lod) error {
	defer profiling.Track("world.PopulateChunk")()

	field, err := GenerateNoiseField(g.NoiseParams(c.Coord), g.sampler)
	if err != nil {
		return fmt.Errorf("noise %s: %w", c.Coord, err)
	}

	elevations := make([]float32, len(field.Values))
	for i, v := range field.Values {
		elevations[i] = float32(g.cfg.Height.Elevation(v))
	}
	grid := meshing.Grid{
		Width:    field.Width,
		Height:   field.Height,
		TileSize: g.cfg.TileSize,
		Origin:   c.Rect.Min,
	}
	surface, err := meshing.BuildSurface(grid, elevations)
	if err != nil {
		return meshError(c.Coord, err)
	}

	pix := make([]byte, field.Width*field.Height*4)
	if n := g.cfg.Bands.Paint(field.Values, pix); n > 0 {
		g.unclassifiedOnce.Do(func() {
			log.Printf("terrain: chunk %s has %d texels outside the band table", c.Coord, n)
		})
	}

	c.noise = field
	c.texture = pix
	c.targetLod = lod
	c.lods.Reset(surface)
	if _, err := c.lods.Get(lod); err != nil {
		return meshError(c.Coord, err)
	}
	return nil
}

func meshError(coord ChunkCoord, err error) error {
	if errors.Is(err, meshing.ErrInvalidLod) || errors.Is(err, meshing.ErrGridSize) {
		return fmt.Errorf("%w: mesh %s: %w", ErrInvalidParameter, coord, err)
	}
	return fmt.Errorf("%w: mesh %s: %w", ErrInternalConsistency, coord, err)
}
