package meshing

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// LodBuffers holds the LOD-dependent part of a chunk mesh.
type LodBuffers struct {
	Lod     Lod
	Indices []int32
	// Normals is nil when the cache was built without normals.
	Normals []mgl32.Vec3
}

// LodCache memoizes index (and normal) buffers per LOD for one surface.
// Entries stay valid until the surface is replaced.
type LodCache struct {
	mu      sync.Mutex
	normals bool
	surface *Surface
	entries map[Lod]*LodBuffers

	hits   uint64
	misses uint64
}

// NewLodCache creates an empty cache. withNormals controls whether Get also
// computes smooth normals.
func NewLodCache(withNormals bool) *LodCache {
	return &LodCache{
		normals: withNormals,
		entries: make(map[Lod]*LodBuffers),
	}
}

// Reset binds the cache to a new surface and drops every cached LOD.
func (c *LodCache) Reset(s *Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface = s
	clear(c.entries)
}

// Surface returns the surface the cache is bound to.
func (c *LodCache) Surface() *Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// Get returns the buffers for lod, building them on first request.
func (c *LodCache) Get(lod Lod) (*LodBuffers, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.entries[lod]; ok {
		c.hits++
		return b, nil
	}
	if c.surface == nil {
		return nil, ErrGridSize
	}
	c.misses++

	g := c.surface.Grid
	indices, err := BuildIndices(g.Width, g.Height, lod)
	if err != nil {
		return nil, err
	}
	b := &LodBuffers{Lod: lod, Indices: indices}
	if c.normals {
		b.Normals, err = ComputeNormals(c.surface.Vertices, indices)
		if err != nil {
			return nil, err
		}
	}
	c.entries[lod] = b
	return b, nil
}

// Cached reports whether lod is already built.
func (c *LodCache) Cached(lod Lod) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[lod]
	return ok
}

// Counters returns cache hit and miss totals.
func (c *LodCache) Counters() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
