package world

import (
	"sync"
)

// ChunkStore is the coordinate-keyed cache of every chunk ever requested.
// Entries are never removed: hiding a chunk is cheaper than regenerating it.
// Per-chunk state is observed through the chunk itself, so readers only hold
// the store lock for the map lookup.
type ChunkStore struct {
	chunks   map[ChunkCoord]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on every insert

	worldSize   float32
	withNormals bool
}

// NewChunkStore creates a store for chunks of worldSize world units.
func NewChunkStore(worldSize float32, withNormals bool) *ChunkStore {
	return &ChunkStore{
		chunks:      make(map[ChunkCoord]*Chunk),
		worldSize:   worldSize,
		withNormals: withNormals,
	}
}

// Get returns the chunk at coord, or nil.
func (cs *ChunkStore) Get(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// GetOrCreate returns the chunk at coord, creating an empty one if needed.
// created reports whether this call inserted it.
func (cs *ChunkStore) GetOrCreate(coord ChunkCoord) (chunk *Chunk, created bool) {
	cs.mu.RLock()
	chunk, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	if exists {
		return chunk, false
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	// Another goroutine may have inserted it while we waited for the lock.
	if existing, ok := cs.chunks[coord]; ok {
		return existing, false
	}
	chunk = NewChunk(coord, cs.worldSize, cs.withNormals)
	cs.chunks[coord] = chunk
	cs.modCount++
	return chunk, true
}

// HasChunk checks if a chunk exists without creating it.
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// GetAllChunks returns every chunk with its coordinate, in no order.
func (cs *ChunkStore) GetAllChunks() []ChunkWithCoord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	chunks := make([]ChunkWithCoord, 0, len(cs.chunks))
	for coord, chunk := range cs.chunks {
		chunks = append(chunks, ChunkWithCoord{Chunk: chunk, Coord: coord})
	}
	return chunks
}

// AppendChunksInRadius appends stored chunks whose Chebyshev distance from
// center is at most radius.
func (cs *ChunkStore) AppendChunksInRadius(center ChunkCoord, radius int, dst []ChunkWithCoord) []ChunkWithCoord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			coord := center.Add(ChunkCoord{X: dx, Y: dy})
			if ch, ok := cs.chunks[coord]; ok {
				dst = append(dst, ChunkWithCoord{Chunk: ch, Coord: coord})
			}
		}
	}
	return dst
}

// CountByState tallies stored chunks per lifecycle state.
func (cs *ChunkStore) CountByState() map[ChunkState]int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[ChunkState]int)
	for _, ch := range cs.chunks {
		out[ch.State()]++
	}
	return out
}
