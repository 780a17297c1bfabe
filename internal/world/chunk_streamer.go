package world

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"endless-terrain/internal/meshing"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/time/rate"
)

// StreamerOptions configures a ChunkStreamer.
type StreamerOptions struct {
	// ViewDistance is the view radius in chunks.
	ViewDistance int
	Metric       DistanceMetric
	Lod          LodSchedule
	// Material is the host material every chunk section is bound to.
	Material MaterialHandle

	// Limiter gates new generation dispatches. Nil means unlimited.
	Limiter *rate.Limiter
	// MaxDispatchPerTick caps dispatches per tick. Zero means unlimited.
	MaxDispatchPerTick int
}

// TickReport summarizes one streaming tick.
type TickReport struct {
	Origin  ChunkCoord
	Visible []ChunkCoord

	Created    int // chunk entries inserted
	Dispatched int // generation tasks submitted, retries included
	Retried    int // dispatches for chunks whose previous build failed
	Throttled  int // coordinates denied by the dispatch limits
	Pending    int // chunks still generating
	Published  int // first publishes
	Relodded   int // republishes at a new LOD
	Shown      int
	Hidden     int
	Deferred   int // publishes that failed and will be retried
	Failed     int // chunks in view that will never build
}

// StreamerStats is a point-in-time view of the whole store.
type StreamerStats struct {
	Chunks      int
	ByState     map[ChunkState]int
	InFlight    int64
	CacheHits   uint64
	CacheMisses uint64
}

// ChunkStreamer decides each tick which chunks are in view, generates the
// missing ones, publishes finished buffers to the render boundary and hides
// chunks that left the view. Tick must be called from one goroutine.
type ChunkStreamer struct {
	gen        *Generator
	build      func(*Chunk, meshing.Lod) error
	store      *ChunkStore
	dispatcher Dispatcher
	opts       StreamerOptions

	boundaryMu sync.Mutex
	boundary   RenderBoundary

	viewDistance atomic.Int32
	worldSize    float32

	// Coordinates in view last tick and this tick; swapped and cleared every tick.
	lastVisible map[ChunkCoord]struct{}
	current     map[ChunkCoord]struct{}

	offsets       []ChunkCoord
	offsetsRadius int

	dispatchedThisTick int

	inflight     sync.WaitGroup
	inflightSize atomic.Int64
}

// NewChunkStreamer creates a streamer. A nil dispatcher generates inline on
// the tick goroutine.
func NewChunkStreamer(gen *Generator, boundary RenderBoundary, dispatcher Dispatcher, opts StreamerOptions) (*ChunkStreamer, error) {
	if gen == nil || boundary == nil {
		return nil, fmt.Errorf("%w: streamer needs a generator and a render boundary", ErrInvalidParameter)
	}
	if opts.Lod.MaxDistance == 0 {
		opts.Lod.MaxDistance = DefaultMaxLodDistance
	}
	if err := opts.Lod.Validate(); err != nil {
		return nil, err
	}
	if dispatcher == nil {
		dispatcher = InlineDispatcher{}
	}
	cfg := gen.Config()
	if err := cfg.Bands.Validate(); err != nil {
		log.Printf("terrain: band table: %v; affected texels stay unclassified", err)
	}

	s := &ChunkStreamer{
		gen:           gen,
		build:         gen.PopulateChunk,
		store:         NewChunkStore(cfg.ChunkWorldSize(), cfg.ComputeNormals),
		dispatcher:    dispatcher,
		opts:          opts,
		boundary:      boundary,
		worldSize:     cfg.ChunkWorldSize(),
		lastVisible:   make(map[ChunkCoord]struct{}),
		current:       make(map[ChunkCoord]struct{}),
		offsetsRadius: -1,
	}
	s.SetViewDistance(opts.ViewDistance)
	return s, nil
}

// Store returns the streamer's chunk store.
func (s *ChunkStreamer) Store() *ChunkStore {
	return s.store
}

// ViewDistance returns the view radius in chunks.
func (s *ChunkStreamer) ViewDistance() int {
	return int(s.viewDistance.Load())
}

// SetViewDistance changes the view radius. Safe to call from any goroutine;
// it takes effect on the next tick.
func (s *ChunkStreamer) SetViewDistance(chunks int) {
	s.viewDistance.Store(int32(max(chunks, 0)))
}

// OriginCoord returns the chunk the viewer at pos stands in.
func (s *ChunkStreamer) OriginCoord(pos mgl32.Vec2) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(float64(pos.X()/s.worldSize) + 0.5)),
		Y: int(math.Floor(float64(pos.Y()/s.worldSize) + 0.5)),
	}
}

// Update polls the viewer once and ticks.
func (s *ChunkStreamer) Update(viewer ViewerSource) TickReport {
	return s.Tick(viewer.ViewerPosition())
}

// Tick runs one streaming step around the viewer position pos. Per-chunk
// failures are recorded on the chunk and never abort the tick.
func (s *ChunkStreamer) Tick(pos mgl32.Vec2) TickReport {
	defer profiling.Track("world.Tick")()

	origin := s.OriginCoord(pos)
	report := TickReport{Origin: origin}
	s.dispatchedThisTick = 0

	clear(s.current)
	for _, off := range s.viewOffsets() {
		coord := origin.Add(off)
		s.current[coord] = struct{}{}
		report.Visible = append(report.Visible, coord)
		s.visit(coord, s.opts.Lod.Lod(s.opts.Metric.Distance(off)), &report)
	}

	for coord := range s.lastVisible {
		if _, ok := s.current[coord]; ok {
			continue
		}
		c := s.store.Get(coord)
		if c == nil || c.State() != StatePublished || !c.visible {
			continue
		}
		s.setVisible(c, false)
		report.Hidden++
	}
	s.lastVisible, s.current = s.current, s.lastVisible
	return report
}

// viewOffsets lists offsets in view, nearest ring first so throttled ticks
// fill in around the viewer.
func (s *ChunkStreamer) viewOffsets() []ChunkCoord {
	radius := s.ViewDistance()
	if radius == s.offsetsRadius {
		return s.offsets
	}
	s.offsets = s.offsets[:0]
	for r := 0; r <= radius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				off := ChunkCoord{X: dx, Y: dy}
				if s.opts.Metric.Within(off, radius) {
					s.offsets = append(s.offsets, off)
				}
			}
		}
	}
	s.offsetsRadius = radius
	return s.offsets
}

func (s *ChunkStreamer) visit(coord ChunkCoord, lod meshing.Lod, report *TickReport) {
	c := s.store.Get(coord)
	if c == nil {
		if !s.allowDispatch() {
			report.Throttled++
			return
		}
		var created bool
		c, created = s.store.GetOrCreate(coord)
		if created {
			s.boundaryMu.Lock()
			c.sectionID = s.boundary.AllocateSectionID()
			s.boundaryMu.Unlock()
			report.Created++
		}
		if s.dispatch(c, lod) {
			report.Dispatched++
		}
	} else if c.State() == StateNotStarted {
		if !s.allowDispatch() {
			report.Throttled++
			return
		}
		if s.dispatch(c, lod) {
			report.Dispatched++
			report.Retried++
		}
	}

	// Inline generation may already have finished.
	switch c.State() {
	case StateGenerating:
		report.Pending++
	case StateReady:
		if err := s.publish(c, lod); err != nil {
			s.publishFailed(c, err, report)
			return
		}
		c.transition(StateReady, StatePublished)
		report.Published++
	case StatePublished:
		if c.lod != lod {
			if err := s.publish(c, lod); err != nil {
				s.publishFailed(c, err, report)
				return
			}
			report.Relodded++
		} else if !c.visible {
			s.setVisible(c, true)
			report.Shown++
		}
	case StateFailed:
		report.Failed++
	}
}

func (s *ChunkStreamer) allowDispatch() bool {
	if s.opts.MaxDispatchPerTick > 0 && s.dispatchedThisTick >= s.opts.MaxDispatchPerTick {
		return false
	}
	if s.opts.Limiter != nil && !s.opts.Limiter.Allow() {
		return false
	}
	return true
}

// dispatch hands c to the dispatcher if nobody else owns it.
func (s *ChunkStreamer) dispatch(c *Chunk, lod meshing.Lod) bool {
	if !c.transition(StateNotStarted, StateGenerating) {
		return false
	}
	s.dispatchedThisTick++
	s.inflight.Add(1)
	s.inflightSize.Add(1)
	s.dispatcher.Submit(func() {
		defer s.inflight.Done()
		defer s.inflightSize.Add(-1)
		s.generate(c, lod)
	})
	return true
}

// generate runs on the dispatcher. The final state store publishes every
// buffer written before it.
func (s *ChunkStreamer) generate(c *Chunk, lod meshing.Lod) {
	err := s.build(c, lod)
	c.err = err
	switch {
	case err == nil:
		c.setState(StateReady)
	case errors.Is(err, ErrInvalidParameter):
		log.Printf("terrain: chunk %s failed: %v", c.Coord, err)
		c.setState(StateFailed)
	default:
		log.Printf("terrain: chunk %s build error, will retry: %v", c.Coord, err)
		c.setState(StateNotStarted)
	}
}

// publish uploads c's buffers at lod and shows the section. The texture and
// material are bound once, on the first successful publish.
func (s *ChunkStreamer) publish(c *Chunk, lod meshing.Lod) error {
	bufs, err := c.LodBuffers(lod)
	if err != nil {
		return fmt.Errorf("%w: lod %s for %s: %w", ErrInternalConsistency, lod, c.Coord, err)
	}
	surface := c.Surface()

	s.boundaryMu.Lock()
	defer s.boundaryMu.Unlock()

	if !c.textureSent && len(c.texture) > 0 {
		handle, err := s.boundary.UploadTexture(surface.Grid.Width, surface.Grid.Height, c.texture)
		if err != nil {
			return fmt.Errorf("%w: texture for %s: %w", ErrResourceUnavailable, c.Coord, err)
		}
		s.boundary.SetSectionMaterial(c.sectionID, Material{Base: s.opts.Material, Texture: handle})
		c.textureSent = true
	}

	err = s.boundary.CreateOrUpdateMeshSection(c.sectionID, MeshSection{
		Vertices: surface.Vertices,
		Indices:  bufs.Indices,
		Normals:  bufs.Normals,
		UVs:      surface.UVs,
	})
	if err != nil {
		return fmt.Errorf("%w: mesh section for %s: %w", ErrResourceUnavailable, c.Coord, err)
	}
	c.lod = lod
	if !c.visible {
		s.boundary.SetSectionVisible(c.sectionID, true)
		c.visible = true
	}
	return nil
}

func (s *ChunkStreamer) publishFailed(c *Chunk, err error, report *TickReport) {
	if errors.Is(err, ErrResourceUnavailable) {
		log.Printf("terrain: publish deferred: %v", err)
		report.Deferred++
		return
	}
	log.Printf("terrain: chunk %s failed: %v", c.Coord, err)
	c.err = err
	c.setState(StateFailed)
	report.Failed++
}

func (s *ChunkStreamer) setVisible(c *Chunk, visible bool) {
	s.boundaryMu.Lock()
	s.boundary.SetSectionVisible(c.sectionID, visible)
	s.boundaryMu.Unlock()
	c.visible = visible
}

// WaitIdle blocks until every dispatched generation task has finished.
func (s *ChunkStreamer) WaitIdle() {
	s.inflight.Wait()
}

// Stats tallies the store. Safe to call concurrently with generation.
func (s *ChunkStreamer) Stats() StreamerStats {
	st := StreamerStats{
		ByState:  make(map[ChunkState]int),
		InFlight: s.inflightSize.Load(),
	}
	for _, cc := range s.store.GetAllChunks() {
		st.Chunks++
		st.ByState[cc.Chunk.State()]++
		hits, misses := cc.Chunk.lods.Counters()
		st.CacheHits += hits
		st.CacheMisses += misses
	}
	return st
}
