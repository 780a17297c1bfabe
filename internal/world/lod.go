package world

import (
	"fmt"
	"math"

	"endless-terrain/internal/meshing"
)

// DefaultMaxLodDistance is the chunk distance at which LOD stops coarsening.
const DefaultMaxLodDistance = 6

// LodFromDistance picks the LOD for a chunk d chunks away from the viewer
// with the default schedule.
func LodFromDistance(d int) meshing.Lod {
	return LodSchedule{MaxDistance: DefaultMaxLodDistance}.Lod(d)
}

// LodSchedule doubles the LOD step per chunk of distance and clamps at
// MaxDistance.
type LodSchedule struct {
	MaxDistance int
}

// Validate rejects schedules that would step past the coarsest LOD.
func (s LodSchedule) Validate() error {
	if s.MaxDistance < 1 || s.MaxDistance*2 > meshing.Coarsest.Step() {
		return fmt.Errorf("%w: max lod distance %d outside [1,%d]",
			ErrInvalidParameter, s.MaxDistance, meshing.Coarsest.Step()/2)
	}
	return nil
}

// Lod maps a chunk distance to a level. Distance 0 is always finest.
func (s LodSchedule) Lod(d int) meshing.Lod {
	if d <= 0 {
		return meshing.Finest
	}
	maxDist := s.MaxDistance
	if maxDist < 1 {
		maxDist = DefaultMaxLodDistance
	}
	d = min(d, maxDist)
	lod := meshing.Lod(d * 2)
	if !lod.Valid() {
		return meshing.Coarsest
	}
	return lod
}

// DistanceMetric measures how many chunks an offset is from the viewer.
type DistanceMetric int

const (
	// MetricChebyshev uses max(|dx|,|dy|): a square view region.
	MetricChebyshev DistanceMetric = iota
	// MetricEuclidean uses the truncated length of the offset: a circular
	// view region.
	MetricEuclidean
)

// ParseDistanceMetric maps a config name to a metric.
func ParseDistanceMetric(name string) (DistanceMetric, error) {
	switch name {
	case "", "chebyshev":
		return MetricChebyshev, nil
	case "euclidean":
		return MetricEuclidean, nil
	}
	return 0, fmt.Errorf("%w: unknown distance metric %q", ErrInvalidParameter, name)
}

func (m DistanceMetric) String() string {
	if m == MetricEuclidean {
		return "euclidean"
	}
	return "chebyshev"
}

// Distance returns the chunk distance of offset d.
func (m DistanceMetric) Distance(d ChunkCoord) int {
	if m == MetricEuclidean {
		return int(math.Hypot(float64(d.X), float64(d.Y)))
	}
	return max(abs(d.X), abs(d.Y))
}

// Within reports whether offset d lies inside a view radius.
func (m DistanceMetric) Within(d ChunkCoord, radius int) bool {
	if m == MetricEuclidean {
		return d.X*d.X+d.Y*d.Y <= radius*radius
	}
	return abs(d.X) <= radius && abs(d.Y) <= radius
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
