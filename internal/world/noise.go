package world

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Basis selects the single-octave noise function the fractal sum is built on.
type Basis int

const (
	BasisPerlin Basis = iota
	BasisValue
	BasisSimplex
)

func (b Basis) String() string {
	switch b {
	case BasisPerlin:
		return "perlin"
	case BasisValue:
		return "value"
	case BasisSimplex:
		return "simplex"
	}
	return fmt.Sprintf("basis(%d)", int(b))
}

// ParseBasis maps a config name to a Basis.
func ParseBasis(name string) (Basis, error) {
	switch name {
	case "", "perlin":
		return BasisPerlin, nil
	case "value":
		return BasisValue, nil
	case "simplex":
		return BasisSimplex, nil
	}
	return 0, fmt.Errorf("%w: unknown noise basis %q", ErrInvalidParameter, name)
}

// Sampler evaluates one octave of 2D noise in [0,1]. Implementations are
// read-only after construction and safe for concurrent use.
type Sampler interface {
	Sample(x, y float64) float64
}

// NewSampler builds the sampler for a basis and seed.
func NewSampler(b Basis, seed int64) (Sampler, error) {
	switch b {
	case BasisPerlin:
		// One octave: the fractal sum is done by GenerateNoiseField.
		return perlinSampler{p: perlin.NewPerlin(2, 2, 1, seed)}, nil
	case BasisValue:
		return valueSampler{seed: seed}, nil
	case BasisSimplex:
		return simplexSampler{n: opensimplex.NewNormalized(seed)}, nil
	}
	return nil, fmt.Errorf("%w: unknown noise basis %d", ErrInvalidParameter, int(b))
}

type perlinSampler struct {
	p *perlin.Perlin
}

func (s perlinSampler) Sample(x, y float64) float64 {
	return clamp01((s.p.Noise2D(x, y) + 1) * 0.5)
}

type simplexSampler struct {
	n opensimplex.Noise
}

func (s simplexSampler) Sample(x, y float64) float64 {
	return clamp01(s.n.Eval2(x, y))
}

type valueSampler struct {
	seed int64
}

func (s valueSampler) Sample(x, y float64) float64 {
	return valueNoise2D(x, y, s.seed)
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func inverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func hash2(x int64, y int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(y) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x int64, y int64, seed int64) float64 {
	h := hash2(x, y, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	x1 := x0 + 1
	y1 := y0 + 1

	fx := fade(x - x0)
	fy := fade(y - y0)

	v00 := latticeValue(int64(x0), int64(y0), seed)
	v10 := latticeValue(int64(x1), int64(y0), seed)
	v01 := latticeValue(int64(x0), int64(y1), seed)
	v11 := latticeValue(int64(x1), int64(y1), seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fy) // [0,1]
}
