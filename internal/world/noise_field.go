package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// NormalizeMode selects how raw accumulated noise is mapped into [0,1].
type NormalizeMode int

const (
	// NormalizeGlobal stretches the theoretical amplitude band, so every
	// chunk shares one mapping and borders line up.
	NormalizeGlobal NormalizeMode = iota
	// NormalizeLocal stretches this field's observed [min,max].
	NormalizeLocal
)

func (m NormalizeMode) String() string {
	if m == NormalizeLocal {
		return "local"
	}
	return "global"
}

// ParseNormalizeMode maps a config name to a NormalizeMode.
func ParseNormalizeMode(name string) (NormalizeMode, error) {
	switch name {
	case "", "global":
		return NormalizeGlobal, nil
	case "local":
		return NormalizeLocal, nil
	}
	return 0, fmt.Errorf("%w: unknown normalize mode %q", ErrInvalidParameter, name)
}

const (
	octaveOffsetRange      = 100000.0
	DefaultGlobalThreshold = 0.5
)

// NoiseParams are the inputs of one noise field. Identical params always
// produce bit-identical fields.
type NoiseParams struct {
	Seed        int64
	Width       int
	Height      int
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	// Offset shifts the sample grid, in grid cells.
	Offset mgl64.Vec2
	Mode   NormalizeMode
	// GlobalThreshold scales the theoretical amplitude band used by
	// NormalizeGlobal. Zero means DefaultGlobalThreshold.
	GlobalThreshold float64
}

// Validate reports parameters that cannot produce a field.
func (p NoiseParams) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: noise size %dx%d", ErrInvalidParameter, p.Width, p.Height)
	case !(p.Scale > 0):
		return fmt.Errorf("%w: noise scale %v must be positive", ErrInvalidParameter, p.Scale)
	case p.Octaves <= 0:
		return fmt.Errorf("%w: octaves %d must be positive", ErrInvalidParameter, p.Octaves)
	case p.GlobalThreshold < 0:
		return fmt.Errorf("%w: global threshold %v", ErrInvalidParameter, p.GlobalThreshold)
	}
	return nil
}

func (p NoiseParams) threshold() float64 {
	if p.GlobalThreshold == 0 {
		return DefaultGlobalThreshold
	}
	return p.GlobalThreshold
}

// NoiseField is a Width x Height grid of fractal noise, row-major.
type NoiseField struct {
	Width  int
	Height int
	// Raw holds the accumulated octave sums before normalization.
	Raw []float64
	// Values holds Raw mapped into [0,1] by Mode.
	Values []float64
	Min    float64
	Max    float64
	Mode   NormalizeMode
	// OctaveOffsets are the per-octave jitters drawn from the seeded stream.
	OctaveOffsets []mgl64.Vec2
}

// At returns the normalized value at (x, y).
func (f *NoiseField) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// OctaveOffsets draws the per-octave jitter for seed. The stream is
// reseeded on every call.
func OctaveOffsets(seed int64, octaves int) []mgl64.Vec2 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]mgl64.Vec2, octaves)
	for i := range out {
		ox := rng.Float64()*2*octaveOffsetRange - octaveOffsetRange
		oy := rng.Float64()*2*octaveOffsetRange - octaveOffsetRange
		out[i] = mgl64.Vec2{ox, oy}
	}
	return out
}

// MaxAmplitude is the largest absolute octave sum the params can produce.
func MaxAmplitude(octaves int, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	for i := 0; i < octaves; i++ {
		total += amplitude
		amplitude *= persistence
	}
	return total
}

// GenerateNoiseField samples the fractal sum over a Width x Height grid.
func GenerateNoiseField(p NoiseParams, s Sampler) (*NoiseField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil sampler", ErrInvalidParameter)
	}

	n := p.Width * p.Height
	f := &NoiseField{
		Width:         p.Width,
		Height:        p.Height,
		Raw:           make([]float64, n),
		Values:        make([]float64, n),
		Min:           math.Inf(1),
		Max:           math.Inf(-1),
		Mode:          p.Mode,
		OctaveOffsets: OctaveOffsets(p.Seed, p.Octaves),
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			amplitude := 1.0
			frequency := 1.0
			sum := 0.0
			for _, o := range f.OctaveOffsets {
				// Offset is added to the cell first so neighbouring chunks that
				// share a world column produce the same bits.
				sx := (float64(x) + p.Offset.X() + o.X()) / p.Scale * frequency
				sy := (float64(y) + p.Offset.Y() + o.Y()) / p.Scale * frequency
				sum += amplitude * (s.Sample(sx, sy)*2 - 1)
				amplitude *= p.Persistence
				frequency *= p.Lacunarity
			}
			f.Raw[y*p.Width+x] = sum
			f.Min = math.Min(f.Min, sum)
			f.Max = math.Max(f.Max, sum)
		}
	}

	f.normalize(p)
	return f, nil
}

func (f *NoiseField) normalize(p NoiseParams) {
	switch f.Mode {
	case NormalizeLocal:
		for i, v := range f.Raw {
			f.Values[i] = clamp01(inverseLerp(f.Min, f.Max, v))
		}
	default:
		band := MaxAmplitude(p.Octaves, p.Persistence) * p.threshold()
		for i, v := range f.Raw {
			f.Values[i] = NormalizeGlobalValue(v, band)
		}
	}
}

// NormalizeGlobalValue maps raw into [0,1] against a symmetric band
// [-band, band]. Values outside the band clamp.
func NormalizeGlobalValue(raw, band float64) float64 {
	if band <= 0 {
		return 0
	}
	return clamp01((raw + band) / (2 * band))
}
