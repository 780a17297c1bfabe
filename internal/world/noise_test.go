package world

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testNoiseParams() NoiseParams {
	return NoiseParams{
		Seed:        42,
		Width:       33,
		Height:      33,
		Scale:       27.6,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Offset:      mgl64.Vec2{12, -40},
	}
}

// TestHash2Deterministic verifies hash2 produces identical results for same inputs
func TestHash2Deterministic(t *testing.T) {
	first := hash2(10, 20, 42)
	for i := 0; i < 100; i++ {
		if h := hash2(10, 20, 42); h != first {
			t.Fatalf("hash2 not deterministic: %d != %d", h, first)
		}
	}
	if hash2(1, 2, 42) == hash2(2, 1, 42) {
		t.Errorf("hash2 should differ for axis swap")
	}
	if hash2(1, 1, 100) == hash2(1, 1, 200) {
		t.Errorf("hash2 should differ for different seed")
	}
}

func TestSamplersRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for _, b := range []Basis{BasisPerlin, BasisValue, BasisSimplex} {
		s, err := NewSampler(b, 7)
		if err != nil {
			t.Fatalf("NewSampler(%s): %v", b, err)
		}
		for i := 0; i < 1000; i++ {
			x := rng.Float64()*200 - 100
			y := rng.Float64()*200 - 100
			if v := s.Sample(x, y); v < 0 || v > 1 {
				t.Errorf("%s.Sample(%f, %f) = %f, expected in [0,1]", b, x, y, v)
			}
		}
	}
}

func TestParseBasis(t *testing.T) {
	if b, err := ParseBasis(""); err != nil || b != BasisPerlin {
		t.Errorf("ParseBasis(\"\") = %v, %v; want perlin", b, err)
	}
	if b, err := ParseBasis("simplex"); err != nil || b != BasisSimplex {
		t.Errorf("ParseBasis(simplex) = %v, %v", b, err)
	}
	if _, err := ParseBasis("worley"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestOctaveOffsetsReproducible(t *testing.T) {
	a := OctaveOffsets(99, 8)
	b := OctaveOffsets(99, 8)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("octave %d: %v != %v", i, a[i], b[i])
		}
		for _, c := range a[i] {
			if c < -octaveOffsetRange || c > octaveOffsetRange {
				t.Errorf("octave %d offset %v outside range", i, a[i])
			}
		}
	}
	if c := OctaveOffsets(100, 8); c[0] == a[0] {
		t.Errorf("different seeds produced the same first offset %v", c[0])
	}
}

func TestNoiseFieldDeterminism(t *testing.T) {
	for _, b := range []Basis{BasisPerlin, BasisValue, BasisSimplex} {
		s, _ := NewSampler(b, 42)
		p := testNoiseParams()
		first, err := GenerateNoiseField(p, s)
		if err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		for run := 0; run < 5; run++ {
			again, _ := GenerateNoiseField(p, s)
			for i := range first.Raw {
				if math.Float64bits(first.Raw[i]) != math.Float64bits(again.Raw[i]) {
					t.Fatalf("%s run %d: raw[%d] %v != %v", b, run, i, again.Raw[i], first.Raw[i])
				}
				if first.Values[i] != again.Values[i] {
					t.Fatalf("%s run %d: value[%d] differs", b, run, i)
				}
			}
		}
	}
}

func TestNoiseFieldMinMax(t *testing.T) {
	s, _ := NewSampler(BasisPerlin, 3)
	f, err := GenerateNoiseField(testNoiseParams(), s)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range f.Raw {
		if v < f.Min || v > f.Max {
			t.Errorf("raw[%d] = %v outside [%v, %v]", i, v, f.Min, f.Max)
		}
	}
}

func TestLocalNormalizationRange(t *testing.T) {
	s, _ := NewSampler(BasisValue, 5)
	p := testNoiseParams()
	p.Mode = NormalizeLocal
	f, err := GenerateNoiseField(p, s)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := 1.0, 0.0
	for _, v := range f.Values {
		if v < 0 || v > 1 {
			t.Fatalf("local value %v outside [0,1]", v)
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo != 0 || hi != 1 {
		t.Errorf("local normalization should span [0,1], got [%v, %v]", lo, hi)
	}
}

func TestGlobalNormalizationMonotonic(t *testing.T) {
	s, _ := NewSampler(BasisPerlin, 11)
	p := testNoiseParams()
	p.Mode = NormalizeGlobal
	f, err := GenerateNoiseField(p, s)
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Raw {
		for j := range f.Raw {
			if f.Raw[i] < f.Raw[j] && f.Values[i] > f.Values[j] {
				t.Fatalf("raw %v < %v but normalized %v > %v", f.Raw[i], f.Raw[j], f.Values[i], f.Values[j])
			}
		}
	}

	band := MaxAmplitude(4, 0.5) * DefaultGlobalThreshold
	prev := -1.0
	for raw := -3.0; raw <= 3.0; raw += 0.01 {
		v := NormalizeGlobalValue(raw, band)
		if v < prev {
			t.Fatalf("NormalizeGlobalValue not monotonic at %v", raw)
		}
		if v < 0 || v > 1 {
			t.Fatalf("NormalizeGlobalValue(%v) = %v outside [0,1]", raw, v)
		}
		prev = v
	}
	if got := NormalizeGlobalValue(0, band); got != 0.5 {
		t.Errorf("NormalizeGlobalValue(0) = %v, want 0.5", got)
	}
}

func TestMaxAmplitude(t *testing.T) {
	if got := MaxAmplitude(3, 0.5); got != 1.75 {
		t.Errorf("MaxAmplitude(3, 0.5) = %v, want 1.75", got)
	}
}

func TestNoiseParamsRejected(t *testing.T) {
	s, _ := NewSampler(BasisPerlin, 1)
	cases := map[string]func(*NoiseParams){
		"zero scale":     func(p *NoiseParams) { p.Scale = 0 },
		"negative scale": func(p *NoiseParams) { p.Scale = -4 },
		"NaN scale":      func(p *NoiseParams) { p.Scale = math.NaN() },
		"zero octaves":   func(p *NoiseParams) { p.Octaves = 0 },
		"empty grid":     func(p *NoiseParams) { p.Width = 0 },
		"threshold":      func(p *NoiseParams) { p.GlobalThreshold = -1 },
	}
	for name, mutate := range cases {
		p := testNoiseParams()
		mutate(&p)
		if _, err := GenerateNoiseField(p, s); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter, got %v", name, err)
		}
	}
}

// Adjacent chunks must sample the shared border column at the same world
// coordinate.
func TestSeamContinuity(t *testing.T) {
	s, _ := NewSampler(BasisPerlin, 2024)
	const w = 25
	p := testNoiseParams()
	p.Width, p.Height = w, w
	p.Offset = mgl64.Vec2{0, 0}
	left, err := GenerateNoiseField(p, s)
	if err != nil {
		t.Fatal(err)
	}
	p.Offset = mgl64.Vec2{w - 1, 0}
	right, _ := GenerateNoiseField(p, s)
	p.Offset = mgl64.Vec2{0, w - 1}
	below, _ := GenerateNoiseField(p, s)

	for y := 0; y < w; y++ {
		a := left.Raw[y*w+w-1]
		b := right.Raw[y*w]
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Errorf("x seam row %d: %v != %v", y, a, b)
		}
	}
	for x := 0; x < w; x++ {
		a := left.Raw[(w-1)*w+x]
		b := below.Raw[x]
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Errorf("y seam col %d: %v != %v", x, a, b)
		}
	}
}

func BenchmarkGenerateNoiseField(b *testing.B) {
	s, _ := NewSampler(BasisPerlin, 1)
	p := testNoiseParams()
	p.Width, p.Height = 241, 241
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = GenerateNoiseField(p, s)
	}
}
