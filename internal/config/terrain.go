package config

import (
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"endless-terrain/internal/world"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScale            = 60
	DefaultOctaves          = 1
	DefaultPersistence      = 0.5
	DefaultLacunarity       = 1
	DefaultVerticesPerChunk = 241
	DefaultTileSize         = 3
	DefaultViewDistance     = 2
	DefaultElevation        = 241
)

//go:embed schema.json
var schemaSource string

var terrainSchema = jsonschema.MustCompileString("terrain.schema.json", schemaSource)

// Terrain is the on-disk terrain configuration.
type Terrain struct {
	Seed            int64   `yaml:"seed"`
	Scale           float64 `yaml:"scale"`
	Octaves         int     `yaml:"octaves"`
	Persistence     float64 `yaml:"persistence"`
	Lacunarity      float64 `yaml:"lacunarity"`
	NoiseBasis      string  `yaml:"noise_basis"`
	NormalizeMode   string  `yaml:"normalize_mode"`
	GlobalThreshold float64 `yaml:"global_threshold"`

	VerticesPerChunk int     `yaml:"vertices_per_chunk"`
	TileSize         float32 `yaml:"tile_size"`

	ViewDistance   int    `yaml:"view_distance"`
	DistanceMetric string `yaml:"distance_metric"`
	MaxLodDistance int    `yaml:"max_lod_distance"`

	ElevationMultiplier float64    `yaml:"elevation_multiplier"`
	ElevationCurve      []CurveKey `yaml:"elevation_curve"`
	Bands               []Band     `yaml:"bands"`
	ComputeNormals      *bool      `yaml:"compute_normals"`

	Async              bool    `yaml:"async"`
	Workers            int     `yaml:"workers"`
	GenerationRate     float64 `yaml:"generation_rate"`
	GenerationBurst    int     `yaml:"generation_burst"`
	MaxDispatchPerTick int     `yaml:"max_dispatch_per_tick"`
}

type CurveKey struct {
	In  float64 `yaml:"in"`
	Out float64 `yaml:"out"`
}

type Band struct {
	Name      string  `yaml:"name"`
	MaxHeight float64 `yaml:"max_height"`
	Color     string  `yaml:"color"`
}

// DefaultBands is used when the config names none.
var DefaultBands = []Band{
	{Name: "deep water", MaxHeight: 0.3, Color: "#1f3f8f"},
	{Name: "water", MaxHeight: 0.4, Color: "#3366cc"},
	{Name: "sand", MaxHeight: 0.45, Color: "#d8c88a"},
	{Name: "grass", MaxHeight: 0.55, Color: "#56a032"},
	{Name: "forest", MaxHeight: 0.6, Color: "#3d7a26"},
	{Name: "rock", MaxHeight: 0.7, Color: "#6b5a4a"},
	{Name: "high rock", MaxHeight: 0.9, Color: "#4d4038"},
	{Name: "snow", MaxHeight: 1, Color: "#f4f4f4"},
}

// Default returns a configuration with every default applied.
func Default() Terrain {
	var t Terrain
	t.ApplyDefaults()
	return t
}

// Load reads, schema-checks and validates a terrain YAML file.
func Load(path string) (Terrain, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Terrain{}, err
	}
	t, err := Parse(raw)
	if err != nil {
		return Terrain{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a terrain YAML document. Fields left out take defaults.
func Parse(raw []byte) (Terrain, error) {
	var t Terrain
	if err := validateSchema(raw); err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("terrain config: %w", err)
	}
	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// validateSchema checks the raw document against the embedded schema. YAML
// is round-tripped through JSON so the validator sees JSON types.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("terrain config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("terrain config: %w", err)
	}
	var v any
	if err := json.Unmarshal(buf, &v); err != nil {
		return fmt.Errorf("terrain config: %w", err)
	}
	if err := terrainSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: terrain config: %w", world.ErrInvalidParameter, err)
	}
	return nil
}

// ApplyDefaults fills zero fields.
func (t *Terrain) ApplyDefaults() {
	if t.Scale == 0 {
		t.Scale = DefaultScale
	}
	if t.Octaves == 0 {
		t.Octaves = DefaultOctaves
	}
	if t.Persistence == 0 {
		t.Persistence = DefaultPersistence
	}
	if t.Lacunarity == 0 {
		t.Lacunarity = DefaultLacunarity
	}
	if t.NoiseBasis == "" {
		t.NoiseBasis = world.BasisPerlin.String()
	}
	if t.NormalizeMode == "" {
		t.NormalizeMode = world.NormalizeGlobal.String()
	}
	if t.GlobalThreshold == 0 {
		t.GlobalThreshold = world.DefaultGlobalThreshold
	}
	if t.VerticesPerChunk == 0 {
		t.VerticesPerChunk = DefaultVerticesPerChunk
	}
	if t.TileSize == 0 {
		t.TileSize = DefaultTileSize
	}
	if t.ViewDistance == 0 {
		t.ViewDistance = DefaultViewDistance
	}
	if t.DistanceMetric == "" {
		t.DistanceMetric = world.MetricChebyshev.String()
	}
	if t.MaxLodDistance == 0 {
		t.MaxLodDistance = world.DefaultMaxLodDistance
	}
	if t.ElevationMultiplier == 0 {
		t.ElevationMultiplier = DefaultElevation
	}
	if len(t.Bands) == 0 {
		t.Bands = append([]Band(nil), DefaultBands...)
	}
	if t.ComputeNormals == nil {
		on := true
		t.ComputeNormals = &on
	}
	if t.GenerationRate > 0 && t.GenerationBurst == 0 {
		t.GenerationBurst = max(1, int(t.GenerationRate))
	}
}

// Validate reports every InvalidParameter condition at once. Band table
// ordering problems are warnings; see BandWarnings.
func (t Terrain) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{world.ErrInvalidParameter}, args...)...))
	}
	if !(t.Scale > 0) {
		bad("scale %v must be positive", t.Scale)
	}
	if t.Octaves <= 0 {
		bad("octaves %d must be positive", t.Octaves)
	}
	if t.VerticesPerChunk < 2 {
		bad("vertices_per_chunk %d must be at least 2", t.VerticesPerChunk)
	}
	if !(t.TileSize > 0) {
		bad("tile_size %v must be positive", t.TileSize)
	}
	if t.ViewDistance < MinViewDistance || t.ViewDistance > MaxViewDistance {
		bad("view_distance %d outside [%d,%d]", t.ViewDistance, MinViewDistance, MaxViewDistance)
	}
	if t.Workers < 0 || t.GenerationRate < 0 || t.GenerationBurst < 0 || t.MaxDispatchPerTick < 0 {
		bad("worker and rate settings must not be negative")
	}
	if _, err := world.ParseBasis(t.NoiseBasis); err != nil {
		errs = append(errs, err)
	}
	if _, err := world.ParseNormalizeMode(t.NormalizeMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := world.ParseDistanceMetric(t.DistanceMetric); err != nil {
		errs = append(errs, err)
	}
	if err := (world.LodSchedule{MaxDistance: t.MaxLodDistance}).Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := t.curve(); err != nil {
		errs = append(errs, err)
	}
	if _, err := t.bands(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BandWarnings reports band tables that leave heights unclassified. The
// terrain still renders; affected texels stay transparent.
func (t Terrain) BandWarnings() error {
	bands, err := t.bands()
	if err != nil {
		return err
	}
	return bands.Validate()
}

// GeneratorConfig converts the file settings into generator inputs.
func (t Terrain) GeneratorConfig() (world.GeneratorConfig, error) {
	basis, err := world.ParseBasis(t.NoiseBasis)
	if err != nil {
		return world.GeneratorConfig{}, err
	}
	mode, err := world.ParseNormalizeMode(t.NormalizeMode)
	if err != nil {
		return world.GeneratorConfig{}, err
	}
	curve, err := t.curve()
	if err != nil {
		return world.GeneratorConfig{}, err
	}
	bands, err := t.bands()
	if err != nil {
		return world.GeneratorConfig{}, err
	}
	return world.GeneratorConfig{
		Seed:             t.Seed,
		Scale:            t.Scale,
		Octaves:          t.Octaves,
		Persistence:      t.Persistence,
		Lacunarity:       t.Lacunarity,
		Basis:            basis,
		Mode:             mode,
		GlobalThreshold:  t.GlobalThreshold,
		VerticesPerChunk: t.VerticesPerChunk,
		TileSize:         t.TileSize,
		ComputeNormals:   t.ComputeNormals == nil || *t.ComputeNormals,
		Height:           world.HeightSampler{Curve: curve, Multiplier: t.ElevationMultiplier},
		Bands:            bands,
	}, nil
}

// StreamerOptions converts the streaming settings. A zero generation rate
// leaves dispatch unlimited.
func (t Terrain) StreamerOptions(material world.MaterialHandle) (world.StreamerOptions, error) {
	metric, err := world.ParseDistanceMetric(t.DistanceMetric)
	if err != nil {
		return world.StreamerOptions{}, err
	}
	opts := world.StreamerOptions{
		ViewDistance:       t.ViewDistance,
		Metric:             metric,
		Lod:                world.LodSchedule{MaxDistance: t.MaxLodDistance},
		Material:           material,
		MaxDispatchPerTick: t.MaxDispatchPerTick,
	}
	if t.GenerationRate > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(t.GenerationRate), max(t.GenerationBurst, 1))
	}
	return opts, nil
}

func (t Terrain) curve() (*world.Curve, error) {
	keys := make([]world.CurveKey, len(t.ElevationCurve))
	for i, k := range t.ElevationCurve {
		keys[i] = world.CurveKey{In: k.In, Out: k.Out}
	}
	return world.NewCurve(keys)
}

func (t Terrain) bands() (world.Bands, error) {
	out := make(world.Bands, len(t.Bands))
	for i, b := range t.Bands {
		c, err := ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
		out[i] = world.Band{MaxHeight: b.MaxHeight, Color: c, Name: b.Name}
	}
	return out, nil
}

// ParseColor decodes "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	digits, ok := strings.CutPrefix(s, "#")
	if !ok || (len(digits) != 6 && len(digits) != 8) {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not #rrggbb", world.ErrInvalidParameter, s)
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q: %w", world.ErrInvalidParameter, s, err)
	}
	c := color.RGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
