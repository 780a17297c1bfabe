package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"endless-terrain/internal/world"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("seed: 7\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Seed)
	}
	if cfg.Scale != DefaultScale || cfg.VerticesPerChunk != DefaultVerticesPerChunk || cfg.TileSize != DefaultTileSize {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.GlobalThreshold != world.DefaultGlobalThreshold {
		t.Errorf("global threshold = %v", cfg.GlobalThreshold)
	}
	if cfg.ComputeNormals == nil || !*cfg.ComputeNormals {
		t.Errorf("normals should default on")
	}
	if len(cfg.Bands) != len(DefaultBands) {
		t.Errorf("got %d bands, want defaults", len(cfg.Bands))
	}
	if err := cfg.BandWarnings(); err != nil {
		t.Errorf("default bands warn: %v", err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if cfg.Octaves != DefaultOctaves {
		t.Errorf("octaves = %d", cfg.Octaves)
	}
}

func TestParseFullDocument(t *testing.T) {
	doc := `
seed: 1337
scale: 80
octaves: 5
persistence: 0.45
lacunarity: 2.1
noise_basis: simplex
normalize_mode: local
vertices_per_chunk: 121
tile_size: 2.5
view_distance: 4
distance_metric: euclidean
max_lod_distance: 3
elevation_multiplier: 90
elevation_curve:
  - {in: 0, out: 0}
  - {in: 0.4, out: 0.05}
  - {in: 1, out: 1}
bands:
  - {name: water, max_height: 0.4, color: "#0000ff"}
  - {name: land, max_height: 1.0, color: "#00ff0080"}
compute_normals: false
async: true
workers: 3
generation_rate: 8
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	gc, err := cfg.GeneratorConfig()
	if err != nil {
		t.Fatalf("GeneratorConfig: %v", err)
	}
	if gc.Basis != world.BasisSimplex || gc.Mode != world.NormalizeLocal {
		t.Errorf("basis=%s mode=%s", gc.Basis, gc.Mode)
	}
	if gc.ComputeNormals {
		t.Errorf("compute_normals: false was ignored")
	}
	if gc.ChunkWorldSize() != 300 {
		t.Errorf("chunk world size = %v, want 300", gc.ChunkWorldSize())
	}
	if got := gc.Height.Elevation(0.4); got < 4.4 || got > 4.6 {
		t.Errorf("Elevation(0.4) = %v, want 4.5", got)
	}
	if gc.Bands[1].Color != (color.RGBA{G: 255, A: 0x80}) {
		t.Errorf("band color = %v", gc.Bands[1].Color)
	}
	if cfg.GenerationBurst != 8 {
		t.Errorf("burst = %d, want 8", cfg.GenerationBurst)
	}

	opts, err := cfg.StreamerOptions(3)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Metric != world.MetricEuclidean || opts.ViewDistance != 4 || opts.Lod.MaxDistance != 3 || opts.Material != 3 {
		t.Errorf("streamer options = %+v", opts)
	}
	if opts.Limiter == nil || opts.Limiter.Burst() != 8 {
		t.Errorf("limiter not configured")
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"zero scale":     "scale: 0\n",
		"negative scale": "scale: -3\n",
		"zero octaves":   "octaves: 0\n",
		"basis":          "noise_basis: worley\n",
		"unknown field":  "sclae: 10\n",
		"bad color":      "bands:\n  - {max_height: 1, color: green}\n",
		"curve":          "elevation_curve:\n  - {in: 0, out: 1}\n  - {in: 1, out: 0}\n",
		"lod distance":   "max_lod_distance: 9\n",
		"view distance":  "view_distance: 40\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, world.ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter, got %v", name, err)
		}
	}
	if _, err := Parse([]byte("seed: [")); err == nil {
		t.Errorf("malformed yaml accepted")
	}
}

func TestBandWarningsDoNotFail(t *testing.T) {
	doc := "bands:\n  - {max_height: 0.6, color: \"#ffffff\"}\n  - {max_height: 0.5, color: \"#000000\"}\n"
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("band problems must not fail the load: %v", err)
	}
	if err := cfg.BandWarnings(); !errors.Is(err, world.ErrInvalidParameter) {
		t.Errorf("expected a band warning, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.yaml")
	if err := os.WriteFile(path, []byte("seed: 3\nview_distance: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ViewDistance != 1 {
		t.Errorf("view distance = %d", cfg.ViewDistance)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file accepted")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1F3f8f")
	if err != nil || c != (color.RGBA{R: 0x1f, G: 0x3f, B: 0x8f, A: 255}) {
		t.Errorf("ParseColor = %v, %v", c, err)
	}
	for _, bad := range []string{"1f3f8f", "#12345", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) accepted", bad)
		}
	}
}

func TestViewDistanceClamp(t *testing.T) {
	defer SetViewDistance(DefaultViewDistance)
	if got := SetViewDistance(100); got != MaxViewDistance {
		t.Errorf("SetViewDistance(100) = %d", got)
	}
	if got := AdjustViewDistance(-100); got != MinViewDistance {
		t.Errorf("AdjustViewDistance(-100) = %d", got)
	}
	SetViewDistance(3)
	if got := AdjustViewDistance(1); got != 4 || GetViewDistance() != 4 {
		t.Errorf("AdjustViewDistance(1) = %d", got)
	}
}

func TestRenderToggles(t *testing.T) {
	defer SetFPSLimit(GetFPSLimit())
	SetFPSLimit(-5)
	if GetFPSLimit() != 0 {
		t.Errorf("negative fps limit stored as %d", GetFPSLimit())
	}

	before := IsWireframeMode()
	ToggleWireframeMode()
	if IsWireframeMode() == before {
		t.Errorf("wireframe toggle had no effect")
	}
	ToggleWireframeMode()
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("../../configs/terrain.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.BandWarnings(); err != nil {
		t.Errorf("shipped bands warn: %v", err)
	}
	if _, err := cfg.GeneratorConfig(); err != nil {
		t.Error(err)
	}
	if !cfg.Async || cfg.GenerationBurst != 4 {
		t.Errorf("async=%v burst=%d", cfg.Async, cfg.GenerationBurst)
	}
}
