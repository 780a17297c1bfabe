package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"endless-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terrain.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesPNG(t *testing.T) {
	cfg := writeConfig(t, "seed: 7\nvertices_per_chunk: 17\ntile_size: 2\nasync: true\nworkers: 2\ngeneration_rate: 1\n")
	out := filepath.Join(t.TempDir(), "out.png")

	if err := run(cfg, mgl32.Vec2{100, -40}, 1, out, 2, false); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	// 3 chunks of 16 texels plus the closing edge, doubled.
	if b := img.Bounds(); b.Dx() != 98 || b.Dy() != 98 {
		t.Errorf("image is %v, want 98x98", b)
	}
}

func TestRunRejects(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	if err := run("", mgl32.Vec2{}, 0, out, 0, false); !errors.Is(err, world.ErrInvalidParameter) {
		t.Errorf("zero scale error = %v", err)
	}
	if err := run(filepath.Join(t.TempDir(), "missing.yaml"), mgl32.Vec2{}, 0, out, 1, false); err == nil {
		t.Errorf("missing config accepted")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("failed runs left %s behind", out)
	}
}
