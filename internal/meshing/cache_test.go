package meshing

import (
	"testing"
)

func TestLodCacheIdempotent(t *testing.T) {
	g, elev := flatGrid(25)
	for i := range elev {
		elev[i] = float32(i%7) * 0.5
	}
	s, err := BuildSurface(g, elev)
	if err != nil {
		t.Fatal(err)
	}
	c := NewLodCache(true)
	c.Reset(s)

	first, err := c.Get(LodFour)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(LodFour)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Indices) != len(second.Indices) || len(first.Normals) != len(second.Normals) {
		t.Fatalf("buffer sizes differ between calls")
	}
	for i := range first.Indices {
		if first.Indices[i] != second.Indices[i] {
			t.Fatalf("index %d differs", i)
		}
	}
	for i := range first.Normals {
		if first.Normals[i] != second.Normals[i] {
			t.Fatalf("normal %d differs", i)
		}
	}
	hits, misses := c.Counters()
	if hits != 1 || misses != 1 {
		t.Errorf("got hits=%d misses=%d, want 1/1", hits, misses)
	}
}

func TestLodCacheOscillation(t *testing.T) {
	g, elev := flatGrid(25)
	s, _ := BuildSurface(g, elev)
	c := NewLodCache(false)
	c.Reset(s)

	for _, lod := range []Lod{LodOne, LodFour, LodOne, LodFour, LodTwo} {
		b, err := c.Get(lod)
		if err != nil {
			t.Fatal(err)
		}
		if b.Normals != nil {
			t.Errorf("normals built although disabled")
		}
	}
	hits, misses := c.Counters()
	if misses != 3 || hits != 2 {
		t.Errorf("got hits=%d misses=%d, want 2/3", hits, misses)
	}
}

func TestLodCacheResetDropsEntries(t *testing.T) {
	g, elev := flatGrid(9)
	s, _ := BuildSurface(g, elev)
	c := NewLodCache(false)
	c.Reset(s)
	if _, err := c.Get(LodTwo); err != nil {
		t.Fatal(err)
	}
	c.Reset(s)
	if c.Cached(LodTwo) {
		t.Errorf("expected empty cache after reset")
	}
}

func TestLodCacheWithoutSurface(t *testing.T) {
	c := NewLodCache(false)
	if _, err := c.Get(LodOne); err == nil {
		t.Errorf("expected error for unbound cache")
	}
}
