package scene

import (
	"fmt"
	"image"

	"endless-terrain/internal/world"

	"golang.org/x/image/draw"
)

// Mosaic stitches the textures of published chunks within radius of center
// into one image, north up. Neighboring chunks share their edge texels, so
// each chunk advances the mosaic by width-1 pixels. Chunks without a
// texture are left transparent; the count of placed chunks is returned.
func (s *Scene) Mosaic(chunks []world.ChunkWithCoord, center world.ChunkCoord, radius int) (*image.RGBA, int, error) {
	if radius < 0 {
		return nil, 0, fmt.Errorf("%w: mosaic radius %d", world.ErrInvalidParameter, radius)
	}

	type tile struct {
		d   world.ChunkCoord
		tex *image.RGBA
	}
	var tiles []tile
	size := 0
	for _, c := range chunks {
		d := c.Coord.Sub(center)
		if max(abs(d.X), abs(d.Y)) > radius {
			continue
		}
		sec, ok := s.Section(c.Chunk.SectionID())
		if !ok {
			continue
		}
		tex := s.Texture(sec.Material.Texture)
		if tex == nil {
			continue
		}
		w := tex.Bounds().Dx()
		if size == 0 {
			size = w
		} else if w != size || tex.Bounds().Dy() != size {
			return nil, 0, fmt.Errorf("%w: chunk %s texture is %dx%d, want %dx%d",
				world.ErrInternalConsistency, c.Coord, w, tex.Bounds().Dy(), size, size)
		}
		tiles = append(tiles, tile{d: d, tex: tex})
	}
	if size < 2 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), 0, nil
	}

	step := size - 1
	span := (2*radius+1)*step + 1
	out := image.NewRGBA(image.Rect(0, 0, span, span))
	for _, t := range tiles {
		x0 := (t.d.X + radius) * step
		y0 := (t.d.Y + radius) * step
		for y := 0; y < size; y++ {
			// Texture rows grow with world Y; image rows grow downward.
			row := span - 1 - (y0 + y)
			src := t.tex.Pix[y*t.tex.Stride : y*t.tex.Stride+size*4]
			dst := out.Pix[row*out.Stride+x0*4:]
			copy(dst[:size*4], src)
		}
	}
	return out, len(tiles), nil
}

// Scale resizes img by factor. Smooth uses Catmull-Rom, otherwise texels
// stay sharp.
func Scale(img *image.RGBA, factor float64, smooth bool) *image.RGBA {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
