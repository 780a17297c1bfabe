package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// UploadRGBA creates a single-mip 2D texture from tightly packed RGBA8
// pixels. Must be called on the GL thread.
func UploadRGBA(width, height int, pix []byte) (uint32, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d with %d bytes", width, height, len(pix))
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	if texture == 0 {
		return 0, fmt.Errorf("glGenTextures failed")
	}
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &texture)
		return 0, fmt.Errorf("glTexImage2D error 0x%x", code)
	}
	return texture, nil
}
