// Package texture uploads rasterized paper pages to the GPU.
package texture

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/mobius-paper/pkg/paper"
)

// ErrEmpty is returned when uploading a page with no pixels.
var ErrEmpty = errors.New("texture: empty image")

// Texture is a GPU texture created from a paper page.
type Texture struct {
	ID         uint32
	Width      int
	Height     int
	Anisotropy float32
}

// InternalFormat returns the GL storage format for a color space.
// sRGB pages are decoded to linear by the sampler.
func InternalFormat(cs paper.ColorSpace) int32 {
	if cs == paper.SRGB {
		return gl.SRGB8_ALPHA8
	}
	return gl.RGBA8
}

// EffectiveAnisotropy clamps the requested filtering level to what the
// driver supports. Anything below 1 turns anisotropic filtering off.
func EffectiveAnisotropy(requested, supported float32) float32 {
	a := requested
	if supported > 0 && a > supported {
		a = supported
	}
	if a < 1 {
		a = 1
	}
	return a
}

// Upload creates a mipmapped texture from the page. maxAnisotropy is the
// driver limit, usually from the renderer.
func Upload(t *paper.Texture, maxAnisotropy float32) (*Texture, error) {
	if t == nil || t.Image == nil || len(t.Image.Pix) == 0 {
		return nil, ErrEmpty
	}

	img := t.Image
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	// Rows of an RGBA image can be padded when it is a sub-image.
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, InternalFormat(t.ColorSpace),
		int32(w), int32(h),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	aniso := EffectiveAnisotropy(float32(t.Anisotropy), maxAnisotropy)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, aniso)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &texID)
		return nil, fmt.Errorf("texture upload %dx%d: gl error 0x%x", w, h, e)
	}

	return &Texture{ID: texID, Width: w, Height: h, Anisotropy: aniso}, nil
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Delete releases the GPU texture.
func (t *Texture) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
