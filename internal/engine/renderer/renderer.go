// Package renderer owns the GL state for the scene: startup capability
// check, per-frame clear, viewport and framebuffer read-back.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/mobius-paper/internal/logger"
)

// ErrUnsupported is returned when the GL context cannot run the scene.
var ErrUnsupported = errors.New("renderer: unsupported OpenGL context")

// Minimum context version.
const (
	MinMajor = 4
	MinMinor = 1
)

var anisotropyExtensions = []string{
	"GL_ARB_texture_filter_anisotropic",
	"GL_EXT_texture_filter_anisotropic",
}

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	MSAA       bool
}

// Caps describes what the driver offers.
type Caps struct {
	Major, Minor  int
	Version       string
	Renderer      string
	MaxAnisotropy float32 // 1 when anisotropic filtering is unavailable
}

// Renderer handles frame setup for the paper scene.
type Renderer struct {
	config Config
	caps   Caps
	log    *zap.Logger
}

// New initializes GL function pointers and checks the context.
// Must be called after the GL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	r.caps = Caps{
		Major:         int(major),
		Minor:         int(minor),
		Version:       gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer:      gl.GoStr(gl.GetString(gl.RENDERER)),
		MaxAnisotropy: 1,
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", r.caps.Version),
		zap.String("renderer", r.caps.Renderer),
	)

	if err := CheckVersion(r.caps.Major, r.caps.Minor); err != nil {
		return nil, err
	}

	if HasAnyExtension(extensions(), anisotropyExtensions...) {
		gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &r.caps.MaxAnisotropy)
	} else {
		r.log.Warn("anisotropic filtering unavailable, page text will blur at grazing angles")
	}
	r.log.Debug("capabilities", zap.Float32("maxAnisotropy", r.caps.MaxAnisotropy))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// The strip is seen from both sides.
	gl.Disable(gl.CULL_FACE)
	// Shaders write linear color; the framebuffer encodes to sRGB.
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}

	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// CheckVersion reports ErrUnsupported for contexts older than 4.1.
func CheckVersion(major, minor int) error {
	if major > MinMajor || (major == MinMajor && minor >= MinMinor) {
		return nil
	}
	return fmt.Errorf("%w: have %d.%d, need %d.%d", ErrUnsupported, major, minor, MinMajor, MinMinor)
}

// HasAnyExtension reports whether any of want is in the extension list.
func HasAnyExtension(have []string, want ...string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

func extensions() []string {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	exts := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		exts = append(exts, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))))
	}
	return exts
}

// Caps returns the capabilities found at startup.
func (r *Renderer) Caps() Caps {
	return r.caps
}

// Close releases renderer state.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
}

// Resize handles window resize. Sizes are in drawable pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.Flush()
}

// ReadPixels copies the back buffer into a top-down RGBA image.
func (r *Renderer) ReadPixels() *image.RGBA {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return FlipRows(pixels, w, h)
}

// FlipRows turns bottom-up GL rows into an image with origin top-left.
func FlipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img
}
