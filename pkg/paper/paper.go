// Package paper rasterizes text onto an A4 page image used as a surface texture.
package paper

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// A4 page size in inches.
const (
	WidthInches  = 8.27
	HeightInches = 11.69
)

// Defaults for Rasterize.
const (
	DefaultDPI        = 200
	DefaultAnisotropy = 8
)

// MaxPageBytes caps the RGBA pixel buffer of one page (about 1000 DPI).
const MaxPageBytes = 512 << 20

// Layout ratios, all relative to DPI.
const (
	marginRatio   = 0.6
	fontSizeRatio = 0.26
	pitchRatio    = 0.38
	guideWidth    = 2
)

var (
	// ErrSurfaceUnavailable is returned when text cannot be drawn at all
	// (no usable font face).
	ErrSurfaceUnavailable = errors.New("paper: rendering surface unavailable")

	// ErrInvalidOptions is returned for options that cannot produce a page.
	ErrInvalidOptions = errors.New("paper: invalid options")
)

// Page colors.
var (
	Background = color.RGBA{R: 0xf7, G: 0xf7, B: 0xf4, A: 0xff}
	Ink        = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	Guide      = color.NRGBA{R: 0, G: 0, B: 0, A: 20} // 8% black
)

// ColorSpace tells the uploader how to interpret the pixel values.
type ColorSpace int

const (
	Linear ColorSpace = iota
	SRGB
)

func (c ColorSpace) String() string {
	if c == SRGB {
		return "srgb"
	}
	return "linear"
}

// Line is one drawn line of text.
type Line struct {
	Text     string
	Top      int // y of the em box top
	Baseline int // y the glyphs sit on
}

// Layout describes where text was placed on the page.
type Layout struct {
	Margin   int
	FontSize int
	Pitch    int
	Lines    []Line
}

// Texture is a rasterized page. It is not modified after Rasterize returns.
type Texture struct {
	Image      *image.RGBA
	DPI        int
	ColorSpace ColorSpace
	Anisotropy int
	Layout     Layout
}

// Width returns the page width in pixels.
func (t *Texture) Width() int { return t.Image.Bounds().Dx() }

// Height returns the page height in pixels.
func (t *Texture) Height() int { return t.Image.Bounds().Dy() }

// Options control rasterization.
type Options struct {
	// DPI sets the page resolution. Zero means DefaultDPI.
	DPI int

	// Rand drives the paper grain. Nil uses a fresh unseeded source,
	// so two pages never match bit for bit.
	Rand *rand.Rand

	// Font is TTF/OTF data. Nil uses Go Regular.
	Font []byte
}

// PageSize returns the canvas size for the given DPI.
func PageSize(dpi int) (width, height int) {
	return round(WidthInches * float64(dpi)), round(HeightInches * float64(dpi))
}

// ValidateDPI rejects resolutions that are not positive or whose page
// would not fit in MaxPageBytes.
func ValidateDPI(dpi int) error {
	if dpi <= 0 {
		return fmt.Errorf("%w: dpi %d must be positive", ErrInvalidOptions, dpi)
	}
	d := float64(dpi)
	if size := WidthInches * d * HeightInches * d * 4; size > MaxPageBytes {
		return fmt.Errorf("%w: dpi %d needs %.0f MB, limit is %d MB", ErrInvalidOptions, dpi, size/(1<<20), MaxPageBytes>>20)
	}
	return nil
}

// LayoutFor returns margin, font size and line pitch for the given DPI.
func LayoutFor(dpi int) (margin, fontSize, pitch int) {
	d := float64(dpi)
	return round(d * marginRatio), round(d * fontSizeRatio), round(d * pitchRatio)
}

// RasterizeText renders text with default options.
func RasterizeText(text string) (*Texture, error) {
	return Rasterize(text, Options{})
}

// Rasterize renders text onto a grained off-white A4 page.
// Lines are split on '\n' and never wrapped; anything past the right edge
// is clipped.
func Rasterize(text string, opts Options) (*Texture, error) {
	dpi := opts.DPI
	if dpi == 0 {
		dpi = DefaultDPI
	}
	if err := ValidateDPI(dpi); err != nil {
		return nil, err
	}

	margin, fontSize, pitch := LayoutFor(dpi)

	face, err := newFace(opts.Font, fontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	w, h := PageSize(dpi)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ApplyGrain(img, rng)

	layout := Layout{Margin: margin, FontSize: fontSize, Pitch: pitch}
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Ink),
		Face: face,
	}
	for i, line := range SplitLines(text) {
		top := margin + i*pitch
		baseline := top + ascent
		d.Dot = fixed.P(margin, baseline)
		d.DrawString(line)
		layout.Lines = append(layout.Lines, Line{Text: line, Top: top, Baseline: baseline})
	}

	strokeGuide(img, margin)

	return &Texture{
		Image:      img,
		DPI:        dpi,
		ColorSpace: SRGB,
		Anisotropy: DefaultAnisotropy,
		Layout:     layout,
	}, nil
}

// SplitLines normalizes text to NFC and splits it into lines.
// An empty string is one empty line.
func SplitLines(text string) []string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// strokeGuide draws the faint border inset by margin. The stroke is
// centered on the rectangle path, guideWidth pixels wide.
func strokeGuide(img *image.RGBA, margin int) {
	b := img.Bounds()
	half := guideWidth / 2
	outer := image.Rect(margin-half, margin-half, b.Dx()-margin+half, b.Dy()-margin+half)
	inner := outer.Inset(guideWidth)

	mask := image.NewAlpha(b)
	draw.Draw(mask, outer, image.Opaque, image.Point{}, draw.Src)
	if !inner.Empty() {
		draw.Draw(mask, inner, image.Transparent, image.Point{}, draw.Src)
	}
	draw.DrawMask(img, b, image.NewUniform(Guide), image.Point{}, mask, b.Min, draw.Over)
}

var parseDefaultFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

func newFace(data []byte, size int) (font.Face, error) {
	var (
		f   *opentype.Font
		err error
	)
	if data == nil {
		f, err = parseDefaultFont()
	} else {
		f, err = opentype.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing font: %v", ErrSurfaceUnavailable, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72, // size is already in pixels
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating face: %v", ErrSurfaceUnavailable, err)
	}
	return face, nil
}

// round matches JavaScript Math.round for the positive values used here.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
