package paper

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		dpi           int
		width, height int
	}{
		{dpi: 200, width: 1654, height: 2338},
		{dpi: 100, width: 827, height: 1169},
		{dpi: 72, width: 595, height: 842},
	}

	for _, tt := range tests {
		w, h := PageSize(tt.dpi)
		assert.Equal(t, tt.width, w, "width at %d dpi", tt.dpi)
		assert.Equal(t, tt.height, h, "height at %d dpi", tt.dpi)
	}
}

func TestLayoutFor(t *testing.T) {
	margin, fontSize, pitch := LayoutFor(200)
	assert.Equal(t, 120, margin)
	assert.Equal(t, 52, fontSize)
	assert.Equal(t, 76, pitch)
}

func TestRasterizeTwoLines(t *testing.T) {
	tex, err := Rasterize("A\nB", Options{DPI: 200, Rand: seeded(1)})
	require.NoError(t, err)

	assert.Equal(t, 1654, tex.Width())
	assert.Equal(t, 2338, tex.Height())
	assert.Equal(t, 120, tex.Layout.Margin)
	assert.Equal(t, 76, tex.Layout.Pitch)

	require.Len(t, tex.Layout.Lines, 2)
	assert.Equal(t, "A", tex.Layout.Lines[0].Text)
	assert.Equal(t, 120, tex.Layout.Lines[0].Top)
	assert.Equal(t, "B", tex.Layout.Lines[1].Text)
	assert.Equal(t, 196, tex.Layout.Lines[1].Top)
	assert.Greater(t, tex.Layout.Lines[0].Baseline, tex.Layout.Lines[0].Top)

	// Background away from text and guide stays within grain of #f7f7f4.
	px := tex.Image.RGBAAt(40, 40)
	assert.InDelta(t, 247, int(px.R), GrainAmplitude)
	assert.InDelta(t, 247, int(px.G), GrainAmplitude)
	assert.InDelta(t, 244, int(px.B), GrainAmplitude)
}

func TestRasterizeDefaultOptions(t *testing.T) {
	tex, err := RasterizeText("hello")
	require.NoError(t, err)

	assert.Equal(t, DefaultDPI, tex.DPI)
	assert.Equal(t, 1654, tex.Width())
	assert.Equal(t, 2338, tex.Height())
	assert.Equal(t, SRGB, tex.ColorSpace)
	assert.Equal(t, 8, tex.Anisotropy)
}

func TestRasterizeLineOffsets(t *testing.T) {
	text := "one\ntwo\n\nfour\nfive"
	tex, err := Rasterize(text, Options{DPI: 50, Rand: seeded(2)})
	require.NoError(t, err)

	margin, _, pitch := LayoutFor(50)
	require.Len(t, tex.Layout.Lines, 5)
	for i, line := range tex.Layout.Lines {
		assert.Equal(t, margin+i*pitch, line.Top, "line %d", i)
	}
	assert.Equal(t, "", tex.Layout.Lines[2].Text)
}

func TestRasterizeDrawsInk(t *testing.T) {
	tex, err := Rasterize("A\nB", Options{DPI: 200, Rand: seeded(3)})
	require.NoError(t, err)

	m := tex.Layout
	for _, line := range m.Lines {
		box := image.Rect(m.Margin, line.Top, m.Margin+m.FontSize, line.Top+m.Pitch)
		assert.Less(t, darkest(tex.Image, box), uint8(100), "no ink for line %q", line.Text)
	}

	// Nothing drawn below the last line.
	below := image.Rect(m.Margin+10, 400, 800, 600)
	assert.Greater(t, darkest(tex.Image, below), uint8(200))
}

func TestRasterizeGrainBounded(t *testing.T) {
	tex, err := Rasterize("", Options{DPI: 100, Rand: seeded(4)})
	require.NoError(t, err)

	margin, _, _ := LayoutFor(100)
	img := tex.Image
	for y := 0; y < margin-2; y++ {
		for x := 0; x < tex.Width(); x++ {
			px := img.RGBAAt(x, y)
			if !within(px.R, Background.R) || !within(px.G, Background.G) || !within(px.B, Background.B) {
				t.Fatalf("pixel (%d,%d) = %v outside grain range", x, y, px)
			}
			if px.A != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, px.A)
			}
		}
	}
}

func TestApplyGrainClamps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 2
		img.Pix[i+1] = 253
		img.Pix[i+2] = 128
		img.Pix[i+3] = 77
	}

	ApplyGrain(img, seeded(5))

	sawChange := false
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
		assert.LessOrEqual(t, r, uint8(7))
		assert.GreaterOrEqual(t, g, uint8(248))
		assert.InDelta(t, 128, int(b), GrainAmplitude)
		assert.Equal(t, uint8(77), a)
		if b != 128 {
			sawChange = true
		}
	}
	assert.True(t, sawChange, "grain left every pixel untouched")
}

func TestApplyGrainIsNeutral(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 100, 150, 200, 255
	}

	ApplyGrain(img, seeded(6))

	for i := 0; i < len(img.Pix); i += 4 {
		d := int(img.Pix[i]) - 100
		assert.Equal(t, d, int(img.Pix[i+1])-150)
		assert.Equal(t, d, int(img.Pix[i+2])-200)
	}
}

func TestRasterizeSeedReproducible(t *testing.T) {
	a, err := Rasterize("same\npage", Options{DPI: 40, Rand: seeded(9)})
	require.NoError(t, err)
	b, err := Rasterize("same\npage", Options{DPI: 40, Rand: seeded(9)})
	require.NoError(t, err)
	c, err := Rasterize("same\npage", Options{DPI: 40, Rand: seeded(10)})
	require.NoError(t, err)

	assert.Equal(t, a.Image.Pix, b.Image.Pix)
	assert.NotEqual(t, a.Image.Pix, c.Image.Pix)
}

func TestGuideStroke(t *testing.T) {
	tex, err := Rasterize("", Options{DPI: 200, Rand: seeded(6)})
	require.NoError(t, err)

	w, h := tex.Width(), tex.Height()
	margin := tex.Layout.Margin

	// 2px stroke centered on the rectangle edge.
	for _, p := range []image.Point{
		{margin - 1, 1000},
		{margin, 1000},
		{w - margin - 1, 1000},
		{w - margin, 1000},
		{800, margin},
		{800, h - margin},
	} {
		px := tex.Image.RGBAAt(p.X, p.Y)
		assert.Less(t, px.R, uint8(Background.R-GrainAmplitude), "expected guide at %v", p)
	}

	for _, p := range []image.Point{
		{margin - 2, 1000},
		{margin + 1, 1000},
		{w - margin + 1, 1000},
	} {
		px := tex.Image.RGBAAt(p.X, p.Y)
		assert.True(t, within(px.R, Background.R), "unexpected guide at %v: %v", p, px)
	}
}

func TestRasterizeErrors(t *testing.T) {
	_, err := Rasterize("x", Options{Font: []byte("not a font")})
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)

	_, err = Rasterize("x", Options{DPI: -1})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Rasterize("A", Options{DPI: 1 << 21})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestValidateDPI(t *testing.T) {
	tests := []struct {
		dpi int
		ok  bool
	}{
		{dpi: 1, ok: true},
		{dpi: DefaultDPI, ok: true},
		{dpi: 1000, ok: true},
		{dpi: 1200, ok: false},
		{dpi: 1 << 21, ok: false},
		{dpi: math.MaxInt, ok: false},
		{dpi: 0, ok: false},
		{dpi: -5, ok: false},
	}

	for _, tt := range tests {
		err := ValidateDPI(tt.dpi)
		if tt.ok {
			assert.NoError(t, err, "dpi %d", tt.dpi)
		} else {
			assert.ErrorIs(t, err, ErrInvalidOptions, "dpi %d", tt.dpi)
		}
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{""}},
		{name: "single", in: "page", want: []string{"page"}},
		{name: "crlf", in: "a\r\nb", want: []string{"a", "b"}},
		{name: "trailing newline", in: "a\n", want: []string{"a", ""}},
		{name: "nfc", in: "cafe\u0301", want: []string{"caf\u00e9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestEncodePNG(t *testing.T) {
	tex, err := Rasterize("png", Options{DPI: 20, Rand: seeded(7)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, tex))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, tex.Image.Bounds(), img.Bounds())
}

func TestSavePNG(t *testing.T) {
	tex, err := Rasterize("saved", Options{DPI: 20, Rand: seeded(8)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "page.png")
	require.NoError(t, SavePNG(path, tex))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, tex.Image.Bounds(), img.Bounds())

	// A directory in the way is reported, not ignored.
	assert.Error(t, SavePNG(filepath.Dir(path), tex))
}

func within(got, base uint8) bool {
	d := int(got) - int(base)
	return d >= -GrainAmplitude && d <= GrainAmplitude
}

func darkest(img *image.RGBA, r image.Rectangle) uint8 {
	lo := uint8(255)
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if v := img.RGBAAt(x, y).R; v < lo {
				lo = v
			}
		}
	}
	return lo
}
