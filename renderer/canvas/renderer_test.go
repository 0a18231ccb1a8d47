package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/richtext/fonts"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/renderer"
)

func newTestRenderer(t *testing.T) (*Renderer, *Font) {
	t.Helper()
	r := NewRenderer(NewFonts("."), logr.Discard())
	font, err := r.Fonts().Default()
	require.NoError(t, err)
	return r, font
}

func TestFontsCacheBySource(t *testing.T) {
	fs := NewFonts(".")
	a, err := fs.LoadFont("Body", "builtin:go")
	require.NoError(t, err)
	b, err := fs.LoadFont("Title", "builtin:go")
	require.NoError(t, err)
	assert.Same(t, a, b, "同一来源应复用字体族")

	got, ok := fs.Lookup("Title")
	require.True(t, ok)
	assert.Equal(t, "builtin:go", got.Src())
}

func TestFontsUnknownSources(t *testing.T) {
	fs := NewFonts(t.TempDir())
	_, err := fs.LoadFont("X", "builtin:nonexistent")
	assert.ErrorIs(t, err, ErrUnknownFont)

	_, err = fs.LoadFont("Y", filepath.Join("fonts", "missing.ttf"))
	assert.ErrorIs(t, err, ErrUnknownFont)
}

func TestMeasure(t *testing.T) {
	r, font := newTestRenderer(t)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	regular := layout.Format{Color: white}

	one := r.Measure("a", font, 30, regular)
	two := r.Measure("ab", font, 30, regular)
	require.Greater(t, one.Width, 0.0)
	require.Greater(t, one.Height, 0.0)
	assert.Greater(t, two.Width, one.Width)
	assert.InDelta(t, one.Height, two.Height, 1e-9)

	empty := r.Measure("", font, 30, regular)
	assert.Zero(t, empty.Width)
	assert.InDelta(t, one.Height, empty.Height, 1e-9, "空文本保留行高")

	bigger := r.Measure("a", font, 60, regular)
	assert.InDelta(t, 2*one.Width, bigger.Width, 1e-6)

	outlined := regular
	outlined.Outline = layout.Outline{Color: white, Thickness: 3}
	padded := r.Measure("a", font, 30, outlined)
	assert.InDelta(t, one.Width+6, padded.Width, 1e-9)
	assert.InDelta(t, one.Height+6, padded.Height, 1e-9)

	bold := regular
	bold.Style = layout.Bold
	assert.NotEqual(t, r.Measure("mmmm", font, 30, regular).Width, r.Measure("mmmm", font, 30, bold).Width)
}

type foreignFont struct{}

func (foreignFont) Name() string { return "foreign" }

func TestMeasureForeignFontDegrades(t *testing.T) {
	r, _ := newTestRenderer(t)
	assert.Equal(t, layout.Size{}, r.Measure("abc", foreignFont{}, 30, layout.Format{}))
}

func newRenderedDocument(t *testing.T) (*Renderer, *layout.Document) {
	t.Helper()
	r, font := newTestRenderer(t)
	doc := layout.New(layout.WithFont(font), layout.WithMetrics(r))
	doc.SetStyle(layout.Bold).SetColor(color.RGBA{G: 255, B: 255, A: 255}).Append("This ")
	doc.SetStyle(layout.Italic | layout.Underlined).SetColor(color.RGBA{R: 255, G: 255, B: 255, A: 255}).Append("is\ncool\n")
	doc.SetStyle(layout.StrikeThrough).SetOutline(color.RGBA{A: 255}, 2).Append("mate\n")
	doc.SetStyle(layout.Regular).SetOutline(color.RGBA{}, 0).Append("Hello $ stranger, gjpqy_{}@#%&~")
	return r, doc
}

func TestRenderPDF(t *testing.T) {
	r, doc := newRenderedDocument(t)
	data, err := r.Render(doc, renderer.Options{Format: renderer.PDF, Padding: 10})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "输出应为 PDF")
}

func TestRenderPNGMatchesBounds(t *testing.T) {
	r, doc := newRenderedDocument(t)
	doc.SetRotation(30)
	const pad = 8
	data, err := r.Render(doc, renderer.Options{
		Format:     renderer.PNG,
		Padding:    pad,
		Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
		DPI:        96,
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := doc.GlobalBounds()
	size := img.Bounds().Size()
	assert.LessOrEqual(t, math.Abs(float64(size.X)-(bounds.Width+2*pad)), 2.0)
	assert.LessOrEqual(t, math.Abs(float64(size.Y)-(bounds.Height+2*pad)), 2.0)
}

func TestRenderRejectsEmptyAndUnknownFormat(t *testing.T) {
	r, font := newTestRenderer(t)
	_, err := r.Render(nil, renderer.Options{})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	empty := layout.New(layout.WithFont(font), layout.WithMetrics(r))
	_, err = r.Render(empty, renderer.Options{})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	doc := layout.New(layout.WithFont(font), layout.WithMetrics(r)).Append("x")
	_, err = r.Render(doc, renderer.Options{Format: "gif"})
	assert.Error(t, err)
}

// TestRenderPNGPrintableASCII 对每个内置字体族的每种字形，把可打印 ASCII
// 字符逐个光栅化为 PNG。
func TestRenderPNGPrintableASCII(t *testing.T) {
	r := NewRenderer(NewFonts("."), logr.Discard())
	styles := []layout.Style{layout.Regular, layout.Bold, layout.Italic, layout.Bold | layout.Italic}
	for _, name := range fonts.Names() {
		font, err := r.Fonts().LoadFont(name, fonts.Prefix+name)
		require.NoError(t, err)
		for _, style := range styles {
			for c := rune(0x21); c <= 0x7e; c++ {
				doc := layout.New(layout.WithFont(font), layout.WithMetrics(r), layout.WithCharacterSize(16))
				doc.SetStyle(style).Append(string(c))
				var data []byte
				require.NotPanics(t, func() {
					data, err = r.Render(doc, renderer.Options{Format: renderer.PNG, Padding: 2})
				}, fmt.Sprintf("%s/%s %q", name, style, c))
				require.NoError(t, err, "%s/%s %q", name, style, c)
				_, err = png.Decode(bytes.NewReader(data))
				require.NoError(t, err)
			}
		}
	}
}
