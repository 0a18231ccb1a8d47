package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"

	"github.com/go-logr/logr"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/renderer"
)

// ErrEmptyDocument 表示文档没有任何可绘制的行。
var ErrEmptyDocument = errors.New("canvasrenderer: 文档为空")

const defaultDPI = 96

// Renderer 使用 github.com/tdewolff/canvas 测量并绘制文档。
// 布局单位为 px；canvas 内部使用 mm，字号使用 pt，在边界处换算。
type Renderer struct {
	fonts *Fonts
	log   logr.Logger
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Metrics    = (*Renderer)(nil)
)

// NewRenderer 创建渲染器，fonts 为空时使用以当前目录为根的新注册表。
func NewRenderer(fonts *Fonts, log logr.Logger) *Renderer {
	if fonts == nil {
		fonts = NewFonts(".")
	}
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Renderer{fonts: fonts, log: log}
}

// Fonts 返回渲染器使用的字体注册表。
func (r *Renderer) Fonts() *Fonts { return r.fonts }

// Measure 实现 layout.Metrics。空文本返回零宽度与该字号的行高；
// 描边在四周各占 Thickness。
func (r *Renderer) Measure(text string, font layout.Font, size int, format layout.Format) layout.Size {
	face, err := r.face(font, size, format.Style, format.Color)
	if err != nil {
		r.log.V(1).Info("无法测量文本", "font", fontName(font), "error", err.Error())
		return layout.Size{}
	}
	s := layout.Size{
		Width:  mm(face.TextWidth(text)).ToPX(),
		Height: mm(face.Metrics().LineHeight).ToPX(),
	}
	if format.Outline.Enabled() {
		s.Width += 2 * format.Outline.Thickness
		s.Height += 2 * format.Outline.Thickness
	}
	return s
}

// Render 把文档绘制到刚好容纳其全局边界（加留白）的画布上，输出 PDF 或 PNG。
func (r *Renderer) Render(doc *layout.Document, opts renderer.Options) ([]byte, error) {
	if doc == nil || len(doc.Lines()) == 0 {
		return nil, ErrEmptyDocument
	}
	bounds := doc.GlobalBounds()
	width := px(bounds.Width + 2*opts.Padding).ToMM()
	height := px(bounds.Height + 2*opts.Padding).ToMM()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyDocument
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	if opts.Background.A > 0 {
		ctx.SetFillColor(opts.Background)
		ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
	}

	parent := canvas.Identity.Translate(opts.Padding-bounds.Left, opts.Padding-bounds.Top)
	doc.Draw(&target{r: r, ctx: ctx}, parent)

	var buf bytes.Buffer
	switch opts.Format {
	case renderer.PNG:
		dpi := opts.DPI
		if dpi <= 0 {
			dpi = defaultDPI
		}
		img := rasterizer.Draw(c, canvas.DPI(dpi), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("编码 PNG 失败: %w", err)
		}
	case renderer.PDF, "":
		writer := pdf.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.Format)
	}
	return buf.Bytes(), nil
}

// face 以 pt 为单位创建字体面；size 为 px。
func (r *Renderer) face(font layout.Font, size int, style layout.Style, col color.Color) (*canvas.FontFace, error) {
	f, ok := font.(*Font)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFont, fontName(font))
	}
	if f == nil {
		return nil, ErrUnknownFont
	}
	return f.family.Face(px(float64(size)).ToPT(), col, fontStyle(style), canvas.FontNormal), nil
}

func px(v float64) layout.Length { return layout.Length{Value: v, Unit: layout.UnitPX} }
func mm(v float64) layout.Length { return layout.Length{Value: v, Unit: layout.UnitMM} }

func fontName(font layout.Font) string {
	if font == nil {
		return "<nil>"
	}
	return font.Name()
}
