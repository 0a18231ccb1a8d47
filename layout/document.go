package layout

import (
	"image/color"
	"math"
	"strings"

	"github.com/go-logr/logr"
	"github.com/tdewolff/canvas"
)

const (
	// DefaultCharacterSize 是未指定字号时的像素大小。
	DefaultCharacterSize = 30
	lineBreak            = "\n"
)

// DefaultColor 是未指定颜色时的文本颜色。
var DefaultColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Document 是多行富文本块：按行从上到下排列，行内 Run 从左到右排列。
//
// 追加文本与修改样式只会让几何缓存失效，实际的测量与定位推迟到
// LocalBounds/GlobalBounds/Draw 等查询时进行；缓存有效时查询不做任何计算。
// Document 不是并发安全的。
type Document struct {
	Transformable

	lines         []*Line
	font          Font
	characterSize int
	format        Format

	metrics Metrics
	log     logr.Logger
	geom    geometry

	warnedNoFont bool
}

// New 创建空文档，默认字号 30、白色、常规样式、无字体。
func New(opts ...Option) *Document {
	d := &Document{
		characterSize: DefaultCharacterSize,
		format:        Format{Color: DefaultColor},
		log:           logr.Discard(),
	}
	d.geom.reset()
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetColor 设置之后追加文本的颜色。
func (d *Document) SetColor(c color.RGBA) *Document {
	d.format.Color = c
	return d
}

// SetStyle 设置之后追加文本的样式标志。
func (d *Document) SetStyle(s Style) *Document {
	d.format.Style = s
	return d
}

// SetOutline 设置之后追加文本的描边，thickness <= 0 取消描边。
func (d *Document) SetOutline(c color.RGBA, thickness float64) *Document {
	if thickness <= 0 {
		d.format.Outline = Outline{}
		return d
	}
	d.format.Outline = Outline{Color: c, Thickness: thickness}
	return d
}

// SetFormat 一次性设置颜色、样式与描边。
func (d *Document) SetFormat(f Format) *Document {
	d.format = f
	return d
}

func (d *Document) Color() color.RGBA     { return d.format.Color }
func (d *Document) Style() Style          { return d.format.Style }
func (d *Document) Outline() Outline      { return d.format.Outline }
func (d *Document) CurrentFormat() Format { return d.format }
func (d *Document) Font() Font            { return d.font }
func (d *Document) CharacterSize() int    { return d.characterSize }

// Append 追加文本：第一段接在最后一行末尾，之后每个换行开启新行。
// 空字符串不做任何事。由换行产生的空行带一个空 Run 占位以保留行高，
// 下一次追加的第一段会取代这个占位 Run。
func (d *Document) Append(text string) *Document {
	if text == "" {
		return d
	}
	segments := splitLines(text)

	if len(d.lines) == 0 {
		d.lines = append(d.lines, d.newLine())
	}
	d.lines[len(d.lines)-1].extend(d.newRun(segments[0]))

	for _, seg := range segments[1:] {
		line := d.newLine()
		line.appendRun(d.newRun(seg))
		d.lines = append(d.lines, line)
	}
	d.geom.invalidate()
	return d
}

// SetCharacterSize 修改字号，同时作用于已有的全部 Run。字号不变时不做任何事。
func (d *Document) SetCharacterSize(n int) *Document {
	if d.characterSize == n {
		return d
	}
	d.characterSize = n
	for _, l := range d.lines {
		l.setCharacterSize(n)
	}
	d.geom.invalidate()
	d.log.V(1).Info("character size changed", "size", n, "lines", len(d.lines))
	return d
}

// SetFont 修改字体，同时作用于已有的全部 Run。同一句柄重复设置不做任何事。
func (d *Document) SetFont(f Font) *Document {
	if d.font == f {
		return d
	}
	d.font = f
	d.warnedNoFont = false
	for _, l := range d.lines {
		l.setFont(f)
	}
	d.geom.invalidate()
	if f != nil {
		d.log.V(1).Info("font changed", "font", f.Name(), "lines", len(d.lines))
	}
	return d
}

// Clear 删除全部行，保留当前样式、字体与字号。
func (d *Document) Clear() {
	for _, l := range d.lines {
		l.doc = nil
	}
	d.lines = nil
	d.geom.invalidate()
}

// Lines 返回全部行，返回前保证几何信息是最新的。
func (d *Document) Lines() []*Line {
	d.update()
	return append([]*Line(nil), d.lines...)
}

// LocalBounds 返回未经自身变换的包围盒：宽为最宽的行，高为各行高度之和。
func (d *Document) LocalBounds() Rect {
	s := d.update()
	return Rect{Width: s.Width, Height: s.Height}
}

// GlobalBounds 返回经自身变换后的包围盒。
func (d *Document) GlobalBounds() Rect {
	return transformRect(d.Transform(), d.LocalBounds())
}

// Draw 把 parent 与自身变换组合后，逐行逐段交给 target 绘制。
// 没有行或没有字体时不绘制。
func (d *Document) Draw(target Target, parent canvas.Matrix) {
	if target == nil || len(d.lines) == 0 {
		return
	}
	if d.font == nil {
		d.warnNoFont("draw")
		return
	}
	d.update()
	m := parent.Mul(d.Transform())
	for _, l := range d.lines {
		l.draw(target, m)
	}
}

func (d *Document) newLine() *Line {
	return &Line{doc: d}
}

func (d *Document) newRun(text string) *Run {
	return newRun(text, d.format, d.font, d.characterSize)
}

// update 在 stale 时依次为每行分配 y 偏移，累计高度并取最大宽度。
func (d *Document) update() Size {
	if s, ok := d.geom.cached(); ok {
		return s
	}
	if d.font == nil && len(d.lines) > 0 {
		d.warnNoFont("layout")
	}
	var s Size
	for _, l := range d.lines {
		l.y = s.Height
		ls := l.update(d.metrics)
		s.Height += ls.Height
		s.Width = math.Max(s.Width, ls.Width)
	}
	return d.geom.store(s)
}

func (d *Document) warnNoFont(op string) {
	if d.warnedNoFont {
		return
	}
	d.warnedNoFont = true
	d.log.V(1).Info("no font set, extents are zero", "op", op)
}

// splitLines 按换行符切分，丢弃换行符本身。
// 结尾的换行会产生一个空段，使下一次追加落在新的空行上：
// "a\n" → ["a", ""]，"\n" → ["", ""]。调用方保证 text 非空。
func splitLines(text string) []string {
	return strings.Split(text, lineBreak)
}
