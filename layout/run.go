package layout

import "github.com/tdewolff/canvas"

// Run 是一段样式一致、不含换行的文本。
// 创建后只有字体与字号会被 Document 的批量修改原地更新。
type Run struct {
	text   string
	format Format
	font   Font
	size   int

	line   *Line
	offset canvas.Point // 行内偏移，y 恒为 0
	extent geometry
}

func newRun(text string, format Format, font Font, size int) *Run {
	return &Run{text: text, format: format, font: font, size: size}
}

func (r *Run) Text() string       { return r.text }
func (r *Run) Format() Format     { return r.format }
func (r *Run) Font() Font         { return r.font }
func (r *Run) CharacterSize() int { return r.size }

// Offset 返回 Run 在所在行内的位置。
func (r *Run) Offset() canvas.Point {
	r.refresh()
	return r.offset
}

// Size 返回测量得到的宽高。
func (r *Run) Size() Size {
	r.refresh()
	s, _ := r.extent.cached()
	return s
}

// LocalBounds 返回以行内偏移为左上角的矩形。
func (r *Run) LocalBounds() Rect {
	s := r.Size()
	return Rect{Left: r.offset.X, Top: r.offset.Y, Width: s.Width, Height: s.Height}
}

func (r *Run) refresh() {
	if r.line != nil && r.line.doc != nil {
		r.line.doc.update()
	}
}

// setFont 与 setCharacterSize 让测量结果失效。
func (r *Run) setFont(f Font) {
	r.font = f
	r.extent.invalidate()
}

func (r *Run) setCharacterSize(n int) {
	r.size = n
	r.extent.invalidate()
}

// measure 只在缓存失效时调用 Metrics。缺少字体或测量后端时尺寸为 0。
func (r *Run) measure(m Metrics) Size {
	if s, ok := r.extent.cached(); ok {
		return s
	}
	if r.font == nil || m == nil {
		return r.extent.store(Size{})
	}
	return r.extent.store(m.Measure(r.text, r.font, r.size, r.format))
}
