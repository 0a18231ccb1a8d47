package layout

import (
	"math"

	"github.com/tdewolff/canvas"
)

// Line 是从左到右排列的一组 Run。
// 宽度为各 Run 宽度之和，高度为最高的 Run。
type Line struct {
	runs []*Run
	doc  *Document
	y    float64 // 相对文档顶部，等于之前所有行的高度之和
	geom geometry
}

func (l *Line) appendRun(r *Run) {
	r.line = l
	l.runs = append(l.runs, r)
	l.geom.invalidate()
}

// extend 把一段文本接到行尾。行内只有一个空 Run 时由 r 取代它；
// 行内已有内容时忽略空段。
func (l *Line) extend(r *Run) {
	switch {
	case l.placeholder():
		if r.text == "" {
			return
		}
		l.runs[0].line = nil
		l.runs = l.runs[:0]
	case r.text == "" && len(l.runs) > 0:
		return
	}
	l.appendRun(r)
}

func (l *Line) placeholder() bool {
	return len(l.runs) == 1 && l.runs[0].text == ""
}

// Runs 返回行内的 Run，按阅读顺序。
func (l *Line) Runs() []*Run {
	l.refresh()
	return append([]*Run(nil), l.runs...)
}

// Position 返回行在文档内的位置，x 恒为 0。
func (l *Line) Position() canvas.Point {
	l.refresh()
	return canvas.Point{X: 0, Y: l.y}
}

// Transform 返回行相对文档的平移。
func (l *Line) Transform() canvas.Matrix {
	l.refresh()
	return canvas.Identity.Translate(0, l.y)
}

func (l *Line) LocalBounds() Rect {
	l.refresh()
	s, _ := l.geom.cached()
	return Rect{Width: s.Width, Height: s.Height}
}

// GlobalBounds 返回行在文档坐标中的矩形。
func (l *Line) GlobalBounds() Rect {
	return transformRect(l.Transform(), l.LocalBounds())
}

func (l *Line) refresh() {
	if l.doc != nil {
		l.doc.update()
	}
}

func (l *Line) setFont(f Font) {
	for _, r := range l.runs {
		r.setFont(f)
	}
	l.geom.invalidate()
}

func (l *Line) setCharacterSize(n int) {
	for _, r := range l.runs {
		r.setCharacterSize(n)
	}
	l.geom.invalidate()
}

// update 在 stale 时依次为每个 Run 分配 x 偏移并累计宽度，取最大高度。
func (l *Line) update(m Metrics) Size {
	if s, ok := l.geom.cached(); ok {
		return s
	}
	var s Size
	for _, r := range l.runs {
		r.offset = canvas.Point{X: s.Width}
		rs := r.measure(m)
		s.Width += rs.Width
		s.Height = math.Max(s.Height, rs.Height)
	}
	return l.geom.store(s)
}

func (l *Line) draw(target Target, parent canvas.Matrix) {
	m := parent.Translate(0, l.y)
	for _, r := range l.runs {
		target.DrawRun(r, m.Translate(r.offset.X, r.offset.Y))
	}
}
