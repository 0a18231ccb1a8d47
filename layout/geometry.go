package layout

import (
	"math"

	"github.com/tdewolff/canvas"
)

// geometry 是 Run/Line/Document 共用的尺寸缓存。
// 零值为 stale；store 之后为 fresh(size)，直到下一次 invalidate。
type geometry struct {
	size  Size
	fresh bool
}

func (g *geometry) invalidate() { g.fresh = false }

// cached 在 fresh 时返回缓存值。
func (g *geometry) cached() (Size, bool) { return g.size, g.fresh }

func (g *geometry) store(s Size) Size {
	g.size = s
	g.fresh = true
	return s
}

// reset 丢弃内容后把缓存置为 fresh(0, 0)。
func (g *geometry) reset() { g.store(Size{}) }

// Transformable 保存位置、旋转、缩放与原点，组合成一个仿射矩阵。
// 布局本身不读取它，只在 GlobalBounds 与 Draw 中使用。
type Transformable struct {
	position canvas.Point
	origin   canvas.Point
	rotation float64 // 度
	scale    canvas.Point
	scaleSet bool
}

func (t *Transformable) SetPosition(x, y float64) { t.position = canvas.Point{X: x, Y: y} }
func (t *Transformable) Position() canvas.Point   { return t.position }

// Move 在当前位置基础上平移。
func (t *Transformable) Move(dx, dy float64) {
	t.position = canvas.Point{X: t.position.X + dx, Y: t.position.Y + dy}
}

func (t *Transformable) SetOrigin(x, y float64) { t.origin = canvas.Point{X: x, Y: y} }
func (t *Transformable) Origin() canvas.Point   { return t.origin }

// SetRotation 设置旋转角度（度），结果归一化到 [0, 360)。
func (t *Transformable) SetRotation(deg float64) {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	t.rotation = deg
}

func (t *Transformable) Rotation() float64 { return t.rotation }

func (t *Transformable) SetScale(sx, sy float64) {
	t.scale = canvas.Point{X: sx, Y: sy}
	t.scaleSet = true
}

// Scale 返回缩放系数，未设置时为 (1, 1)。
func (t *Transformable) Scale() canvas.Point {
	if !t.scaleSet {
		return canvas.Point{X: 1, Y: 1}
	}
	return t.scale
}

// Transform 返回 平移(position)·旋转·缩放·平移(-origin)。
func (t *Transformable) Transform() canvas.Matrix {
	s := t.Scale()
	return canvas.Identity.
		Translate(t.position.X, t.position.Y).
		Rotate(t.rotation).
		Scale(s.X, s.Y).
		Translate(-t.origin.X, -t.origin.Y)
}

// transformRect 返回 r 的四个角经 m 变换后的轴对齐包围盒。
func transformRect(m canvas.Matrix, r Rect) Rect {
	corners := [4]canvas.Point{
		{X: r.Left, Y: r.Top},
		{X: r.Left + r.Width, Y: r.Top},
		{X: r.Left, Y: r.Top + r.Height},
		{X: r.Left + r.Width, Y: r.Top + r.Height},
	}
	p := m.Dot(corners[0])
	minX, maxX, minY, maxY := p.X, p.X, p.Y, p.Y
	for _, c := range corners[1:] {
		p = m.Dot(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
