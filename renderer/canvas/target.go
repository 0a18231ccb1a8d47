package canvasrenderer

import (
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/richtext/layout"
)

// 描边以 8 个方向的偏移副本近似。
var outlineDirections = [8][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// target 实现 layout.Target，把 Run 画到 canvas.Context 上。
type target struct {
	r   *Renderer
	ctx *canvas.Context
}

// DrawRun 的 m 以 px 为单位，把 Run 的左上角映射到画布；这里换算成 mm 后压入视图。
func (t *target) DrawRun(run *layout.Run, m canvas.Matrix) {
	if run.Text() == "" {
		return
	}
	format := run.Format()
	face, err := t.r.face(run.Font(), run.CharacterSize(), format.Style, format.Color)
	if err != nil {
		t.r.log.V(1).Info("跳过无法绘制的文本", "text", run.Text(), "error", err.Error())
		return
	}

	k := px(1).ToMM()
	view := canvas.Identity.Scale(k, k).Mul(m).Scale(1/k, 1/k)
	t.ctx.Push()
	defer t.ctx.Pop()
	t.ctx.ComposeView(view)

	pad := format.Outline.Thickness * k
	if !format.Outline.Enabled() {
		pad = 0
	}
	metrics := face.Metrics()
	x := pad
	baseline := pad + metrics.Ascent

	if format.Outline.Enabled() {
		stroke, err := t.r.face(run.Font(), run.CharacterSize(), format.Style, format.Outline.Color)
		if err != nil {
			return
		}
		line := canvas.NewTextLine(stroke, run.Text(), canvas.Left)
		for _, d := range outlineDirections {
			t.ctx.DrawText(x+d[0]*pad, baseline+d[1]*pad, line)
		}
	}
	t.ctx.DrawText(x, baseline, canvas.NewTextLine(face, run.Text(), canvas.Left))

	width := face.TextWidth(run.Text())
	rule := metrics.LineHeight * 0.05
	if format.Style.Has(layout.Underlined) {
		t.decorate(x, baseline+2*rule, width, rule, format.Color)
	}
	if format.Style.Has(layout.StrikeThrough) {
		t.decorate(x, baseline-metrics.Ascent*0.3, width, rule, format.Color)
	}
}

func (t *target) decorate(x, y, width, thickness float64, col color.RGBA) {
	t.ctx.SetFillColor(col)
	t.ctx.SetStrokeColor(color.RGBA{})
	t.ctx.DrawPath(x, y, canvas.Rectangle(width, thickness))
}
