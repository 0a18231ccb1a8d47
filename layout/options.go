package layout

import (
	"github.com/go-logr/logr"
	"github.com/tdewolff/canvas"
)

// Metrics 负责测量一段文本在给定字体、字号与样式下的宽高（像素）。
// 空文本应返回宽度 0、高度为字体的名义行高。
type Metrics interface {
	Measure(text string, font Font, size int, format Format) Size
}

// Target 是绘制后端，m 是已组合好的 像素坐标 → 目标坐标 变换。
type Target interface {
	DrawRun(run *Run, m canvas.Matrix)
}

// Option 配置 Document。
type Option func(*Document)

// WithFont 设置初始字体。
func WithFont(f Font) Option {
	return func(d *Document) { d.font = f }
}

// WithMetrics 设置测量后端；未设置时所有尺寸为 0。
func WithMetrics(m Metrics) Option {
	return func(d *Document) { d.metrics = m }
}

// WithCharacterSize 设置初始字号（像素）。
func WithCharacterSize(n int) Option {
	return func(d *Document) { d.characterSize = n }
}

// WithLogger 设置日志输出，降级事件以 V(1) 记录。
func WithLogger(l logr.Logger) Option {
	return func(d *Document) { d.log = l }
}
