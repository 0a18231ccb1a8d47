package layout

import (
	"image/color"
	"strings"
)

// 该文件定义排版引擎共用的样式与几何类型。

// Style 是文本样式标志位的集合，可按位组合。
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underlined
	StrikeThrough
)

// Regular 表示不带任何样式标志。
const Regular Style = 0

// Has 判断 s 是否包含 flag 中的全部标志位。
func (s Style) Has(flag Style) bool { return s&flag == flag }

// String 返回形如 "bold|italic" 的描述，无标志时返回 "regular"。
func (s Style) String() string {
	if s == Regular {
		return "regular"
	}
	var parts []string
	for _, f := range []struct {
		flag Style
		name string
	}{{Bold, "bold"}, {Italic, "italic"}, {Underlined, "underlined"}, {StrikeThrough, "strikethrough"}} {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Outline 描述文字描边；Thickness <= 0 表示无描边。
type Outline struct {
	Color     color.RGBA
	Thickness float64
}

// Enabled 报告描边是否生效。
func (o Outline) Enabled() bool { return o.Thickness > 0 }

// Format 是追加文本时使用的逐段样式：颜色、样式标志与描边。
// 字体与字号是文档级属性，不在这里。
type Format struct {
	Color   color.RGBA
	Style   Style
	Outline Outline
}

// Size 是以像素为单位的宽高。
type Size struct {
	Width  float64
	Height float64
}

// Rect 是以像素为单位的矩形，Left/Top 为左上角。
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// IsEmpty 报告矩形是否没有面积。
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Font 是由调用方字体注册表持有的字体句柄，按身份比较（必须是可比较类型，通常为指针）。
type Font interface {
	Name() string
}
