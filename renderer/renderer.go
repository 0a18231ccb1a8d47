package renderer

import (
	"image/color"

	"github.com/ByLCY/richtext/layout"
)

// Format 是输出文件格式。
type Format string

const (
	PDF Format = "pdf"
	PNG Format = "png"
)

// Options 控制输出画布。Padding 为文档四周留白（px），DPI 仅用于位图输出。
type Options struct {
	Format     Format
	Padding    float64
	Background color.RGBA
	DPI        float64
}

// Renderer 将排好的文档输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(doc *layout.Document, opts Options) ([]byte, error)
}
