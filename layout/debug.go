package layout

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentSnapshot 是文档布局结果的只读快照，供调试输出与测试比对。
type DocumentSnapshot struct {
	Font          string         `json:"font" yaml:"font"`
	CharacterSize int            `json:"characterSize" yaml:"characterSize"`
	Width         float64        `json:"width" yaml:"width"`
	Height        float64        `json:"height" yaml:"height"`
	Lines         []LineSnapshot `json:"lines" yaml:"lines"`
}

// LineSnapshot 记录一行的位置与尺寸。
type LineSnapshot struct {
	Y      float64       `json:"y" yaml:"y"`
	Width  float64       `json:"width" yaml:"width"`
	Height float64       `json:"height" yaml:"height"`
	Runs   []RunSnapshot `json:"runs" yaml:"runs"`
}

// RunSnapshot 记录一个 Run 的内容、样式与行内位置。
type RunSnapshot struct {
	Text    string           `json:"text" yaml:"text"`
	Color   string           `json:"color" yaml:"color"`
	Style   string           `json:"style" yaml:"style"`
	Outline *OutlineSnapshot `json:"outline,omitempty" yaml:"outline,omitempty"`
	X       float64          `json:"x" yaml:"x"`
	Width   float64          `json:"width" yaml:"width"`
	Height  float64          `json:"height" yaml:"height"`
}

// OutlineSnapshot 仅在描边生效时输出。
type OutlineSnapshot struct {
	Color     string  `json:"color" yaml:"color"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
}

// Snapshot 在保证几何信息最新之后导出文档结构。
func Snapshot(d *Document) DocumentSnapshot {
	if d == nil {
		return DocumentSnapshot{}
	}
	bounds := d.LocalBounds()
	snap := DocumentSnapshot{
		CharacterSize: d.characterSize,
		Width:         bounds.Width,
		Height:        bounds.Height,
		Lines:         make([]LineSnapshot, 0, len(d.lines)),
	}
	if d.font != nil {
		snap.Font = d.font.Name()
	}
	for _, l := range d.lines {
		ls, _ := l.geom.cached()
		line := LineSnapshot{Y: l.y, Width: ls.Width, Height: ls.Height}
		for _, r := range l.runs {
			rs, _ := r.extent.cached()
			run := RunSnapshot{
				Text:   r.text,
				Color:  hexColor(r.format.Color),
				Style:  r.format.Style.String(),
				X:      r.offset.X,
				Width:  rs.Width,
				Height: rs.Height,
			}
			if r.format.Outline.Enabled() {
				run.Outline = &OutlineSnapshot{
					Color:     hexColor(r.format.Outline.Color),
					Thickness: r.format.Outline.Thickness,
				}
			}
			line.Runs = append(line.Runs, run)
		}
		snap.Lines = append(snap.Lines, line)
	}
	return snap
}

// WriteDebug 将布局快照写入 path，扩展名为 .yaml/.yml 时输出 YAML，否则输出 JSON。
func WriteDebug(d *Document, path string) error {
	if d == nil {
		return nil
	}
	snap := Snapshot(d)
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(snap)
	default:
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("序列化布局快照失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
