package markup

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// parseHex 解析 #rgb、#rgba、#rrggbb、#rrggbbaa 四种写法。
// 字面量是非预乘的，结果按 color.RGBA 的约定预乘 alpha。
func parseHex(value string) (color.RGBA, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 || len(hex) == 4 {
		var long strings.Builder
		for _, ch := range hex {
			long.WriteRune(ch)
			long.WriteRune(ch)
		}
		hex = long.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	c := color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

// resolveColor 依次查找自定义调色板、SVG 颜色名与十六进制字面量。
func resolveColor(value string, palette map[string]color.RGBA) (color.RGBA, error) {
	value = strings.TrimSpace(value)
	if c, ok := palette[value]; ok {
		return c, nil
	}
	if strings.HasPrefix(value, "#") {
		return parseHex(value)
	}
	if c, ok := colornames.Map[strings.ToLower(value)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("未知颜色 %q", value)
}

// isColor 报告 value 能否被解析为颜色，供 text 命令区分修饰符类型。
func isColor(value string, palette map[string]color.RGBA) bool {
	_, err := resolveColor(value, palette)
	return err == nil
}

// ParseColor 解析 SVG 颜色名或十六进制颜色，供配置等外部输入使用。
func ParseColor(value string) (color.RGBA, error) {
	return resolveColor(value, nil)
}
