package markup

import (
	"fmt"
	"strings"

	"github.com/ByLCY/richtext/layout"
)

// namedStyle 是 style 定义块中的原始属性，extends 在 resolveStyles 中展开。
type namedStyle struct {
	Name    string
	Extends string
	Props   map[string]string
}

func resolveStyles(styles map[string]namedStyle) (map[string]namedStyle, error) {
	resolved := map[string]namedStyle{}
	visiting := map[string]bool{}

	var dfs func(name string) (namedStyle, error)
	dfs = func(name string) (namedStyle, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return namedStyle{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return namedStyle{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return namedStyle{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

var styleFlags = map[string]layout.Style{
	"regular":        layout.Regular,
	"bold":           layout.Bold,
	"italic":         layout.Italic,
	"underline":      layout.Underlined,
	"underlined":     layout.Underlined,
	"strikethrough":  layout.StrikeThrough,
	"strike-through": layout.StrikeThrough,
}

// styleFlag 识别单个样式关键字。
func styleFlag(word string) (layout.Style, bool) {
	s, ok := styleFlags[strings.ToLower(word)]
	return s, ok
}

// parseStyle 解析 "bold italic" 或 "bold|italic"，regular 单独出现时清空样式。
func parseStyle(value string) (layout.Style, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '|' || r == ','
	})
	var out layout.Style
	for _, f := range fields {
		s, ok := styleFlag(f)
		if !ok {
			return 0, fmt.Errorf("未知样式 %q", f)
		}
		out |= s
	}
	return out, nil
}
