package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// Prefix 标记内置字体来源，例如 "builtin:go"。
const Prefix = "builtin:"

// Default 是未指定字体时使用的内置字体族。
const Default = "go"

// Variant 对应字体族中的一个字重/字形。
type Variant int

const (
	Regular Variant = iota
	Bold
	Italic
	BoldItalic
)

// Family 是一个内置字体族，缺失的字形为 nil。
// 内置字体全部是 glyf 轮廓的 TrueType，PDF 与位图输出都能绘制。
type Family struct {
	Name  string
	faces [4][]byte
}

// Face 返回指定字形的数据；缺失时回退到常规字形。
func (f Family) Face(v Variant) []byte {
	if v >= Regular && v <= BoldItalic && f.faces[v] != nil {
		return f.faces[v]
	}
	return f.faces[Regular]
}

var families = map[string]Family{
	"go": {Name: "go", faces: [4][]byte{
		goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF,
	}},
	"gomono": {Name: "gomono", faces: [4][]byte{
		gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF,
	}},
	"gomedium": {Name: "gomedium", faces: [4][]byte{
		gomedium.TTF, nil, gomediumitalic.TTF, nil,
	}},
	"gosmallcaps": {Name: "gosmallcaps", faces: [4][]byte{
		gosmallcaps.TTF, nil, gosmallcapsitalic.TTF, nil,
	}},
}

// Load 返回内置字体族，name 可写为 "builtin:go" 或直接 "go"。
func Load(name string) (Family, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, Prefix)))
	if key == "" {
		key = Default
	}
	fam, ok := families[key]
	if !ok {
		return Family{}, fmt.Errorf("内置字体 %s 不存在，可用: %s", key, strings.Join(Names(), ", "))
	}
	return fam, nil
}

// Names 列出全部内置字体族名称。
func Names() []string {
	out := make([]string, 0, len(families))
	for name := range families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
