// Package markup 把 richtext 标记文档转换为 layout.Document。
//
// 定义语句（font、color X = ...、带块的 style）先于其余语句收集，
// 其余语句按出现顺序作用于文档，与逐段 Append 的流式写法等价。
package markup

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/richtext/binding"
	"github.com/ByLCY/richtext/dsl"
	"github.com/ByLCY/richtext/layout"
	"github.com/go-logr/logr"
)

// ErrNoDocument 表示没有可构建的标记文档。
var ErrNoDocument = errors.New("markup: 没有可构建的文档")

// FontLoader 按名称与来源加载字体，来源形如 "builtin:go" 或文件路径。
type FontLoader interface {
	LoadFont(name, src string) (layout.Font, error)
}

// BuildOptions 控制构建过程。
type BuildOptions struct {
	Fonts         FontLoader
	Metrics       layout.Metrics
	Logger        logr.Logger
	DefaultFont   layout.Font
	CharacterSize int
}

type fontDef struct {
	name string
	src  string
}

type builder struct {
	doc     *layout.Document
	data    any
	opts    BuildOptions
	log     logr.Logger
	fonts   map[string]fontDef
	loaded  map[string]layout.Font
	palette map[string]color.RGBA
	styles  map[string]namedStyle
}

// Build 解析 doc 中的语句并生成排好的文档；文本中的 ${path} 由 data 填充。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*layout.Document, error) {
	if doc == nil || doc.Body == nil {
		return nil, ErrNoDocument
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	layoutOpts := []layout.Option{layout.WithLogger(log)}
	if opts.DefaultFont != nil {
		layoutOpts = append(layoutOpts, layout.WithFont(opts.DefaultFont))
	}
	if opts.Metrics != nil {
		layoutOpts = append(layoutOpts, layout.WithMetrics(opts.Metrics))
	}
	if opts.CharacterSize > 0 {
		layoutOpts = append(layoutOpts, layout.WithCharacterSize(opts.CharacterSize))
	}

	b := &builder{
		doc:     layout.New(layoutOpts...),
		data:    data,
		opts:    opts,
		log:     log.WithValues("document", doc.Name),
		fonts:   map[string]fontDef{},
		loaded:  map[string]layout.Font{},
		palette: map[string]color.RGBA{},
	}
	if err := b.collect(doc.Body); err != nil {
		return nil, err
	}
	for _, stmt := range doc.Body.Statements {
		if err := b.exec(stmt); err != nil {
			return nil, err
		}
	}
	return b.doc, nil
}

// collect 收集字体、调色板与命名样式定义。
func (b *builder) collect(body *dsl.Block) error {
	raw := map[string]namedStyle{}
	for _, stmt := range body.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		switch {
		case cmd.Name == "font":
			def, err := parseFontDef(cmd)
			if err != nil {
				return err
			}
			b.fonts[def.name] = def
		case cmd.Name == "color" && isColorDef(cmd):
			c, err := resolveColor(cmd.Arg(2), b.palette)
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.Pos, err)
			}
			b.palette[cmd.Arg(0)] = c
		case cmd.Name == "style" && cmd.Block != nil:
			style, err := parseStyleDef(cmd)
			if err != nil {
				return err
			}
			raw[style.Name] = style
		}
	}
	styles, err := resolveStyles(raw)
	if err != nil {
		return err
	}
	b.styles = styles
	return nil
}

func (b *builder) exec(stmt *dsl.Statement) error {
	switch {
	case stmt.Text != nil:
		b.append(string(stmt.Text.Value))
		return nil
	case stmt.Command != nil:
		return b.command(stmt.Command)
	case stmt.Assignment != nil:
		return fmt.Errorf("%s: 顶层不支持赋值 %s", stmt.Assignment.Pos, stmt.Assignment.Key)
	}
	return nil
}

func (b *builder) command(cmd *dsl.Command) error {
	var err error
	switch cmd.Name {
	case "font":
		return nil
	case "color":
		if isColorDef(cmd) {
			return nil
		}
		err = b.setColor(cmd.Arg(0))
	case "style":
		if cmd.Block != nil {
			return nil
		}
		var s layout.Style
		if s, err = parseStyle(joinArgs(cmd.Args)); err == nil {
			b.doc.SetStyle(s)
		}
	case "outline":
		err = b.setOutline(cmd)
	case "size":
		err = b.setSize(cmd.Arg(0))
	case "use":
		err = b.useFont(cmd.Arg(0))
	case "apply":
		err = b.applyStyle(cmd.Arg(0))
	case "text":
		err = b.text(cmd)
	case "clear":
		b.doc.Clear()
	case "position", "move", "origin", "rotation", "scale":
		err = b.transform(cmd)
	default:
		err = fmt.Errorf("未知命令 %s", cmd.Name)
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, err)
	}
	return nil
}

func (b *builder) append(text string) {
	out, missing := binding.Expand(text, b.data)
	for _, path := range missing {
		b.log.V(1).Info("占位符未解析", "path", path)
	}
	b.doc.Append(out)
}

func (b *builder) setColor(value string) error {
	if value == "" {
		return errors.New("缺少颜色")
	}
	c, err := resolveColor(value, b.palette)
	if err != nil {
		return err
	}
	b.doc.SetColor(c)
	return nil
}

// setOutline 支持 "outline <颜色> <粗细>" 与 "outline none"。
func (b *builder) setOutline(cmd *dsl.Command) error {
	if strings.EqualFold(cmd.Arg(0), "none") {
		b.doc.SetOutline(b.doc.Outline().Color, 0)
		return nil
	}
	if len(cmd.Args) < 2 {
		return errors.New("需要颜色与粗细")
	}
	c, err := resolveColor(cmd.Arg(0), b.palette)
	if err != nil {
		return err
	}
	thickness, err := parsePixels(cmd.Arg(1))
	if err != nil {
		return err
	}
	b.doc.SetOutline(c, thickness)
	return nil
}

func (b *builder) setSize(value string) error {
	px, err := parsePixels(value)
	if err != nil {
		return err
	}
	n := int(math.Round(px))
	if n <= 0 {
		return fmt.Errorf("字号必须为正数: %s", value)
	}
	b.doc.SetCharacterSize(n)
	return nil
}

func (b *builder) useFont(name string) error {
	font, err := b.font(name)
	if err != nil {
		return err
	}
	b.doc.SetFont(font)
	return nil
}

func (b *builder) font(name string) (layout.Font, error) {
	if f, ok := b.loaded[name]; ok {
		return f, nil
	}
	def, ok := b.fonts[name]
	if !ok {
		return nil, fmt.Errorf("字体 %s 未定义", name)
	}
	if b.opts.Fonts == nil {
		return nil, fmt.Errorf("未配置字体加载器，无法加载 %s", name)
	}
	f, err := b.opts.Fonts.LoadFont(def.name, def.src)
	if err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	b.loaded[name] = f
	return f, nil
}

// applyStyle 把命名样式中出现的属性写入当前格式，未出现的保持不变。
func (b *builder) applyStyle(name string) error {
	style, ok := b.styles[name]
	if !ok {
		return fmt.Errorf("style %s 未定义", name)
	}
	props := style.Props
	format := b.doc.CurrentFormat()
	if v, ok := props["color"]; ok {
		c, err := resolveColor(v, b.palette)
		if err != nil {
			return err
		}
		format.Color = c
	}
	if v, ok := props["style"]; ok {
		s, err := parseStyle(v)
		if err != nil {
			return err
		}
		format.Style = s
	}
	if v, ok := props["outline"]; ok {
		c, err := resolveColor(v, b.palette)
		if err != nil {
			return err
		}
		format.Outline.Color = c
		if format.Outline.Thickness <= 0 {
			format.Outline.Thickness = 1
		}
	}
	if v, ok := props["outline-width"]; ok {
		t, err := parsePixels(v)
		if err != nil {
			return err
		}
		format.Outline.Thickness = t
	}
	if !format.Outline.Enabled() {
		format.Outline = layout.Outline{}
	}
	b.doc.SetFormat(format)
	if v, ok := props["size"]; ok {
		if err := b.setSize(v); err != nil {
			return err
		}
	}
	if v, ok := props["font"]; ok {
		return b.useFont(v)
	}
	return nil
}

// text 依次处理修饰符（命名样式、样式关键字、颜色）后追加字符串参数与块内字符串。
func (b *builder) text(cmd *dsl.Command) error {
	var (
		flags    layout.Style
		hasFlags bool
		parts    []string
	)
	for _, arg := range cmd.Args {
		switch {
		case arg.IsString():
			parts = append(parts, arg.Value)
		case b.styles[arg.Value].Name != "":
			if err := b.applyStyle(arg.Value); err != nil {
				return err
			}
		default:
			if s, ok := styleFlag(arg.Value); ok {
				flags |= s
				hasFlags = true
				continue
			}
			if !isColor(arg.Value, b.palette) {
				return fmt.Errorf("无法识别的修饰符 %q", arg.Value)
			}
			if err := b.setColor(arg.Value); err != nil {
				return err
			}
		}
	}
	if hasFlags {
		b.doc.SetStyle(flags)
	}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Text == nil {
				return errors.New("text 块内只能包含字符串")
			}
			parts = append(parts, string(stmt.Text.Value))
		}
	}
	for _, p := range parts {
		b.append(p)
	}
	return nil
}

func (b *builder) transform(cmd *dsl.Command) error {
	nums := make([]float64, 0, len(cmd.Args))
	sign := 1.0
	for _, arg := range cmd.Args {
		switch arg.Raw {
		case ",":
			continue
		case "-":
			sign = -sign
			continue
		}
		v, err := parseNumber(arg.Value)
		if err != nil {
			return err
		}
		nums = append(nums, sign*v)
		sign = 1
	}
	need := 2
	if cmd.Name == "rotation" {
		need = 1
	}
	if cmd.Name == "scale" && len(nums) == 1 {
		nums = append(nums, nums[0])
	}
	if len(nums) != need {
		return fmt.Errorf("需要 %d 个数值，实际 %d", need, len(nums))
	}
	switch cmd.Name {
	case "position":
		b.doc.SetPosition(nums[0], nums[1])
	case "move":
		b.doc.Move(nums[0], nums[1])
	case "origin":
		b.doc.SetOrigin(nums[0], nums[1])
	case "rotation":
		b.doc.SetRotation(nums[0])
	case "scale":
		b.doc.SetScale(nums[0], nums[1])
	}
	return nil
}

func parseFontDef(cmd *dsl.Command) (fontDef, error) {
	name := cmd.Arg(0)
	if name == "" {
		return fontDef{}, fmt.Errorf("%s: font 缺少名称", cmd.Pos)
	}
	def := fontDef{name: name, src: "builtin:" + name}
	if cmd.Block == nil {
		return def, nil
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment != nil && stmt.Assignment.Key == "src" {
			def.src = stmt.Assignment.Value.Text()
		}
	}
	return def, nil
}

func parseStyleDef(cmd *dsl.Command) (namedStyle, error) {
	style := namedStyle{Name: cmd.Arg(0), Props: map[string]string{}}
	if style.Name == "" {
		return style, fmt.Errorf("%s: style 缺少名称", cmd.Pos)
	}
	if strings.EqualFold(cmd.Arg(1), "extends") {
		style.Extends = cmd.Arg(2)
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if val := stmt.Assignment.Value.Text(); val != "" {
			style.Props[stmt.Assignment.Key] = val
		}
	}
	return style, nil
}

// isColorDef 识别 "color 名称 = 值" 形式的调色板定义。
func isColorDef(cmd *dsl.Command) bool {
	return len(cmd.Args) == 3 && cmd.Args[1].Raw == "="
}

func joinArgs(args []*dsl.Lexeme) string {
	words := make([]string, 0, len(args))
	for _, a := range args {
		words = append(words, a.Value)
	}
	return strings.Join(words, " ")
}

// parsePixels 接受带单位的长度，无单位按 px 处理。
func parsePixels(value string) (float64, error) {
	l, ok := layout.ParseLength(value)
	if !ok {
		return 0, fmt.Errorf("无法解析长度 %q", value)
	}
	return l.ToPX(), nil
}

func parseNumber(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %q", value)
	}
	return v, nil
}
