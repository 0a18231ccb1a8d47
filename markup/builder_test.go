package markup_test

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/richtext/dsl"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
	"github.com/google/go-cmp/cmp"
)

type stubFont struct{ src string }

func (f *stubFont) Name() string { return f.src }

// stubLoader 记录加载请求，src 以 "missing:" 开头时返回错误。
type stubLoader struct {
	calls []string
}

func (l *stubLoader) LoadFont(name, src string) (layout.Font, error) {
	l.calls = append(l.calls, name+"="+src)
	if strings.HasPrefix(src, "missing:") {
		return nil, errors.New("not found")
	}
	return &stubFont{src: src}, nil
}

type monoMetrics struct{}

func (monoMetrics) Measure(text string, _ layout.Font, size int, _ layout.Format) layout.Size {
	return layout.Size{Width: float64(size) / 2 * float64(utf8.RuneCountInString(text)), Height: float64(size)}
}

type runDesc struct {
	Text  string
	Color color.RGBA
	Style layout.Style
}

func describe(d *layout.Document) [][]runDesc {
	var out [][]runDesc
	for _, l := range d.Lines() {
		var line []runDesc
		for _, r := range l.Runs() {
			line = append(line, runDesc{Text: r.Text(), Color: r.Format().Color, Style: r.Format().Style})
		}
		out = append(out, line)
	}
	return out
}

func build(t *testing.T, src string, data any) (*layout.Document, *stubLoader) {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	loader := &stubLoader{}
	out, err := markup.Build(doc, data, markup.BuildOptions{Fonts: loader, Metrics: monoMetrics{}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return out, loader
}

func buildErr(t *testing.T, src string) error {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = markup.Build(doc, nil, markup.BuildOptions{Fonts: &stubLoader{}})
	return err
}

var (
	cyan  = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	green = color.RGBA{R: 0, G: 128, B: 0, A: 255}
)

func TestBuildStyledStream(t *testing.T) {
	d, loader := build(t, `
richtext demo {
  text Title "This "
  text white italic "is\ncool\n"
  text green regular "mate"

  font Body { src: "builtin:go" }
  color Accent = #0FF
  style Title { color: Accent; style: bold }
  use Body
  size 20
}`, nil)

	want := [][]runDesc{
		{{"This ", cyan, layout.Bold}, {"is", white, layout.Italic}},
		{{"cool", white, layout.Italic}},
		{{"mate", green, layout.Regular}},
	}
	if diff := cmp.Diff(want, describe(d)); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
	if d.CharacterSize() != 20 || d.Font() == nil || d.Font().Name() != "builtin:go" {
		t.Fatalf("size/font not applied: %d %v", d.CharacterSize(), d.Font())
	}
	if diff := cmp.Diff([]string{"Body=builtin:go"}, loader.calls); diff != "" {
		t.Fatalf("loader calls (-want +got):\n%s", diff)
	}
	// size 20 之后每个 Run 都按新字号测量
	if got := d.LocalBounds(); got.Width != 70 || got.Height != 60 {
		t.Fatalf("unexpected bounds %+v", got)
	}
}

func TestStyleInheritance(t *testing.T) {
	d, _ := build(t, `
richtext inherit {
  style Base { color: red; style: underline; outline: black; outline-width: 2 }
  style Loud extends Base { style: bold | underline }
  apply Loud
  "x"
}`, nil)

	f := d.CurrentFormat()
	if f.Color != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("color should come from Base, got %+v", f.Color)
	}
	if f.Style != layout.Bold|layout.Underlined {
		t.Fatalf("style should be overridden, got %s", f.Style)
	}
	if f.Outline.Thickness != 2 || f.Outline.Color != (color.RGBA{A: 255}) {
		t.Fatalf("outline should be inherited, got %+v", f.Outline)
	}
}

// TestApplyKeepsUnsetProperties 验证 apply 只覆盖样式中出现的属性。
func TestApplyKeepsUnsetProperties(t *testing.T) {
	d, _ := build(t, `
richtext partial {
  style Thin { outline-width: 0 }
  style Tint { color: #ff000080 }
  color blue
  style underline
  outline black 3
  apply Tint
  "a"
  apply Thin
  "b"
}`, nil)

	runs := d.Lines()[0].Runs()
	want := layout.Format{
		Color:   color.RGBA{R: 0x80, A: 0x80},
		Style:   layout.Underlined,
		Outline: layout.Outline{Color: color.RGBA{A: 255}, Thickness: 3},
	}
	if diff := cmp.Diff(want, runs[0].Format()); diff != "" {
		t.Fatalf("apply Tint (-want +got):\n%s", diff)
	}
	want.Outline = layout.Outline{}
	if diff := cmp.Diff(want, runs[1].Format()); diff != "" {
		t.Fatalf("apply Thin (-want +got):\n%s", diff)
	}
}

func TestBindingFillsPlaceholders(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	d, _ := build(t, `richtext hi { "Hi ${user.name}, ${user.role|guest}" }`, data)
	lines := d.Lines()
	if len(lines) != 1 || lines[0].Runs()[0].Text() != "Hi Ada, guest" {
		t.Fatalf("unexpected text: %+v", describe(d))
	}
}

func TestOutlineClearAndTransform(t *testing.T) {
	d, _ := build(t, `
richtext misc {
  outline #f00 1.5
  "a"
  outline none
  "b\n"
  clear
  style italic
  position 10, -5
  move 2, 1
  origin 1 2
  rotation 450
  scale 2
}`, nil)

	if len(d.Lines()) != 0 {
		t.Fatalf("clear should drop all lines")
	}
	if d.Outline().Enabled() {
		t.Fatalf("outline none should disable outline")
	}
	if d.Style() != layout.Italic {
		t.Fatalf("style after clear: %s", d.Style())
	}
	if p := d.Position(); p.X != 12 || p.Y != -4 {
		t.Fatalf("position: %+v", p)
	}
	if o := d.Origin(); o.X != 1 || o.Y != 2 {
		t.Fatalf("origin: %+v", o)
	}
	if d.Rotation() != 90 {
		t.Fatalf("rotation should be normalized, got %g", d.Rotation())
	}
	if s := d.Scale(); s.X != 2 || s.Y != 2 {
		t.Fatalf("scale: %+v", s)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := map[string]string{
		"unknown color":   `richtext e { color nope }`,
		"undefined style": `richtext e { apply Ghost }`,
		"style cycle":     `richtext e { style A extends B { color: red }; style B extends A { color: blue } }`,
		"undefined font":  `richtext e { use Ghost }`,
		"font load":       `richtext e { font F { src: "missing:f" }; use F }`,
		"unknown command": `richtext e { wobble 3 }`,
		"bad size":        `richtext e { size 0 }`,
		"bad modifier":    `richtext e { text sparkly "x" }`,
		"top assignment":  `richtext e { title: "x" }`,
	}
	for name, src := range tests {
		if err := buildErr(t, src); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestBuildNilDocument(t *testing.T) {
	if _, err := markup.Build(nil, nil, markup.BuildOptions{}); !errors.Is(err, markup.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}
