package canvasrenderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/richtext/fonts"
	"github.com/ByLCY/richtext/layout"
)

// ErrUnknownFont 表示字体来源无法解析，或传入的字体不是由本包加载的。
var ErrUnknownFont = errors.New("canvasrenderer: 未知字体")

// Font 是 layout.Font 的 canvas 实现，四种字形都已载入 family。
type Font struct {
	name   string
	src    string
	family *canvas.FontFamily
}

func (f *Font) Name() string { return f.name }

// Src 返回字体来源。
func (f *Font) Src() string { return f.src }

// Fonts 按来源缓存已加载的字体族，可被多个文档共享。
type Fonts struct {
	baseDir string

	mu     sync.Mutex
	byName map[string]*Font
	bySrc  map[string]*Font
}

// NewFonts 创建字体注册表，相对路径的字体文件以 baseDir 为根解析。
func NewFonts(baseDir string) *Fonts {
	return &Fonts{
		baseDir: baseDir,
		byName:  map[string]*Font{},
		bySrc:   map[string]*Font{},
	}
}

// LoadFont 加载 src 指向的字体并以 name 注册。
// src 形如 "builtin:go"，或 .ttf/.otf 文件路径（可带 "file:" 前缀）。
func (fs *Fonts) LoadFont(name, src string) (layout.Font, error) {
	f, err := fs.load(name, src)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Default 返回内置默认字体。
func (fs *Fonts) Default() (*Font, error) {
	return fs.load(fonts.Default, fonts.Prefix+fonts.Default)
}

// Lookup 返回已注册的字体。
func (fs *Fonts) Lookup(name string) (*Font, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.byName[name]
	return f, ok
}

func (fs *Fonts) load(name, src string) (*Font, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		src = fonts.Prefix + name
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if f, ok := fs.bySrc[src]; ok {
		fs.byName[name] = f
		return f, nil
	}

	family := canvas.NewFontFamily(name)
	var err error
	if strings.HasPrefix(src, fonts.Prefix) {
		err = loadBuiltin(family, src)
	} else {
		err = fs.loadFile(family, src)
	}
	if err != nil {
		return nil, err
	}
	f := &Font{name: name, src: src, family: family}
	fs.bySrc[src] = f
	fs.byName[name] = f
	return f, nil
}

var variantStyles = map[fonts.Variant]canvas.FontStyle{
	fonts.Regular:    canvas.FontRegular,
	fonts.Bold:       canvas.FontBold,
	fonts.Italic:     canvas.FontItalic,
	fonts.BoldItalic: canvas.FontBold | canvas.FontItalic,
}

func loadBuiltin(family *canvas.FontFamily, src string) error {
	fam, err := fonts.Load(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownFont, err)
	}
	for v, style := range variantStyles {
		if err := family.LoadFont(fam.Face(v), 0, style); err != nil {
			return fmt.Errorf("加载内置字体 %s 失败: %w", fam.Name, err)
		}
	}
	return nil
}

// loadFile 把单个字体文件注册为全部字形，粗体与斜体由同一字形绘制。
func (fs *Fonts) loadFile(family *canvas.FontFamily, src string) error {
	path := strings.TrimPrefix(src, "file:")
	if !filepath.IsAbs(path) && fs.baseDir != "" {
		path = filepath.Join(fs.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: 字体文件 %s 不存在", ErrUnknownFont, path)
		}
		return fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	for _, style := range variantStyles {
		if err := family.LoadFont(data, 0, style); err != nil {
			return fmt.Errorf("解析字体 %s 失败: %w", path, err)
		}
	}
	return nil
}

func fontStyle(s layout.Style) canvas.FontStyle {
	result := canvas.FontRegular
	if s.Has(layout.Bold) {
		result |= canvas.FontBold
	}
	if s.Has(layout.Italic) {
		result |= canvas.FontItalic
	}
	return result
}
