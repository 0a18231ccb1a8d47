package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/ByLCY/richtext/dsl"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
	"github.com/ByLCY/richtext/renderer"
	canvasrenderer "github.com/ByLCY/richtext/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.richtext", "标记文件路径")
	output := flag.String("out", "output/demo.pdf", "输出路径，扩展名为 .png 时输出位图，否则输出 PDF")
	debug := flag.String("debug", "", "布局调试输出路径（.json 或 .yaml）")
	dataJSON := flag.String("data", "", "绑定到标记的 JSON 数据，以 @ 开头时从文件读取")
	configPath := flag.String("config", "", "TOML 渲染配置路径")
	verbosity := flag.Int("v", 0, "日志详细程度")
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("richtext")

	inputData, err := loadData(*dataJSON)
	if err != nil {
		log.Fatalf("解析 data JSON 失败: %v", err)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}

	r := canvasrenderer.NewRenderer(canvasrenderer.NewFonts(filepath.Dir(*input)), logger)
	if err := run(*input, *output, *debug, inputData, cfg, r, logger); err != nil {
		log.Fatalf("生成文件失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", *output)
}

func loadData(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	raw := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// run 串联解析、排版与渲染。
func run(inputPath, outputPath, debugPath string, data any, cfg renderConfig, r *canvasrenderer.Renderer, logger logr.Logger) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开标记文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	src, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析标记失败: %w", err)
	}

	font, err := r.Fonts().LoadFont("default", cfg.Font)
	if err != nil {
		return fmt.Errorf("加载默认字体失败: %w", err)
	}
	doc, err := markup.Build(src, data, markup.BuildOptions{
		Fonts:         r.Fonts(),
		Metrics:       r,
		Logger:        logger,
		DefaultFont:   font,
		CharacterSize: cfg.CharacterSize,
	})
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(doc, debugPath); err != nil {
			return err
		}
	}

	bg, err := cfg.background()
	if err != nil {
		return fmt.Errorf("背景色无效: %w", err)
	}
	opts := renderer.Options{
		Format:     formatFor(outputPath),
		Padding:    cfg.Padding,
		Background: bg,
		DPI:        cfg.DPI,
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	payload, err := r.Render(doc, opts)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func formatFor(path string) renderer.Format {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return renderer.PNG
	}
	return renderer.PDF
}

func writeDebug(doc *layout.Document, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebug(doc, debugPath); err != nil {
		return fmt.Errorf("输出调试快照失败: %w", err)
	}
	return nil
}
