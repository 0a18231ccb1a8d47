package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/richtext/fonts"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
)

// renderConfig 对应 -config 指定的 TOML 文件，未出现的字段保持默认值。
type renderConfig struct {
	Padding       float64 `toml:"padding"`
	Background    string  `toml:"background"`
	DPI           float64 `toml:"dpi"`
	Font          string  `toml:"font"`
	CharacterSize int     `toml:"character_size"`
}

func defaultConfig() renderConfig {
	return renderConfig{
		Padding:       16,
		DPI:           96,
		Font:          fonts.Prefix + fonts.Default,
		CharacterSize: layout.DefaultCharacterSize,
	}
}

// loadConfig 读取配置；path 为空时返回默认值，显式给出的文件必须存在。
func loadConfig(path string) (renderConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("配置文件 %s 不存在: %w", path, err)
	}
	if err != nil {
		return cfg, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if cfg.Padding < 0 {
		return cfg, fmt.Errorf("padding 不能为负数: %g", cfg.Padding)
	}
	if cfg.CharacterSize <= 0 {
		return cfg, fmt.Errorf("character_size 必须为正数: %d", cfg.CharacterSize)
	}
	return cfg, nil
}

// background 解析背景色，空字符串表示透明。
func (c renderConfig) background() (color.RGBA, error) {
	if c.Background == "" {
		return color.RGBA{}, nil
	}
	return markup.ParseColor(c.Background)
}
