package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/glesirok/patternmatcher/pkg/input"
)

// ErrInvalidConfig 配置不合法
var ErrInvalidConfig = errors.New("invalid config")

// ColorMode 控制终端颜色
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config 表示运行配置文件
type Config struct {
	Workers  int          `yaml:"workers"`
	Echo     bool         `yaml:"echo"`
	Format   input.Format `yaml:"format"`
	Color    ColorMode    `yaml:"color"`
	DumpTree bool         `yaml:"dump_tree"`
}

// Default 返回默认配置：顺序匹配，结果同时打印到标准输出
func Default() *Config {
	return &Config{
		Workers: 1,
		Echo:    true,
		Format:  input.FormatAuto,
		Color:   ColorAuto,
	}
}

// LoadFromFile 从文件加载配置，未出现的字段保留默认值
func LoadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 校验配置的合法性
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}

	f, err := input.ParseFormat(string(c.Format))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.Format = f

	switch c.Color {
	case "":
		c.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: unknown color mode: %s", ErrInvalidConfig, c.Color)
	}

	return nil
}
