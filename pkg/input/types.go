package input

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrInputNotFound 输入文件不存在
	ErrInputNotFound = errors.New("input file not found")
	// ErrInputParse 输入文件格式错误
	ErrInputParse = errors.New("could not parse input")
)

// Format 输入文件格式
type Format string

const (
	FormatAuto    Format = "auto"
	FormatCounted Format = "counted" // 计数行 + 模式行 + 计数行 + 路径行
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
)

// ParseFormat 解析格式名，空串视为 auto
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatCounted, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format: %s", s)
	}
}

// Detect 根据扩展名推断格式
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatCounted
	}
}

// Document 表示读入的模式和路径
type Document struct {
	Patterns []string `yaml:"patterns"`
	Paths    []string `yaml:"paths"`
}
