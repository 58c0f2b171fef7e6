package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// 计数行只能是非负整数
var countLine = regexp2.MustCompile(`^[0-9]+$`, regexp2.None)

// Load 从文件读取输入
func Load(path string, format Format) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	if format == FormatAuto || format == "" {
		format = Detect(path)
	}

	var doc *Document
	switch format {
	case FormatYAML:
		doc, err = parseYAML(data)
	case FormatJSON:
		doc, err = parseJSON(data)
	case FormatCounted:
		doc, err = ParseCounted(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown input format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// ParseCounted 解析计数格式：
//
//	N
//	pattern * N
//	M
//	path * M
//
// 路径之后的内容忽略。
func ParseCounted(r io.Reader) (*Document, error) {
	// 不限制单行长度
	br := bufio.NewReader(r)
	lineNo := 0

	next := func(what string) (string, error) {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: read line %d: %v", ErrInputParse, lineNo+1, err)
		}
		// 最后一行可以没有换行符
		if err != nil && line == "" {
			return "", fmt.Errorf("%w: unexpected end of input, expected %s at line %d", ErrInputParse, what, lineNo+1)
		}
		lineNo++
		line = strings.TrimSuffix(line, "\n")
		return strings.TrimSuffix(line, "\r"), nil
	}

	readCount := func(what string) (int, error) {
		line, err := next(what + " count")
		if err != nil {
			return 0, err
		}
		ok, err := countLine.MatchString(line)
		if err != nil || !ok {
			return 0, fmt.Errorf("%w: line %d: %s count %q is not a non-negative integer", ErrInputParse, lineNo, what, line)
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %s count: %v", ErrInputParse, lineNo, what, err)
		}
		return n, nil
	}

	readLines := func(n int, what string) ([]string, error) {
		lines := make([]string, 0, min(n, 4096))
		for i := 0; i < n; i++ {
			line, err := next(what)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return lines, nil
	}

	numPatterns, err := readCount("pattern")
	if err != nil {
		return nil, err
	}
	patterns, err := readLines(numPatterns, "pattern")
	if err != nil {
		return nil, err
	}

	numPaths, err := readCount("path")
	if err != nil {
		return nil, err
	}
	paths, err := readLines(numPaths, "path")
	if err != nil {
		return nil, err
	}

	return &Document{Patterns: patterns, Paths: paths}, nil
}

// parseYAML 解析 {patterns: [...], paths: [...]}
func parseYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: unmarshal yaml: %v", ErrInputParse, err)
	}
	return &doc, nil
}

// parseJSON 与 YAML 结构相同
func parseJSON(data []byte) (*Document, error) {
	src := string(data)
	if !gjson.Valid(src) {
		return nil, fmt.Errorf("%w: invalid json", ErrInputParse)
	}

	root := gjson.Parse(src)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: json document must be an object", ErrInputParse)
	}

	patterns, err := stringArray(root, "patterns")
	if err != nil {
		return nil, err
	}
	paths, err := stringArray(root, "paths")
	if err != nil {
		return nil, err
	}

	return &Document{Patterns: patterns, Paths: paths}, nil
}

// stringArray 读取字符串数组字段，字段不存在时返回空
func stringArray(root gjson.Result, key string) ([]string, error) {
	v := root.Get(key)
	if !v.Exists() {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: %q must be an array", ErrInputParse, key)
	}

	var out []string
	for i, elem := range v.Array() {
		if elem.Type != gjson.String {
			return nil, fmt.Errorf("%w: %s[%d] must be a string", ErrInputParse, key, i)
		}
		out = append(out, elem.String())
	}
	return out, nil
}
