package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/glesirok/patternmatcher/pkg/config"
	"github.com/glesirok/patternmatcher/pkg/engine"
	"github.com/glesirok/patternmatcher/pkg/input"
	"github.com/glesirok/patternmatcher/pkg/tree"
	"github.com/glesirok/patternmatcher/pkg/ui"
)

var (
	// ErrOutputOpen 无法创建输出文件
	ErrOutputOpen = errors.New("could not open output file")
	// ErrOutputClose 无法写完或关闭输出文件，已写入的部分保留
	ErrOutputClose = errors.New("could not close output file")
)

// Summary 一次运行的统计
type Summary struct {
	Patterns int
	Paths    int
	Matched  int
}

// Processor 读取输入，构建模式树，逐条匹配路径并写出结果
type Processor struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// NewProcessor 创建处理器，cfg 为 nil 时使用默认配置
func NewProcessor(cfg *config.Config, stdout, stderr io.Writer) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Processor{cfg: cfg, stdout: stdout, stderr: stderr}
}

// Run 处理一个输入文件
// 输入有错时不会创建输出文件
func (p *Processor) Run(ctx context.Context, inputPath, outputPath string) (*Summary, error) {
	doc, err := input.Load(inputPath, p.cfg.Format)
	if err != nil {
		return nil, err
	}

	// 先完整构建并冻结，再开始匹配
	t, err := tree.Build(doc.Patterns)
	if err != nil {
		return nil, fmt.Errorf("build pattern tree: %w", err)
	}

	if len(doc.Patterns) == 0 {
		ui.PrintWarning(p.stderr, "no patterns declared, every path is NO MATCH")
	}

	if p.cfg.DumpTree {
		ui.PrintMuted(p.stderr, "pattern tree:")
		if err := t.Dump(p.stderr); err != nil {
			return nil, fmt.Errorf("dump pattern tree: %w", err)
		}
	}

	eng, err := engine.New(t)
	if err != nil {
		return nil, err
	}

	results, err := eng.MatchAll(ctx, doc.Paths, p.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("match paths: %w", err)
	}

	summary := &Summary{
		Patterns: len(doc.Patterns),
		Paths:    len(doc.Paths),
	}
	for _, r := range results {
		if r.Matched {
			summary.Matched++
		}
	}

	if err := p.write(outputPath, results); err != nil {
		return summary, err
	}

	return summary, nil
}

// write 按输入顺序每行写一个结果
func (p *Processor) write(outputPath string, results []engine.Result) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrOutputOpen, outputPath, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w %s: %v", ErrOutputClose, outputPath, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	echo := p.cfg.Echo
	for _, r := range results {
		line := r.String()
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("%w %s: %v", ErrOutputClose, outputPath, err)
		}
		if echo {
			// 回显失败不影响输出文件，只提示一次
			if _, err := fmt.Fprintln(p.stdout, line); err != nil {
				ui.PrintWarning(p.stderr, fmt.Sprintf("stopped echoing results: %v", err))
				echo = false
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrOutputClose, outputPath, err)
	}

	return nil
}
