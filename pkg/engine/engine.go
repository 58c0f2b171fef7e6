package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/glesirok/patternmatcher/pkg/pattern"
	"github.com/glesirok/patternmatcher/pkg/tree"
)

// ErrTreeNotFrozen 树还在构建阶段，不能用来匹配
var ErrTreeNotFrozen = errors.New("pattern tree is not frozen")

// Engine 在冻结的模式树上匹配路径
// 只读访问树，可被多个 goroutine 同时使用
type Engine struct {
	tree *tree.Tree
}

func New(t *tree.Tree) (*Engine, error) {
	if t == nil || !t.Frozen() {
		return nil, ErrTreeNotFrozen
	}
	return &Engine{tree: t}, nil
}

// Match 匹配单条路径
func (e *Engine) Match(path string) Result {
	res := Result{Path: path}

	segments := pattern.SplitPath(path)
	keys := make([]pattern.Key, 0, len(segments))
	fields := e.tree.Roots()

	for _, segment := range segments {
		// 字面量优先，其次通配符，找不到就直接失败，不回溯
		node, ok := tree.Lookup(fields, segment)
		if !ok {
			return res
		}
		keys = append(keys, node.Key)
		fields = node.Fields
	}

	// 走完所有片段后必须落在一个完整模式上
	if _, ok := fields[pattern.Terminator]; !ok {
		return res
	}

	res.Matched = true
	res.Pattern = pattern.Join(keys)
	return res
}

// MatchAll 匹配所有路径，结果顺序与输入一致
// workers <= 1 时顺序执行
func (e *Engine) MatchAll(ctx context.Context, paths []string, workers int) ([]Result, error) {
	results := make([]Result, len(paths))

	if workers <= 1 {
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.Match(p)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// 每个 goroutine 只写自己的下标
			results[i] = e.Match(p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// 调度阶段被取消但没有 goroutine 报错的情况
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
