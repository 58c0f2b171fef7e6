package tree

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/glesirok/patternmatcher/pkg/pattern"
)

var (
	// ErrFrozen 树已冻结，不能再插入
	ErrFrozen = errors.New("pattern tree is frozen")
	// ErrEmptyPattern 模式没有任何片段
	ErrEmptyPattern = errors.New("pattern has no segments")
)

// Field 是模式树中的一个节点，对应某个深度上的一个片段
type Field struct {
	Key    pattern.Key
	Fields map[pattern.Key]*Field
}

func newField(key pattern.Key) *Field {
	return &Field{
		Key:    key,
		Fields: make(map[pattern.Key]*Field),
	}
}

// Field 返回指定键的子节点
func (f *Field) Field(key pattern.Key) (*Field, bool) {
	child, ok := f.Fields[key]
	return child, ok
}

// HasTerminator 报告从根到此节点是否是一个完整模式
func (f *Field) HasTerminator() bool {
	_, ok := f.Fields[pattern.Terminator]
	return ok
}

// child 取子节点，不存在则创建
func (f *Field) child(key pattern.Key) *Field {
	if c, ok := f.Fields[key]; ok {
		return c
	}
	c := newField(key)
	f.Fields[key] = c
	return c
}

// Tree 是所有模式共享前缀的树
// 没有统一的根节点，顶层按第一个片段区分
type Tree struct {
	roots  map[pattern.Key]*Field
	frozen bool
}

// New 创建空树
func New() *Tree {
	return &Tree{roots: make(map[pattern.Key]*Field)}
}

// Build 解析并插入所有模式，然后冻结
func Build(lines []string) (*Tree, error) {
	t := New()
	for i, line := range lines {
		if err := t.Insert(pattern.ParsePattern(line)); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
	}
	t.Freeze()
	return t, nil
}

// Insert 插入一个模式
// 沿途缺少的节点按需创建，最后一个节点下补一个终止标记。
// 重复插入同一模式，或插入已有模式的前缀，都不会改变其他分支。
func (t *Tree) Insert(p pattern.Pattern) error {
	if t.frozen {
		return ErrFrozen
	}
	if p.Len() == 0 {
		return ErrEmptyPattern
	}

	first := p.Keys[0]
	node, ok := t.roots[first]
	if !ok {
		node = newField(first)
		t.roots[first] = node
	}

	for _, key := range p.Keys[1:] {
		node = node.child(key)
	}

	node.child(pattern.Terminator)
	return nil
}

// Freeze 结束构建阶段，之后树只读
func (t *Tree) Freeze() {
	t.frozen = true
}

// Frozen 报告树是否已冻结
func (t *Tree) Frozen() bool {
	return t.frozen
}

// Roots 返回顶层映射，匹配从这里开始
func (t *Tree) Roots() map[pattern.Key]*Field {
	return t.roots
}

// Lookup 在当前层查找片段
// 字面量优先，其次通配符；只做本层的决定，不回溯。
func Lookup(fields map[pattern.Key]*Field, segment string) (*Field, bool) {
	if f, ok := fields[pattern.Literal(segment)]; ok {
		return f, true
	}
	if f, ok := fields[pattern.Wildcard]; ok {
		return f, true
	}
	return nil, false
}

// Len 返回非终止节点数
func (t *Tree) Len() int {
	n := 0
	t.walk(func(f *Field, _ int) {
		if f.Key.Kind != pattern.KindTerminator {
			n++
		}
	})
	return n
}

// Terminals 返回终止标记数，即不同模式的个数
func (t *Tree) Terminals() int {
	n := 0
	t.walk(func(f *Field, _ int) {
		if f.Key.Kind == pattern.KindTerminator {
			n++
		}
	})
	return n
}

// Dump 以缩进形式输出整棵树，子节点按键排序，便于调试
func (t *Tree) Dump(w io.Writer) error {
	var err error
	t.walk(func(f *Field, depth int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), f.Key)
	})
	return err
}

// walk 深度优先遍历，顺序固定
func (t *Tree) walk(fn func(f *Field, depth int)) {
	var visit func(fields map[pattern.Key]*Field, depth int)
	visit = func(fields map[pattern.Key]*Field, depth int) {
		for _, key := range sortedKeys(fields) {
			f := fields[key]
			fn(f, depth)
			visit(f.Fields, depth+1)
		}
	}
	visit(t.roots, 0)
}

// sortedKeys 字面量在前（按文本），然后通配符，最后终止标记
func sortedKeys(fields map[pattern.Key]*Field) []pattern.Key {
	keys := make([]pattern.Key, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Text < keys[j].Text
	})
	return keys
}
