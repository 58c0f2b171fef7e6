package pattern

import "strings"

// ParsePattern 解析逗号分隔的模式字符串
// 支持语法：
//   - a,b,c   字面量
//   - a,*,c   * 匹配任意单个片段
//
// 每个片段都保留，空片段（"" 或 ",a" / "a,"）按空字面量处理。
// 终止标记不会从文本中读出，由树插入时补上。
func ParsePattern(line string) Pattern {
	parts := strings.Split(line, PatternSeparator)
	keys := make([]Key, 0, len(parts))

	for _, part := range parts {
		keys = append(keys, parseToken(part))
	}

	return Pattern{Keys: keys}
}

// parseToken 解析单个模式片段
func parseToken(token string) Key {
	if token == WildcardToken {
		return Wildcard
	}

	// "**" 之类的文本都是普通字面量
	return Literal(token)
}

// SplitPath 分割路径，如 "a/b/c" -> ["a", "b", "c"]
// 不做任何规范化，空路径得到一个空片段
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// Join 把片段渲染回规范的模式字符串，通配符写作 *
func Join(keys []Key) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(PatternSeparator)
		}
		b.WriteString(k.String())
	}
	return b.String()
}

// String 返回规范的模式字符串
func (p Pattern) String() string {
	return Join(p.Keys)
}

// Len 返回片段数
func (p Pattern) Len() int {
	return len(p.Keys)
}
