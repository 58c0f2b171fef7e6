package engine

// NoMatch 是无匹配时输出的文本
const NoMatch = "NO MATCH"

// Result 表示一条路径的匹配结果
type Result struct {
	Path    string
	Pattern string // 规范的模式字符串，通配符写作 *
	Matched bool
}

// String 返回要写入输出的一行
func (r Result) String() string {
	if !r.Matched {
		return NoMatch
	}
	return r.Pattern
}
