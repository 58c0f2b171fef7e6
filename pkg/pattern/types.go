package pattern

// Kind 表示模式片段的类型
type Kind int

const (
	KindLiteral    Kind = iota // 普通字面量，如 "a"
	KindWildcard               // * 通配符，匹配任意单个片段
	KindTerminator             // 终止标记，只在插入时生成，不出现在输入中
)

const (
	// WildcardToken 是模式文本中的通配符
	WildcardToken = "*"
	// PatternSeparator 分隔模式片段
	PatternSeparator = ","
	// PathSeparator 分隔路径片段
	PathSeparator = "/"
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindWildcard:
		return "wildcard"
	case KindTerminator:
		return "terminator"
	default:
		return "unknown"
	}
}

// Key 是模式树子节点的键
// Text 只在 KindLiteral 时有意义
type Key struct {
	Kind Kind
	Text string
}

var (
	// Wildcard 通配符键
	Wildcard = Key{Kind: KindWildcard}
	// Terminator 终止键，标记到此为止是一个完整模式
	Terminator = Key{Kind: KindTerminator}
)

// Literal 构造字面量键
func Literal(text string) Key {
	return Key{Kind: KindLiteral, Text: text}
}

// String 返回键在模式文本中的写法
func (k Key) String() string {
	switch k.Kind {
	case KindWildcard:
		return WildcardToken
	case KindTerminator:
		return "<end>"
	default:
		return k.Text
	}
}

// Pattern 表示解析后的完整模式
type Pattern struct {
	Keys []Key
}
