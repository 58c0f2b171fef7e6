package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// 语义颜色
var (
	ColorSuccess = lipgloss.Color("#22c55e")
	ColorError   = lipgloss.Color("#ef4444")
	ColorWarning = lipgloss.Color("#eab308")
	ColorMuted   = lipgloss.Color("#6b7280")
)

// 符号
var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolArrow   = "→"
)

func init() {
	if noColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// noColor 遵循 NO_COLOR 约定
func noColor() bool {
	return os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"
}

// SetColorMode 按配置切换颜色：always / never / auto
// auto 重新按环境和终端检测
func SetColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "auto":
		if noColor() {
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
	}
}
