package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// PrintSuccess 输出带 ✓ 的成功信息
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(SymbolSuccess+" "+msg))
}

func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(SymbolWarning+" "+msg))
}

// PrintMuted 输出次要信息
func PrintMuted(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}

// FormatError 把错误渲染成一行，用于 main 退出前输出
func FormatError(err error) string {
	return errorStyle.Render(SymbolError + " " + err.Error())
}
