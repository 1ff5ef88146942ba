package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Bold(true).
		Margin(1, 0, 0, 0)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#50fa7b"})

	warnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#b26a00", Dark: "#ffb86c"})
)

func header(format string, args ...any) {
	fmt.Println(headerStyle.Render(fmt.Sprintf(format, args...)))
}

func done(format string, args ...any) {
	fmt.Println(okStyle.Render(fmt.Sprintf(format, args...)))
}

func warn(format string, args ...any) {
	fmt.Println(warnStyle.Render(fmt.Sprintf(format, args...)))
}
