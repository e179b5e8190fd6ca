package formatter

import (
	"github.com/charmbracelet/lipgloss"
)

// summary styles, keyed by outcome
var styles = struct {
	title, ok, err, warn, help lipgloss.Style
}{
	title: foreground("#7D56F4").Bold(true),
	ok:    foreground("#04B575").Bold(true),
	err:   foreground("#FF0000").Bold(true),
	warn:  foreground("#FFA500"),
	help:  foreground("#626262").Italic(true),
}

func foreground(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// paint renders s with style when styled is set.
func paint(style lipgloss.Style, s string, styled bool) string {
	if !styled {
		return s
	}
	return style.Render(s)
}
