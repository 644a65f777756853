package components

import (
	"strings"

	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// an informational message on the right. A non-empty flash replaces the
// right-hand text and is drawn in flashColor.
func RenderStatusBar(width int, hints, info, flash string, flashColor lipgloss.Color) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" " + hints)
	right := infoStyle.Render(info + " ")
	if flash != "" {
		right = lipgloss.NewStyle().
			Foreground(flashColor).
			Background(t.Surface).
			Bold(true).
			Render(flash + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding))

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		MaxWidth(width).
		Render(left + fill + right)
}
