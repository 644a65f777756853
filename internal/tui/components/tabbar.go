package components

import (
	"strings"

	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs in display order.
var Tabs = []Tab{
	{Name: "Cashflow", Key: '1'},
	{Name: "Simulation", Key: '2'},
	{Name: "Quadrant", Key: '3'},
	{Name: "Betting", Key: '4'},
	{Name: "Settings", Key: '5'},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceBright).
			Bold(true).
			Padding(0, 1).
			Render(string(tab.Key) + " " + tab.Name)
	}

	keyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pad := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	return pad + keyStyle.Render(string(tab.Key)) + nameStyle.Render(" "+tab.Name) + pad
}

// TabVisualWidth is the rendered width of a tab. Mouse hit-testing relies on
// it matching RenderTabBar exactly.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index on one row,
// tabs separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		parts = append(parts, renderTab(tab, i == activeIdx))
	}

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
