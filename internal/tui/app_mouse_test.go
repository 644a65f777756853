package tui

import (
	"testing"

	"github.com/theirongolddev/cashflow/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				if got := a.tabAtX(pos); got != -1 {
					t.Fatalf("active=%d separator x=%d -> tab=%d, want -1", active, pos, got)
				}
				pos++
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d past last tab -> %d", active, got)
		}
	}
}

func TestClickSelectsTab(t *testing.T) {
	a := newTestApp(t, &fakeStore{})
	x := 0
	for i := 0; i < tabQuadrant; i++ {
		x += components.TabVisualWidth(components.Tabs[i], i == a.activeTab) + 1
	}

	m, _ := a.Update(tea.MouseMsg{X: x + 1, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabQuadrant {
		t.Fatalf("activeTab = %d, want %d", got, tabQuadrant)
	}

	// Clicks below the tab bar are ignored.
	m, _ = m.(App).Update(tea.MouseMsg{X: 1, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabQuadrant {
		t.Fatalf("activeTab = %d after content click", got)
	}
}
