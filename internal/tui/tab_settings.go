package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/store"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) dbPath() string {
	if a.cfg.General.DBPath != "" {
		return a.cfg.General.DBPath
	}
	return store.DefaultPath()
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	innerW := components.CardInnerWidth(cw)
	row := func(b *strings.Builder, label, value string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", label+":")))
		b.WriteString(valueStyle.Render(truncStr(value, innerW-19)))
	}

	var prefs strings.Builder
	row(&prefs, "Theme", cfg.Appearance.Theme)
	row(&prefs, "Currency", cfg.General.Currency)
	row(&prefs, "Betting database", a.dbPath())
	row(&prefs, "Log level", cfg.Log.Level)
	prefs.WriteString("\n\n")
	prefs.WriteString(labelStyle.Render("Press ") + accentStyle.Render("e") + labelStyle.Render(" to edit. Each dashboard has its own inputs under e."))

	var files strings.Builder
	row(&files, "Config file", config.ConfigPath())
	row(&files, "Data directory", store.DataDir())
	row(&files, "Bets recorded", cli.FormatNumber(int64(len(a.betLog))))
	row(&files, "API address", cfg.Server.Addr)

	var env strings.Builder
	for _, name := range []string{config.EnvDB, config.EnvTheme, config.EnvLogLevel} {
		v, ok := os.LookupEnv(name)
		if !ok {
			v = "(not set)"
		}
		row(&env, name, v)
	}

	var themes strings.Builder
	for i, name := range theme.Names() {
		if i > 0 {
			themes.WriteString(labelStyle.Render("  "))
		}
		if name == t.Name {
			themes.WriteString(accentStyle.Render("● " + name))
		} else {
			themes.WriteString(labelStyle.Render("○ " + name))
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Preferences", prefs.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Files", files.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Environment overrides", env.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Themes", themes.String(), cw))
	return b.String()
}
