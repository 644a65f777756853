package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/logging"
	"github.com/theirongolddev/cashflow/internal/store"
	"github.com/theirongolddev/cashflow/internal/tui"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	firstRun := !config.Exists()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Stderr belongs to the alt screen, so the dashboard logs to a file.
	tuiLog := logging.Discard()
	if f, err := logging.OpenFile(store.DataDir(), "cashflow.log"); err == nil {
		defer func() { _ = f.Close() }()
		level := cfg.Log.Level
		if flagVerbose {
			level = "debug"
		}
		tuiLog = logging.New(logging.Options{Level: level, Format: cfg.Log.Format, Output: f}, logrus.InfoLevel)
	} else {
		log.WithError(err).Warn("TUI logging disabled")
	}

	var bets tui.BetStore
	st, err := openStore()
	if err != nil {
		// The other dashboards still work without the betting log.
		tuiLog.WithError(err).Error("betting log unavailable")
	} else {
		defer func() { _ = st.Close() }()
		bets = st
	}

	app := tui.NewApp(cfg, bets, tuiLog, firstRun)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
