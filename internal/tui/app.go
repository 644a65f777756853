// Package tui provides the interactive Bubble Tea dashboard for cashflow.
package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/finance"
	"github.com/theirongolddev/cashflow/internal/quadrant"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BetStore is the betting log as the dashboard uses it.
type BetStore interface {
	ListBets() ([]betting.Bet, error)
	AddBet(b betting.Bet) error
	UpdateOutcome(id uuid.UUID, o betting.Outcome) error
	DeleteBet(id uuid.UUID) error
}

// BetsLoadedMsg carries a fresh copy of the betting log. Note, when set, is
// flashed in the status bar.
type BetsLoadedMsg struct {
	Bets []betting.Bet
	Err  error
	Note string
}

// betOpFailedMsg reports a failed add, settle or delete.
type betOpFailedMsg struct {
	err error
}

const (
	tabCashflow = iota
	tabSimulation
	tabQuadrant
	tabBetting
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	cfg        config.Config
	bets       BetStore
	log        *logrus.Logger
	saveConfig func(config.Config) error

	// Derived from cfg by recompute.
	score         finance.ScoreCard
	scoreErr      error
	points        []finance.ProjectionPoint
	growth        finance.GrowthSummary
	breakEvenYear int
	breakEvenOK   bool
	simErr        error
	report        quadrant.Report
	freedom       quadrant.Freedom
	quadErr       error

	// Betting log, chronological and newest-first.
	betLog     []betting.Bet
	betRows    []betting.Bet
	betErr     error
	betCursor  int
	pendingDel uuid.UUID

	loaded    bool
	width     int
	height    int
	activeTab int
	showHelp  bool

	edit      *editor
	needSetup bool

	flash    string
	flashErr bool

	spinner spinner.Model
}

// NewApp creates the dashboard model. bets may be nil, in which case the
// betting tab explains that no log is open. firstRun shows the setup form
// once the log has loaded.
func NewApp(cfg config.Config, bets BetStore, log *logrus.Logger, firstRun bool) App {
	if log == nil {
		log = logrus.New()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		cfg:        cfg,
		bets:       bets,
		log:        log,
		saveConfig: config.Save,
		needSetup:  firstRun,
		spinner:    sp,
	}
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadBetsCmd(a.bets, ""),
		a.spinner.Tick,
	)
}

// recompute derives every dashboard figure from the current inputs.
func (a *App) recompute() {
	a.score, a.scoreErr = finance.ComputeScoreCard(a.cfg.Cashflow)

	sim := a.cfg.Simulation
	plan := sim.Plan()
	a.points, a.simErr = finance.ProjectGrowth(plan)
	if a.simErr == nil {
		a.growth, a.simErr = finance.Summarize(plan)
	}
	if a.simErr == nil {
		a.breakEvenYear, a.breakEvenOK, a.simErr = finance.FindBreakEvenYear(plan, sim.TargetPassive, sim.MaxYears)
	}

	q := a.cfg.Quadrant
	a.report, a.quadErr = quadrant.Analyze(q.Sheet)
	if a.quadErr == nil {
		a.freedom, a.quadErr = quadrant.WhatIf(q.Sheet, q.ExtraPassive, q.ReducedExpenses)
	}
}

func (a *App) setBets(bets []betting.Bet) {
	a.betLog = bets
	a.betRows = make([]betting.Bet, len(bets))
	for i, b := range bets {
		a.betRows[len(bets)-1-i] = b
	}
	if a.betCursor >= len(a.betRows) {
		a.betCursor = len(a.betRows) - 1
	}
	if a.betCursor < 0 {
		a.betCursor = 0
	}
}

func (a App) selectedBet() (betting.Bet, bool) {
	if a.betCursor < 0 || a.betCursor >= len(a.betRows) {
		return betting.Bet{}, false
	}
	return a.betRows[a.betCursor], true
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
}

func (a App) money(v float64) string {
	return cli.FormatMoney(v, a.cfg.General.Currency)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.edit != nil {
			a.edit.form = a.edit.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.edit != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		// Forms intercept all keys; esc abandons the edit.
		if a.edit != nil {
			if key == "esc" {
				a.closeEditor()
				return a, nil
			}
			return a.updateEditor(msg)
		}

		a.flash = ""
		if key != "d" {
			a.pendingDel = uuid.Nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if a.activeTab == tabBetting {
			if model, cmd, handled := a.updateBettingKeys(key); handled {
				return model, cmd
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "e":
			return a.openEditor(editorForTab(a.activeTab))
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(msg.Runes) == 1 {
				if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case BetsLoadedMsg:
		firstLoad := !a.loaded
		a.loaded = true
		if msg.Err != nil {
			a.betErr = msg.Err
			a.log.WithError(msg.Err).Warn("loading bets")
		} else {
			a.betErr = nil
			a.setBets(msg.Bets)
		}
		if msg.Note != "" {
			a.setFlash(msg.Note, false)
		}
		if firstLoad && a.needSetup {
			return a.openEditor(formSetup)
		}
		return a, nil

	case betOpFailedMsg:
		a.log.WithError(msg.err).Warn("updating betting log")
		a.setFlash(msg.err.Error(), true)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the open form (cursor blinks, etc.)
	if a.edit != nil {
		return a.updateEditor(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabBetting && a.betCursor > 0 {
			a.betCursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabBetting && a.betCursor < len(a.betRows)-1 {
			a.betCursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func editorForTab(tab int) formKind {
	switch tab {
	case tabCashflow:
		return formCashflow
	case tabSimulation:
		return formSimulation
	case tabQuadrant:
		return formQuadrant
	case tabSettings:
		return formSettings
	}
	return formNone
}

func (a App) formWidth() int {
	return max(min(a.width-8, 72), 40)
}

func (a App) openEditor(kind formKind) (tea.Model, tea.Cmd) {
	if kind == formNone {
		return a, nil
	}
	if kind == formBet && a.bets == nil {
		a.setFlash("No betting log is open", true)
		return a, nil
	}
	a.edit = newEditor(kind, a.cfg)
	if a.width > 0 {
		a.edit.form = a.edit.form.WithWidth(a.formWidth())
	}
	return a, a.edit.form.Init()
}

func (a *App) closeEditor() {
	if a.edit != nil && a.edit.kind == formSetup {
		a.needSetup = false
	}
	a.edit = nil
}

func (a App) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.edit.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.edit.form = f
	}

	switch a.edit.form.State {
	case huh.StateCompleted:
		return a.finishEdit()
	case huh.StateAborted:
		a.closeEditor()
		return a, nil
	}
	return a, cmd
}

// finishEdit applies a completed form: a new bet goes to the store, any
// other form replaces the configuration and saves it.
func (a App) finishEdit() (tea.Model, tea.Cmd) {
	e := a.edit
	a.closeEditor()

	if e.kind == formBet {
		b, err := e.bet.build()
		if err != nil {
			a.setFlash(err.Error(), true)
			return a, nil
		}
		store := a.bets
		return a, mutateBetsCmd(store, "Added "+b.Label, func() error {
			return store.AddBet(b)
		})
	}

	if err := e.commit(); err != nil {
		a.setFlash(err.Error(), true)
		return a, nil
	}
	a.cfg = *e.draft
	theme.SetActive(a.cfg.Appearance.Theme)
	a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent)
	a.recompute()

	if err := a.saveConfig(a.cfg); err != nil {
		a.log.WithError(err).Warn("saving config")
		a.setFlash("Applied but not saved: "+err.Error(), true)
		return a, nil
	}
	a.log.WithField("path", config.ConfigPath()).Debug("config saved")
	a.setFlash("Saved", false)
	return a, nil
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.edit != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cashflow needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cashflow"))
	b.WriteString(subtitleStyle.Render(" · Personal Finance Dashboards"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Opening betting log..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active

	titles := map[formKind]string{
		formCashflow:   "Edit cashflow inputs",
		formSimulation: "Edit investment plan",
		formQuadrant:   "Edit balance sheet",
		formSettings:   "Settings",
		formBet:        "Record a bet",
		formSetup:      "First-run setup",
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := titleStyle.Render("◈ "+titles[a.edit.kind]) + "\n\n" +
		a.edit.form.View() + "\n" +
		hintStyle.Render("esc to cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1-5", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"click", "Select tab"},
		}},
		{"Dashboards", []struct{ key, desc string }{
			{"e", "Edit the inputs of this tab"},
			{"esc", "Cancel an edit"},
		}},
		{"Betting", []struct{ key, desc string }{
			{"a", "Record a bet"},
			{"o", "Cycle the outcome of the selected bet"},
			{"d d", "Delete the selected bet"},
			{"j k", "Select bet"},
			{"r", "Reload the log"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabBetting:
		return "[a]dd  [o]utcome  [d]elete  [j/k] select  [?]help  [q]uit"
	case tabSettings:
		return "[e]dit settings  [?]help  [q]uit"
	}
	return "[e]dit  [←→] tabs  [?]help  [q]uit"
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	freedom := "building"
	if a.scoreErr == nil && a.score.FinanciallyFree {
		freedom = "free"
	}
	context := pillStyle.Render(" ") +
		accentStyle.Render(a.cfg.General.Currency) +
		pillStyle.Render(" │ freedom ") + accentStyle.Render(freedom) +
		pillStyle.Render(" │ ") + accentStyle.Render(fmt.Sprintf("%d bets", len(a.betLog))) +
		pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(context)

	flashColor := t.Green
	if a.flashErr {
		flashColor = t.Red
	}
	statusBar := components.RenderStatusBar(w, a.statusHints(), theme.Active.Name, a.flash, flashColor)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabCashflow:
		content = a.renderCashflowTab(cw)
	case tabSimulation:
		content = a.renderSimulationTab(cw, contentH)
	case tabQuadrant:
		content = a.renderQuadrantTab(cw)
	case tabBetting:
		content = a.renderBettingTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// errorCard shows why a dashboard cannot be computed from its inputs.
func errorCard(title string, err error, cw int) string {
	t := theme.Active
	warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return components.ContentCard(title, warn.Render(err.Error())+"\n"+hint.Render("Press e to fix the inputs."), cw)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
