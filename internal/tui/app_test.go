package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/logging"
	"github.com/theirongolddev/cashflow/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

type fakeStore struct {
	bets []betting.Bet
	fail error
}

func (s *fakeStore) ListBets() ([]betting.Bet, error) {
	return append([]betting.Bet(nil), s.bets...), nil
}

func (s *fakeStore) AddBet(b betting.Bet) error {
	if s.fail != nil {
		return s.fail
	}
	s.bets = append(s.bets, b)
	return nil
}

func (s *fakeStore) UpdateOutcome(id uuid.UUID, o betting.Outcome) error {
	for i := range s.bets {
		if s.bets[i].ID == id {
			s.bets[i].Outcome = o
			return nil
		}
	}
	return errors.New("not found")
}

func (s *fakeStore) DeleteBet(id uuid.UUID) error {
	for i := range s.bets {
		if s.bets[i].ID == id {
			s.bets = append(s.bets[:i], s.bets[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func testBet(t *testing.T, day int, label string) betting.Bet {
	t.Helper()
	b, err := betting.NewBet(time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC), label, betting.Home,
		decimal.RequireFromString("2.10"), decimal.NewFromInt(100))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// newTestApp returns a sized, loaded app whose config saves are recorded
// instead of written to disk.
func newTestApp(t *testing.T, store BetStore) App {
	t.Helper()
	a := NewApp(config.DefaultConfig(), store, logging.Discard(), false)
	a.saveConfig = func(config.Config) error { return nil }

	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.(App).Update(loadBetsCmd(store, "")())
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var m tea.Model
		m, cmd = a.Update(msg)
		a = m.(App)
	}
	return a, cmd
}

// run executes cmd and feeds its message back into the app.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ := a.Update(cmd())
	return m.(App)
}

func TestKeysSwitchTabs(t *testing.T) {
	a := newTestApp(t, &fakeStore{})

	a, _ = press(t, a, "3")
	if a.activeTab != tabQuadrant {
		t.Fatalf("after 3: tab = %d", a.activeTab)
	}
	a, _ = press(t, a, "right", "right")
	if a.activeTab != tabSettings {
		t.Fatalf("after right x2: tab = %d", a.activeTab)
	}
	a, _ = press(t, a, "right")
	if a.activeTab != tabCashflow {
		t.Fatalf("right should wrap: tab = %d", a.activeTab)
	}
	a, _ = press(t, a, "left")
	if a.activeTab != tabSettings {
		t.Fatalf("left should wrap: tab = %d", a.activeTab)
	}
}

func TestKeysIgnoredUntilLoaded(t *testing.T) {
	a := NewApp(config.DefaultConfig(), &fakeStore{}, logging.Discard(), false)
	a, _ = press(t, a, "3")
	if a.activeTab != tabCashflow {
		t.Fatal("tab changed before the log loaded")
	}
}

func TestEditAndCancel(t *testing.T) {
	a := newTestApp(t, &fakeStore{})

	a, _ = press(t, a, "e")
	if a.edit == nil || a.edit.kind != formCashflow {
		t.Fatalf("edit = %+v, want cashflow form", a.edit)
	}
	if !strings.Contains(a.View(), "Edit cashflow inputs") {
		t.Error("form view missing title")
	}

	a, _ = press(t, a, "esc")
	if a.edit != nil {
		t.Fatal("esc should close the form")
	}
}

func TestFinishEditAppliesAndSaves(t *testing.T) {
	a := newTestApp(t, &fakeStore{})
	var saved *config.Config
	a.saveConfig = func(c config.Config) error {
		saved = &c
		return nil
	}

	a, _ = press(t, a, "e")
	a.edit.fields[0].text = "12,000"

	m, _ := a.finishEdit()
	a = m.(App)
	if a.edit != nil {
		t.Fatal("form still open")
	}
	if a.cfg.Cashflow.Salary != 12000 {
		t.Errorf("salary = %v", a.cfg.Cashflow.Salary)
	}
	if a.score.TotalIncome != 13000 {
		t.Errorf("score not recomputed: total income = %v", a.score.TotalIncome)
	}
	if saved == nil || saved.Cashflow.Salary != 12000 {
		t.Error("config not saved")
	}
	if a.flash != "Saved" || a.flashErr {
		t.Errorf("flash = %q (err %v)", a.flash, a.flashErr)
	}
}

func TestFinishEditRejectsBadInput(t *testing.T) {
	a := newTestApp(t, &fakeStore{})
	a.saveConfig = func(config.Config) error {
		t.Fatal("invalid input must not be saved")
		return nil
	}

	a, _ = press(t, a, "2", "e")
	a.edit.fields[0].text = "lots"

	m, _ := a.finishEdit()
	a = m.(App)
	if !a.flashErr {
		t.Fatal("expected an error flash")
	}
	if a.cfg.Simulation.MonthlyContribution != config.DefaultConfig().Simulation.MonthlyContribution {
		t.Error("config changed despite the error")
	}
}

func TestSaveFailureKeepsChanges(t *testing.T) {
	a := newTestApp(t, &fakeStore{})
	a.saveConfig = func(config.Config) error { return errors.New("disk full") }

	a, _ = press(t, a, "e")
	a.edit.fields[4].text = "7000"
	m, _ := a.finishEdit()
	a = m.(App)

	if a.cfg.Cashflow.Expenses != 7000 {
		t.Errorf("expenses = %v", a.cfg.Cashflow.Expenses)
	}
	if !a.flashErr || !strings.Contains(a.flash, "disk full") {
		t.Errorf("flash = %q", a.flash)
	}
}

func TestAddBet(t *testing.T) {
	store := &fakeStore{}
	a := newTestApp(t, store)

	a, _ = press(t, a, "4", "a")
	if a.edit == nil || a.edit.kind != formBet {
		t.Fatal("a should open the bet form")
	}
	a.edit.bet.date = "2026-03-14"
	a.edit.bet.match = "Ajax vs PSV"
	a.edit.bet.pick = betting.Draw
	a.edit.bet.odds = "3.40"
	a.edit.bet.stake = "25"

	m, cmd := a.finishEdit()
	a = run(t, m.(App), cmd)

	if len(store.bets) != 1 || store.bets[0].Label != "Ajax vs PSV" {
		t.Fatalf("store = %+v", store.bets)
	}
	if len(a.betLog) != 1 {
		t.Fatalf("log not reloaded: %d bets", len(a.betLog))
	}
	if a.flash != "Added Ajax vs PSV" {
		t.Errorf("flash = %q", a.flash)
	}
}

func TestAddBetStoreError(t *testing.T) {
	store := &fakeStore{fail: errors.New("locked")}
	a := newTestApp(t, store)

	a, _ = press(t, a, "4", "a")
	a.edit.bet.match = "A vs B"
	a.edit.bet.odds = "2"
	a.edit.bet.stake = "10"

	m, cmd := a.finishEdit()
	a = run(t, m.(App), cmd)
	if !a.flashErr || a.flash != "locked" {
		t.Errorf("flash = %q (err %v)", a.flash, a.flashErr)
	}
}

func TestCycleOutcome(t *testing.T) {
	store := &fakeStore{bets: []betting.Bet{testBet(t, 1, "Old"), testBet(t, 2, "New")}}
	a := newTestApp(t, store)

	// Rows are newest first, so the cursor starts on "New".
	a, cmd := press(t, a, "4", "o")
	a = run(t, a, cmd)

	if store.bets[1].Outcome != betting.HomeWin {
		t.Errorf("outcome = %q, want home", store.bets[1].Outcome)
	}
	if store.bets[0].Outcome != betting.Pending {
		t.Error("wrong bet settled")
	}
	if a.betRows[0].Outcome != betting.HomeWin {
		t.Error("log not reloaded")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	store := &fakeStore{bets: []betting.Bet{testBet(t, 1, "Old"), testBet(t, 2, "New")}}
	a := newTestApp(t, store)

	a, cmd := press(t, a, "4", "d")
	if cmd != nil {
		t.Fatal("first d must only ask for confirmation")
	}
	if !strings.Contains(a.flash, "Press d again") {
		t.Errorf("flash = %q", a.flash)
	}

	// Any other key cancels.
	a, _ = press(t, a, "j")
	a, cmd = press(t, a, "d")
	if cmd != nil {
		t.Fatal("confirmation should reset after moving")
	}

	a, cmd = press(t, a, "d")
	a = run(t, a, cmd)
	if len(store.bets) != 1 || store.bets[0].Label != "New" {
		t.Fatalf("store = %+v", store.bets)
	}
	if len(a.betRows) != 1 || a.betCursor != 0 {
		t.Errorf("rows = %d cursor = %d", len(a.betRows), a.betCursor)
	}
}

func TestCursorBounds(t *testing.T) {
	store := &fakeStore{bets: []betting.Bet{testBet(t, 1, "A"), testBet(t, 2, "B"), testBet(t, 3, "C")}}
	a := newTestApp(t, store)

	a, _ = press(t, a, "4", "k")
	if a.betCursor != 0 {
		t.Errorf("k at top: cursor = %d", a.betCursor)
	}
	a, _ = press(t, a, "G")
	if a.betCursor != 2 {
		t.Errorf("G: cursor = %d", a.betCursor)
	}
	a, _ = press(t, a, "j")
	if a.betCursor != 2 {
		t.Errorf("j at bottom: cursor = %d", a.betCursor)
	}
	a, _ = press(t, a, "g")
	if a.betCursor != 0 {
		t.Errorf("g: cursor = %d", a.betCursor)
	}
}

func TestFirstRunOpensSetup(t *testing.T) {
	a := NewApp(config.DefaultConfig(), &fakeStore{}, logging.Discard(), true)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.(App).Update(BetsLoadedMsg{})
	a = m.(App)

	if a.edit == nil || a.edit.kind != formSetup {
		t.Fatal("setup form not shown on first run")
	}
	a, _ = press(t, a, "esc")
	if a.needSetup {
		t.Error("setup should not be offered again")
	}

	m, _ = a.Update(BetsLoadedMsg{})
	if m.(App).edit != nil {
		t.Error("reload reopened setup")
	}
}

func TestNoStore(t *testing.T) {
	a := newTestApp(t, nil)
	a, _ = press(t, a, "4", "a")
	if a.edit != nil {
		t.Fatal("bet form opened without a store")
	}
	if !a.flashErr {
		t.Error("expected an error flash")
	}
	if !strings.Contains(a.View(), "no betting database") {
		t.Error("betting tab should explain the missing database")
	}
}

func TestViewEveryTab(t *testing.T) {
	store := &fakeStore{bets: []betting.Bet{testBet(t, 1, "Arsenal vs Chelsea"), testBet(t, 2, "Inter vs Milan")}}
	store.bets[0].Outcome = betting.HomeWin
	store.bets[1].Outcome = betting.AwayWin

	for _, size := range []tea.WindowSizeMsg{{Width: 120, Height: 40}, {Width: 80, Height: 24}, {Width: 200, Height: 60}} {
		a := newTestApp(t, store)
		m, _ := a.Update(size)
		a = m.(App)
		for i, tab := range components.Tabs {
			a.activeTab = i
			out := a.View()
			if !strings.Contains(out, tab.Name) {
				t.Errorf("%dx%d %s: tab bar missing", size.Width, size.Height, tab.Name)
			}
			if got := lipgloss.Height(out); got < size.Height {
				t.Errorf("%dx%d %s: height = %d", size.Width, size.Height, tab.Name, got)
			}
		}
	}
}

func TestViewShowsInputErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cashflow.Expenses = -1
	a := NewApp(cfg, &fakeStore{}, logging.Discard(), false)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.(App).Update(BetsLoadedMsg{})
	a = m.(App)

	if a.scoreErr == nil {
		t.Fatal("expected a score error")
	}
	if !strings.Contains(a.View(), "Press e to fix") {
		t.Error("cashflow tab should show the input error")
	}
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(t, &fakeStore{})
	a, _ = press(t, a, "?")
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Fatal("help not shown")
	}
	a, _ = press(t, a, "3")
	if a.showHelp || a.activeTab != tabCashflow {
		t.Error("any key should only close help")
	}
}

func TestTooNarrow(t *testing.T) {
	a := newTestApp(t, &fakeStore{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.(App).View(), "too narrow") {
		t.Error("narrow terminal not reported")
	}
}
