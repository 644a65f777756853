package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// loadBetsCmd reads the whole log. A nil store loads as empty.
func loadBetsCmd(store BetStore, note string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return BetsLoadedMsg{Note: note}
		}
		bets, err := store.ListBets()
		return BetsLoadedMsg{Bets: bets, Err: err, Note: note}
	}
}

// mutateBetsCmd runs op against the store and reloads the log on success.
func mutateBetsCmd(store BetStore, note string, op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return betOpFailedMsg{err: err}
		}
		return loadBetsCmd(store, note)()
	}
}

// updateBettingKeys handles the betting tab's own bindings. handled is
// false for keys that fall through to the global bindings.
func (a App) updateBettingKeys(key string) (model tea.Model, cmd tea.Cmd, handled bool) {
	switch key {
	case "a":
		m, openCmd := a.openEditor(formBet)
		return m, openCmd, true
	case "r":
		return a, loadBetsCmd(a.bets, "Reloaded"), true
	case "j", "down":
		if a.betCursor < len(a.betRows)-1 {
			a.betCursor++
		}
		return a, nil, true
	case "k", "up":
		if a.betCursor > 0 {
			a.betCursor--
		}
		return a, nil, true
	case "g":
		a.betCursor = 0
		return a, nil, true
	case "G":
		a.betCursor = max(len(a.betRows)-1, 0)
		return a, nil, true
	}

	b, ok := a.selectedBet()
	if !ok || a.bets == nil {
		return a, nil, key == "o" || key == "d"
	}
	store := a.bets

	switch key {
	case "o":
		next := b.Outcome.Next()
		note := fmt.Sprintf("%s: %s", truncStr(b.Label, 30), next)
		return a, mutateBetsCmd(store, note, func() error {
			return store.UpdateOutcome(b.ID, next)
		}), true
	case "d":
		if a.pendingDel != b.ID {
			a.pendingDel = b.ID
			a.setFlash(fmt.Sprintf("Press d again to delete %q", truncStr(b.Label, 30)), true)
			return a, nil, true
		}
		a.pendingDel = uuid.Nil
		return a, mutateBetsCmd(store, "Deleted "+truncStr(b.Label, 30), func() error {
			return store.DeleteBet(b.ID)
		}), true
	}
	return a, nil, false
}

func outcomeColor(b betting.Bet) lipgloss.Color {
	t := theme.Active
	switch {
	case b.Outcome == betting.Pending:
		return t.Yellow
	case b.Won():
		return t.Green
	}
	return t.Red
}

func (a App) renderBettingTab(cw, contentH int) string {
	t := theme.Active
	cur := a.cfg.General.Currency

	if a.bets == nil {
		return errorCard("Betting log", fmt.Errorf("no betting database is open"), cw)
	}
	if a.betErr != nil {
		return errorCard("Betting log", a.betErr, cw)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.betLog) == 0 {
		return components.ContentCard("Betting log",
			muted.Render("No bets recorded yet. Press ")+value.Render("a")+muted.Render(" to add one."), cw)
	}

	sum := betting.Summarize(a.betLog)
	profit := sum.Profit.InexactFloat64()

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Bets", Value: cli.FormatNumber(int64(sum.Bets)), Delta: fmt.Sprintf("%d pending", sum.Pending)},
		{Label: "Staked", Value: cli.FormatDecimal(sum.Stake, cur)},
		{Label: "Profit", Value: cli.FormatSignedMoney(profit, cur), Color: t.Signed(profit)},
		{Label: "Win rate", Value: cli.FormatPct(sum.WinRate), Delta: fmt.Sprintf("%d won", sum.Wins)},
		{Label: "ROI", Value: cli.FormatPct(sum.ROI), Color: t.Signed(sum.ROI)},
	}, cw))
	b.WriteString("\n")

	// Cumulative profit and the strategy advice side by side.
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw}
	}
	curve := betting.CumulativeProfit(a.betLog)
	values := make([]float64, len(curve))
	for i, p := range curve {
		values[i] = p.Cumulative.InexactFloat64()
	}
	sparkW := components.CardInnerWidth(halves[0])
	if len(values) > sparkW {
		values = values[len(values)-sparkW:]
	}
	last := curve[len(curve)-1].Cumulative.InexactFloat64()
	curveBody := components.Sparkline(values, t.Signed(last)) + "\n" +
		muted.Render("now ") + lipgloss.NewStyle().Foreground(t.Signed(last)).Background(t.Surface).Render(cli.FormatSignedMoney(last, cur))
	curveCard := components.ContentCard("Cumulative profit", curveBody, halves[0])

	var adviceBody string
	if advice, ok := betting.Advise(a.betLog); ok {
		adviceBody = muted.Render(strings.Join(advice.Lines(), "\n"))
	} else {
		adviceBody = muted.Render("Settle a few bets to get advice.")
	}
	if len(halves) == 2 {
		b.WriteString(components.CardRow([]string{curveCard, components.ContentCard("Strategy", adviceBody, halves[1])}))
	} else {
		b.WriteString(curveCard)
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Strategy", adviceBody, cw))
	}
	b.WriteString("\n")

	byPick := a.groupTable(betting.ByPick(a.betLog))
	byBand := a.groupTable(betting.ByOddsBand(a.betLog))
	if len(halves) == 2 {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("By pick", byPick, halves[0]),
			components.ContentCard("By odds", byBand, halves[1]),
		}))
	} else {
		b.WriteString(components.ContentCard("By pick", byPick, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("By odds", byBand, cw))
	}
	b.WriteString("\n")

	used := lipgloss.Height(b.String())
	b.WriteString(a.renderBetList(cw, contentH-used))
	return b.String()
}

func (a App) groupTable(groups []betting.Group) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-10s %5s %5s %12s %9s", "", "Bets", "Won", "Profit", "ROI")))
	for _, g := range groups {
		profit := g.Profit.InexactFloat64()
		b.WriteString("\n")
		b.WriteString(cell.Render(fmt.Sprintf("%-10s %5d %5d ", g.Key, g.Bets, g.Wins)))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Signed(profit)).Background(t.Surface).
			Render(fmt.Sprintf("%12s %9s", cli.FormatSignedMoney(profit, a.cfg.General.Currency), cli.FormatPct(g.ROI))))
	}
	return b.String()
}

// renderBetList draws the newest-first record list, scrolled so the cursor
// stays visible within height lines.
func (a App) renderBetList(cw, height int) string {
	t := theme.Active
	cur := a.cfg.General.Currency

	// Card border, title and header row.
	rows := max(height-4, 3)
	offset := max(a.betCursor-rows+1, 0)

	innerW := components.CardInnerWidth(cw)
	matchW := max(innerW-58, 12)

	head := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("  %-10s  %-*s  %-5s  %6s  %10s  %-7s  %11s",
		"Date", matchW, "Match", "Pick", "Odds", "Stake", "Result", "Profit")))

	end := min(offset+rows, len(a.betRows))
	for i := offset; i < end; i++ {
		bet := a.betRows[i]
		bg := t.Surface
		marker := "  "
		if i == a.betCursor {
			bg = t.SurfaceBright
			marker = "▸ "
		}
		base := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
		outcome := lipgloss.NewStyle().Foreground(outcomeColor(bet)).Background(bg)

		line := base.Render(fmt.Sprintf("%s%-10s  %-*s  %-5s  %6s  %10s  ",
			marker,
			bet.Date.Format("2006-01-02"),
			matchW, truncStr(bet.Label, matchW),
			bet.Pick,
			bet.Odds.StringFixed(2),
			cli.FormatDecimal(bet.Stake, cur))) +
			outcome.Render(fmt.Sprintf("%-7s  %11s", bet.Outcome, cli.FormatSignedMoney(bet.Profit().InexactFloat64(), cur)))

		if pad := innerW - lipgloss.Width(line); pad > 0 {
			line += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", pad))
		}
		b.WriteString("\n")
		b.WriteString(line)
	}

	title := fmt.Sprintf("Bets (%d of %d)", min(a.betCursor+1, len(a.betRows)), len(a.betRows))
	return components.ContentCard(title, b.String(), cw)
}
