package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/quadrant"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var quadrantNames = [4]string{"S Self-employed", "E Employee", "B Business Owner", "I Investor"}

func (a App) statement(lines []quadrant.Line, width int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		amount := a.money(l.Amount)
		labelW := max(width-lipgloss.Width(amount)-1, 1)
		b.WriteString(label.Render(fmt.Sprintf("%-*s ", labelW, truncStr(l.Label, labelW))))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Signed(l.Amount)).Background(t.Surface).Render(amount))
	}
	return b.String()
}

func (a App) shareBars(shares []quadrant.Share, width int, colors []lipgloss.Color) string {
	var b strings.Builder
	barW := max(width-26, 6)
	for i, s := range shares {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.HBar(s.Label, s.Percent, 100, 12, barW, colors[i%len(colors)], cli.FormatPct(s.Percent)))
	}
	return b.String()
}

func (a App) renderQuadrantTab(cw int) string {
	if a.quadErr != nil {
		return errorCard("Quadrant", a.quadErr, cw)
	}

	t := theme.Active
	r := a.report
	f := a.freedom

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total income", Value: a.money(r.TotalIncome)},
		{Label: "Net income", Value: cli.FormatSignedMoney(r.NetIncome, a.cfg.General.Currency), Color: t.Signed(r.NetIncome)},
		{Label: "Net worth", Value: cli.FormatSignedMoney(r.NetWorth, a.cfg.General.Currency), Color: t.Signed(r.NetWorth)},
		{Label: "Quadrant", Value: r.Position.Dominant.Label(), Color: t.Magenta,
			Delta: "grid: " + quadrant.Region(r.Position.X, r.Position.Y).Label()},
	}, cw))
	b.WriteString("\n")

	compact := a.isCompactLayout()
	thirds := components.LayoutRow(cw, 3)
	if compact {
		thirds = []int{cw, cw, cw}
	}
	cards := []string{
		components.ContentCard("Balance sheet", a.statement(r.BalanceSheet, components.CardInnerWidth(thirds[0])), thirds[0]),
		components.ContentCard("Income statement", a.statement(r.IncomeStatement, components.CardInnerWidth(thirds[1])), thirds[1]),
		components.ContentCard("Cash flow statement", a.statement(r.CashFlowStatement, components.CardInnerWidth(thirds[2])), thirds[2]),
	}
	if compact {
		b.WriteString(strings.Join(cards, "\n"))
	} else {
		b.WriteString(components.CardRow(cards))
	}
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if compact {
		halves = []int{cw, cw}
	}
	gridCellW := max(min((components.CardInnerWidth(halves[0])-3)/2, 24), 8)
	grid := components.QuadrantGrid(r.Position.X, r.Position.Y, quadrantNames, gridCellW, 3)
	gridCard := components.ContentCard("Cashflow quadrant", grid, halves[0])

	mixW := components.CardInnerWidth(halves[1])
	palette := []lipgloss.Color{t.Blue, t.Magenta, t.Cyan, t.Green, t.Yellow, t.Orange}
	mixBody := a.shareBars(r.IncomeMix, mixW, palette) + "\n\n" + a.shareBars(r.AssetMix, mixW, palette[2:])
	mixCard := components.ContentCard("Income and asset mix", mixBody, halves[1])

	if compact {
		b.WriteString(gridCard + "\n" + mixCard)
	} else {
		b.WriteString(components.CardRow([]string{gridCard, mixCard}))
	}
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	badStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	innerW := components.CardInnerWidth(halves[0])
	var adv strings.Builder
	adv.WriteString(muted.Render(fmt.Sprintf("Savings %s  Debt/income %s  Passive %s",
		cli.FormatPct(r.SavingsRate), cli.FormatPct(r.DebtToIncome), cli.FormatPct(r.PassiveShare))))
	for _, ad := range r.Advice {
		adv.WriteString("\n")
		if ad.OK {
			adv.WriteString(okStyle.Render("✓ " + truncStr(ad.Message, innerW-2)))
		} else {
			adv.WriteString(badStyle.Render("✖ " + truncStr(ad.Message, innerW-2)))
		}
	}
	adviceCard := components.ContentCard("Ratios", adv.String(), halves[0])

	freeW := components.CardInnerWidth(halves[1])
	var wf strings.Builder
	wf.WriteString(components.GoalBar("Freedom", f.Percent/100, 8, max(freeW-15, 10)))
	wf.WriteString("\n")
	wf.WriteString(muted.Render(fmt.Sprintf("Passive %s  Expenses %s", a.money(f.NewPassiveIncome), a.money(f.NewExpenses))))
	wf.WriteString("\n")
	if f.Reached {
		wf.WriteString(okStyle.Render(fmt.Sprintf("Free. Debts cleared in %d months from the surplus.", f.MonthsToFreedom)))
	} else {
		wf.WriteString(badStyle.Render(fmt.Sprintf("Passive income is %s short of expenses.",
			a.money(f.NewExpenses-f.NewPassiveIncome))))
	}
	whatIfCard := components.ContentCard(fmt.Sprintf("What if +%s passive, -%s expenses",
		a.money(a.cfg.Quadrant.ExtraPassive), a.money(a.cfg.Quadrant.ReducedExpenses)), wf.String(), halves[1])

	if compact {
		b.WriteString(adviceCard + "\n" + whatIfCard)
	} else {
		b.WriteString(components.CardRow([]string{adviceCard, whatIfCard}))
	}

	return b.String()
}
