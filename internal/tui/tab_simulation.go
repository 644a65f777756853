package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/finance"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSimulationTab(cw, contentH int) string {
	if a.simErr != nil {
		return errorCard("Simulation", a.simErr, cw)
	}

	t := theme.Active
	sim := a.cfg.Simulation
	g := a.growth

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Monthly contribution", Value: a.money(sim.MonthlyContribution),
			Delta: fmt.Sprintf("%s a year", cli.FormatPercent(sim.AnnualRate))},
		{Label: "Contributed", Value: a.money(g.TotalContributed), Delta: fmt.Sprintf("over %d years", sim.Years)},
		{Label: "Future value", Value: a.money(g.FutureValue), Color: t.Green},
		{Label: "Investment return", Value: a.money(g.Return), Color: t.Signed(g.Return)},
	}, cw))
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	good := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	var be strings.Builder
	be.WriteString(muted.Render("Target passive income  "))
	be.WriteString(value.Render(a.money(sim.TargetPassive) + " / mo"))
	be.WriteString("\n")
	if a.breakEvenOK {
		be.WriteString(muted.Render("Reached in year        "))
		be.WriteString(good.Render(strconv.Itoa(a.breakEvenYear)))
	} else {
		be.WriteString(warn.Render(fmt.Sprintf("Not reached within %d years", sim.MaxYears)))
	}
	be.WriteString("\n")
	be.WriteString(muted.Render(fmt.Sprintf("Passive income at year %-3d", sim.Years)))
	be.WriteString(value.Render(a.money(finance.MonthlyPassiveIncome(g.FutureValue, sim.AnnualRate)) + " / mo"))
	breakEven := components.ContentCard("Break-even", be.String(), cw)

	used := lipgloss.Height(b.String()) + lipgloss.Height(breakEven) + 1
	// Card border, title and legend.
	chartH := max(contentH-used-5, 6)
	innerW := components.CardInnerWidth(cw)

	bars := make([]components.StackedBar, 0, len(a.points))
	for _, p := range a.points {
		if p.Year == 0 {
			continue
		}
		bars = append(bars, components.StackedBar{
			Label: strconv.Itoa(p.Year),
			Base:  p.Contributions,
			Total: p.Value,
		})
	}

	var chart string
	if len(bars) == 0 {
		chart = muted.Render("Set a horizon of at least one year to see the projection.")
	} else {
		legend := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface).Render("■") +
			muted.Render(" contributions  ") +
			lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("■") +
			muted.Render(" growth")
		chart = components.StackedBarChart(bars, t.Blue, t.Green, innerW, chartH) + "\n" + legend
	}
	b.WriteString(components.ContentCard("Projected value by year", chart, cw))
	b.WriteString("\n")
	b.WriteString(breakEven)

	return b.String()
}
