package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/finance"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func gradeColor(g finance.Grade) lipgloss.Color {
	t := theme.Active
	switch g {
	case finance.GradeExcellent:
		return t.GreenBright
	case finance.GradeGood:
		return t.Green
	case finance.GradeFair:
		return t.Yellow
	}
	return t.Red
}

func gradeIcon(g finance.Grade) string {
	switch g {
	case finance.GradeExcellent, finance.GradeGood:
		return "●"
	case finance.GradeFair:
		return "▲"
	}
	return "✖"
}

func (a App) renderCashflowTab(cw int) string {
	if a.scoreErr != nil {
		return errorCard("Cashflow", a.scoreErr, cw)
	}

	t := theme.Active
	s := a.cfg.Cashflow
	sc := a.score

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total income", Value: a.money(sc.TotalIncome), Delta: "per month"},
		{Label: "Expenses", Value: a.money(s.Expenses)},
		{Label: "Cash flow", Value: cli.FormatSignedMoney(sc.CashFlow, a.cfg.General.Currency), Color: t.Signed(sc.CashFlow)},
		{Label: "Passive income", Value: a.money(sc.PassiveTotal), Delta: "passive + business + investment"},
	}, cw))
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Emergency fund", Value: cli.FormatMonths(sc.EmergencyFundMonths), Delta: "target 6 mo"},
		{Label: "Debt-to-income", Value: cli.FormatPercent(sc.DebtToIncome), Delta: "healthy below 36%"},
		{Label: "Savings rate", Value: cli.FormatPercent(sc.SavingsRate), Delta: "target 20%"},
		{Label: "Passive / expenses", Value: cli.FormatPercent(sc.PassiveIncomeRatio)},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	// Income sources as horizontal bars.
	incomes := []struct {
		label string
		value float64
		color lipgloss.Color
	}{
		{"Salary", s.Salary, t.Blue},
		{"Passive", s.PassiveIncome, t.Green},
		{"Business", s.BusinessIncome, t.Magenta},
		{"Investment", s.InvestmentIncome, t.Cyan},
	}
	peak := 0.0
	for _, in := range incomes {
		peak = max(peak, in.value)
	}
	barW := max(components.CardInnerWidth(halves[0])-28, 8)
	var incomeBody strings.Builder
	for i, in := range incomes {
		if i > 0 {
			incomeBody.WriteString("\n")
		}
		incomeBody.WriteString(components.HBar(in.label, in.value, peak, 10, barW, in.color, a.money(in.value)))
	}
	incomeCard := components.ContentCard("Income sources", incomeBody.String(), halves[0])

	waterfall := components.Waterfall([]components.WaterfallStep{
		{Label: "Salary", Amount: s.Salary},
		{Label: "Passive", Amount: s.PassiveIncome},
		{Label: "Business", Amount: s.BusinessIncome},
		{Label: "Investment", Amount: s.InvestmentIncome},
		{Label: "Expenses", Amount: -s.Expenses},
		{Label: "Cash flow", Total: true},
	}, 10, max(components.CardInnerWidth(halves[1])-28, 8), a.money)
	waterfallCard := components.ContentCard("Monthly waterfall", waterfall, halves[1])

	if a.isCompactLayout() {
		b.WriteString(incomeCard)
		b.WriteString("\n")
		b.WriteString(waterfallCard)
	} else {
		b.WriteString(components.CardRow([]string{incomeCard, waterfallCard}))
	}
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	good := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)

	innerW := components.CardInnerWidth(cw)
	var freedomBody strings.Builder
	freedomBody.WriteString(components.GoalBar("Freedom", sc.FreedomProgress, 8, max(innerW-15, 10)))
	freedomBody.WriteString("\n")
	if sc.FinanciallyFree {
		freedomBody.WriteString(good.Render("Passive income covers your expenses."))
	} else {
		freedomBody.WriteString(muted.Render(fmt.Sprintf("%s more passive income per month to cover expenses.",
			a.money(sc.PassiveIncomeGap))))
	}
	b.WriteString(components.ContentCard("Financial freedom", freedomBody.String(), cw))
	b.WriteString("\n")

	var assessBody strings.Builder
	for i, as := range sc.Assessments {
		if i > 0 {
			assessBody.WriteString("\n")
		}
		style := lipgloss.NewStyle().Foreground(gradeColor(as.Grade)).Background(t.Surface)
		assessBody.WriteString(style.Render(fmt.Sprintf("%s %-9s ", gradeIcon(as.Grade), as.Grade)))
		assessBody.WriteString(muted.Render(truncStr(as.Message, innerW-12)))
	}
	b.WriteString(components.ContentCard("Assessment", assessBody.String(), cw))

	return b.String()
}
