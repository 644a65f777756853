package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/quadrant"

	"github.com/spf13/cobra"
)

var quadrantCmd = &cobra.Command{
	Use:   "quadrant",
	Short: "Financial statements, quadrant position and a what-if simulation",
	RunE:  runQuadrant,
}

var quadrantFlags config.QuadrantConfig

// quadrantInputs pairs each flag with the field it edits in a QuadrantConfig.
func quadrantInputs(q *config.QuadrantConfig) []struct {
	name, usage string
	p           *float64
} {
	return []struct {
		name, usage string
		p           *float64
	}{
		{"salary", "Monthly salary", &q.Salary},
		{"business", "Monthly business income", &q.BusinessIncome},
		{"investment", "Monthly investment income", &q.InvestmentIncome},
		{"expenses", "Monthly expenses", &q.Expenses},
		{"savings", "Savings balance", &q.Savings},
		{"stocks", "Stock holdings", &q.Stocks},
		{"real-estate", "Real estate value", &q.RealEstate},
		{"business-value", "Business value", &q.BusinessValue},
		{"mortgage", "Mortgage balance", &q.Mortgage},
		{"car-loan", "Car loan balance", &q.CarLoan},
		{"credit-card", "Credit card debt", &q.CreditCardDebt},
		{"other-debts", "Other debts", &q.OtherDebts},
		{"extra-passive", "What-if: extra monthly passive income", &q.ExtraPassive},
		{"reduce-expenses", "What-if: monthly expense reduction", &q.ReducedExpenses},
	}
}

func init() {
	for _, in := range quadrantInputs(&quadrantFlags) {
		quadrantCmd.Flags().Float64Var(in.p, in.name, 0, in.usage)
	}
	quadrantCmd.Flags().BoolVar(&flagSave, "save", false, "Remember these inputs")
	rootCmd.AddCommand(quadrantCmd)
}

func runQuadrant(cmd *cobra.Command, _ []string) error {
	flags := quadrantInputs(&quadrantFlags)
	for i, in := range quadrantInputs(&cfg.Quadrant) {
		overlayFloat(cmd.Flags(), in.name, in.p, *flags[i].p)
	}
	q := cfg.Quadrant

	report, err := quadrant.Analyze(q.Sheet)
	if err != nil {
		return err
	}
	freedom, err := quadrant.WhatIf(q.Sheet, q.ExtraPassive, q.ReducedExpenses)
	if err != nil {
		return err
	}
	if err := remember(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASHFLOW QUADRANT"))
	fmt.Println()

	statement := func(title string, lines []quadrant.Line) {
		rows := make([][]string, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, []string{l.Label, cli.FormatSignedMoney(l.Amount, cfg.General.Currency)})
		}
		fmt.Print(cli.RenderTable(cli.Table{Title: title, Headers: []string{"Line", "Amount"}, Rows: rows}))
	}
	statement("Balance Sheet", report.BalanceSheet)
	statement("Income Statement", report.IncomeStatement)
	statement("Cash Flow Statement", report.CashFlowStatement)

	mix := func(title string, shares []quadrant.Share) {
		maxPct := 0.0
		for _, s := range shares {
			maxPct = max(maxPct, s.Percent)
		}
		fmt.Printf("  %s\n", title)
		for _, s := range shares {
			fmt.Printf("%s %s\n", cli.RenderHorizontalBar(fmt.Sprintf("%-18s", s.Label), s.Percent, maxPct, 30), cli.FormatPct(s.Percent))
		}
		fmt.Println()
	}
	mix("Income mix", report.IncomeMix)
	mix("Asset mix", report.AssetMix)

	pos := report.Position
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Position",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Dominant quadrant", pos.Dominant.Label()},
			{"Grid region", quadrant.Region(pos.X, pos.Y).Label()},
			{"Coordinates", fmt.Sprintf("(%.2f, %.2f)", pos.X, pos.Y)},
			{"---"},
			{"Savings rate", cli.FormatPct(report.SavingsRate)},
			{"Debt-to-income", cli.FormatPct(report.DebtToIncome)},
			{"Passive share", cli.FormatPct(report.PassiveShare)},
		},
	}))

	fmt.Println("  Advice")
	for _, a := range report.Advice {
		tone := cli.ToneWarn
		if a.OK {
			tone = cli.ToneGood
		}
		fmt.Println(cli.RenderStatus(tone, a.Message))
	}
	fmt.Println()

	fmt.Printf("  What if: +%s passive, -%s expenses\n", money(q.ExtraPassive), money(q.ReducedExpenses))
	fmt.Printf("  %s\n", cli.RenderGauge(freedom.Percent/100, 40))
	fmt.Println(cli.RenderStatus(cli.ToneInfo, fmt.Sprintf("Passive %s, expenses %s, net %s",
		money(freedom.NewPassiveIncome), money(freedom.NewExpenses),
		cli.FormatSignedMoney(freedom.NewNetIncome, cfg.General.Currency))))
	if freedom.Reached {
		fmt.Println(cli.RenderStatus(cli.ToneGood, fmt.Sprintf("Financially free; debts cleared in %d months", freedom.MonthsToFreedom)))
	} else {
		fmt.Println(cli.RenderStatus(cli.ToneWarn, "Passive income does not yet cover expenses"))
	}
	fmt.Println()
	return nil
}
