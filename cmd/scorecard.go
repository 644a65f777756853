package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/finance"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var scorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Monthly cash flow ratios and health assessment",
	Long: "Compute cash flow, emergency fund, debt-to-income, savings rate and\n" +
		"financial freedom progress. Flags override the remembered inputs.",
	RunE: runScorecard,
}

var snapshotFlags finance.Snapshot

func init() {
	f := scorecardCmd.Flags()
	f.Float64Var(&snapshotFlags.Salary, "salary", 0, "Monthly salary")
	f.Float64Var(&snapshotFlags.PassiveIncome, "passive", 0, "Monthly passive income")
	f.Float64Var(&snapshotFlags.BusinessIncome, "business", 0, "Monthly business income")
	f.Float64Var(&snapshotFlags.InvestmentIncome, "investment", 0, "Monthly investment income")
	f.Float64Var(&snapshotFlags.Expenses, "expenses", 0, "Monthly expenses")
	f.Float64Var(&snapshotFlags.Cash, "cash", 0, "Cash reserves")
	f.Float64Var(&snapshotFlags.Liabilities, "liabilities", 0, "Monthly debt payments")
	f.BoolVar(&flagSave, "save", false, "Remember these inputs")
	rootCmd.AddCommand(scorecardCmd)
}

// overlayFloat copies a flag value into dst when the flag was set.
func overlayFloat(flags *pflag.FlagSet, name string, dst *float64, v float64) {
	if flags.Changed(name) {
		*dst = v
	}
}

func overlayInt(flags *pflag.FlagSet, name string, dst *int, v int) {
	if flags.Changed(name) {
		*dst = v
	}
}

func runScorecard(cmd *cobra.Command, _ []string) error {
	s := &cfg.Cashflow
	f := cmd.Flags()
	overlayFloat(f, "salary", &s.Salary, snapshotFlags.Salary)
	overlayFloat(f, "passive", &s.PassiveIncome, snapshotFlags.PassiveIncome)
	overlayFloat(f, "business", &s.BusinessIncome, snapshotFlags.BusinessIncome)
	overlayFloat(f, "investment", &s.InvestmentIncome, snapshotFlags.InvestmentIncome)
	overlayFloat(f, "expenses", &s.Expenses, snapshotFlags.Expenses)
	overlayFloat(f, "cash", &s.Cash, snapshotFlags.Cash)
	overlayFloat(f, "liabilities", &s.Liabilities, snapshotFlags.Liabilities)

	sc, err := finance.ComputeScoreCard(*s)
	if err != nil {
		return err
	}
	if err := remember(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASHFLOW SCORECARD"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly",
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Salary", money(s.Salary)},
			{"Passive income", money(s.PassiveIncome)},
			{"Business income", money(s.BusinessIncome)},
			{"Investment income", money(s.InvestmentIncome)},
			{"---"},
			{"Total income", money(sc.TotalIncome)},
			{"Expenses", money(s.Expenses)},
			{"Cash flow", cli.FormatSignedMoney(sc.CashFlow, cfg.General.Currency)},
		},
	}))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Ratios",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Emergency fund", cli.FormatMonths(sc.EmergencyFundMonths)},
			{"Debt-to-income", cli.FormatPercent(sc.DebtToIncome)},
			{"Savings rate", cli.FormatPercent(sc.SavingsRate)},
			{"Passive / expenses", cli.FormatPercent(sc.PassiveIncomeRatio)},
			{"Freedom progress", cli.FormatPercent(sc.FreedomProgress)},
		},
	}))

	fmt.Println("  Financial freedom")
	fmt.Printf("  %s\n", cli.RenderGauge(sc.FreedomProgress, 40))
	if sc.FinanciallyFree {
		fmt.Println(cli.RenderStatus(cli.ToneGood, "Passive income covers your expenses"))
	} else {
		fmt.Println(cli.RenderStatus(cli.ToneInfo, fmt.Sprintf("%s more passive income needed each month", money(sc.PassiveIncomeGap))))
	}
	fmt.Println()

	fmt.Println("  Assessment")
	for _, a := range sc.Assessments {
		fmt.Println(cli.RenderStatus(gradeTone(a.Grade), fmt.Sprintf("%-9s %s", a.Grade, a.Message)))
	}
	fmt.Println()
	return nil
}

func gradeTone(g finance.Grade) cli.Tone {
	switch g {
	case finance.GradeExcellent, finance.GradeGood:
		return cli.ToneGood
	case finance.GradeFair:
		return cli.ToneWarn
	}
	return cli.ToneBad
}
