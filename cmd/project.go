package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/finance"

	"github.com/spf13/cobra"
)

var (
	flagMonthly  float64
	flagRate     float64
	flagYears    int
	flagTarget   float64
	flagMaxYears int
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the growth of a monthly investment",
	Long: "Compound a monthly contribution at a fixed annual rate and show the\n" +
		"value at every year boundary. Rates are fractions: 0.07 is 7%.",
	RunE: runProject,
}

var breakevenCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Find the year investment income reaches a monthly target",
	RunE:  runBreakeven,
}

func init() {
	for _, c := range []*cobra.Command{projectCmd, breakevenCmd} {
		f := c.Flags()
		f.Float64Var(&flagMonthly, "monthly", 0, "Monthly contribution")
		f.Float64Var(&flagRate, "rate", 0, "Annual return as a fraction (0.07 = 7%)")
		f.BoolVar(&flagSave, "save", false, "Remember these inputs")
	}
	projectCmd.Flags().IntVar(&flagYears, "years", 0, "Horizon in years")
	breakevenCmd.Flags().Float64Var(&flagTarget, "target", 0, "Target monthly passive income")
	breakevenCmd.Flags().IntVar(&flagMaxYears, "max-years", 0, "Search limit in years")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(breakevenCmd)
}

func applySimulationFlags(cmd *cobra.Command) {
	sim := &cfg.Simulation
	f := cmd.Flags()
	overlayFloat(f, "monthly", &sim.MonthlyContribution, flagMonthly)
	overlayFloat(f, "rate", &sim.AnnualRate, flagRate)
	if f.Lookup("years") != nil {
		overlayInt(f, "years", &sim.Years, flagYears)
	}
	if f.Lookup("target") != nil {
		overlayFloat(f, "target", &sim.TargetPassive, flagTarget)
		overlayInt(f, "max-years", &sim.MaxYears, flagMaxYears)
	}
}

func runProject(cmd *cobra.Command, _ []string) error {
	applySimulationFlags(cmd)
	plan := cfg.Simulation.Plan()

	points, err := finance.ProjectGrowth(plan)
	if err != nil {
		return err
	}
	summary, err := finance.Summarize(plan)
	if err != nil {
		return err
	}
	if err := remember(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("GROWTH  %s/mo at %s for %dy",
		money(plan.MonthlyContribution), cli.FormatPercent(plan.AnnualRate), plan.Years)))
	fmt.Println()

	rows := make([][]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(p.Year),
			money(p.Contributions),
			money(p.Value),
			cli.FormatSignedMoney(p.Value-p.Contributions, cfg.General.Currency),
		})
		values = append(values, p.Value)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Year",
		Headers: []string{"Year", "Contributed", "Value", "Growth"},
		Rows:    rows,
	}))

	fmt.Printf("  Value  %s\n\n", cli.RenderSparkline(values))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Amount"},
		Rows: [][]string{
			{"Total contributed", money(summary.TotalContributed)},
			{"Future value", money(summary.FutureValue)},
			{"Investment return", cli.FormatSignedMoney(summary.Return, cfg.General.Currency)},
			{"Monthly income at 100%", money(finance.MonthlyPassiveIncome(summary.FutureValue, plan.AnnualRate))},
		},
	}))
	return nil
}

func runBreakeven(cmd *cobra.Command, _ []string) error {
	applySimulationFlags(cmd)
	sim := cfg.Simulation

	year, ok, err := finance.FindBreakEvenYear(sim.Plan(), sim.TargetPassive, sim.MaxYears)
	if err != nil {
		return err
	}
	if err := remember(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Investing %s/mo at %s toward %s/mo of passive income\n\n",
		money(sim.MonthlyContribution), cli.FormatPercent(sim.AnnualRate), money(sim.TargetPassive))
	if !ok {
		fmt.Println(cli.RenderStatus(cli.ToneWarn, fmt.Sprintf("Not reached within %d years", sim.MaxYears)))
		fmt.Println()
		return nil
	}

	value := finance.FutureValue(sim.MonthlyContribution, sim.AnnualRate, year)
	fmt.Println(cli.RenderStatus(cli.ToneGood, fmt.Sprintf("Reached in year %d", year)))
	fmt.Println(cli.RenderStatus(cli.ToneInfo, fmt.Sprintf("Portfolio %s, paying %s/mo",
		money(value), money(finance.MonthlyPassiveIncome(value, sim.AnnualRate)))))
	fmt.Println()
	return nil
}
