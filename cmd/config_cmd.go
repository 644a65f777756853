package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.ConfigPath())
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored dashboard inputs",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", config.ConfigPath(), err)
		}
		fmt.Println(cli.RenderStatus(cli.ToneGood, "Configuration is valid"))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func envOrUnset(name string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return "not set"
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Betting database: %s\n", dbPath())
	fmt.Printf("    Currency:         %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	s := cfg.Cashflow
	fmt.Println("  [Cashflow]")
	fmt.Printf("    Income:      %s salary, %s passive, %s business, %s investment\n",
		money(s.Salary), money(s.PassiveIncome), money(s.BusinessIncome), money(s.InvestmentIncome))
	fmt.Printf("    Expenses:    %s\n", money(s.Expenses))
	fmt.Printf("    Cash:        %s\n", money(s.Cash))
	fmt.Printf("    Liabilities: %s\n", money(s.Liabilities))
	fmt.Println()

	sim := cfg.Simulation
	fmt.Println("  [Simulation]")
	fmt.Printf("    Plan:   %s/mo at %s for %d years\n", money(sim.MonthlyContribution), cli.FormatPercent(sim.AnnualRate), sim.Years)
	fmt.Printf("    Target: %s/mo within %d years\n", money(sim.TargetPassive), sim.MaxYears)
	fmt.Println()

	q := cfg.Quadrant
	fmt.Println("  [Quadrant]")
	fmt.Printf("    Income:      %s\n", money(q.TotalIncome()))
	fmt.Printf("    Assets:      %s\n", money(q.TotalAssets()))
	fmt.Printf("    Liabilities: %s\n", money(q.TotalLiabilities()))
	fmt.Printf("    What-if:     +%s passive, -%s expenses\n", money(q.ExtraPassive), money(q.ReducedExpenses))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s  Format: %s\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Println()

	fmt.Println("  [Environment]")
	for _, name := range []string{config.EnvDB, config.EnvTheme, config.EnvLogLevel} {
		fmt.Printf("    %-18s %s\n", name, envOrUnset(name))
	}
	fmt.Println()

	fmt.Println("  Run `cashflow setup` to reconfigure.")
	return nil
}
