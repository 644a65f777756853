package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func setupNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("enter a number")
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}

func moneyInput(title string, text *string) *huh.Input {
	return huh.NewInput().Title(title).Value(text).Validate(func(s string) error {
		_, err := setupNumber(s)
		return err
	})
}

func runSetup(_ *cobra.Command, _ []string) error {
	s := &cfg.Cashflow
	salary := strconv.FormatFloat(s.Salary, 'f', -1, 64)
	passive := strconv.FormatFloat(s.PassiveIncome, 'f', -1, 64)
	expenses := strconv.FormatFloat(s.Expenses, 'f', -1, 64)
	cash := strconv.FormatFloat(s.Cash, 'f', -1, 64)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cashflow").
				Description("A few questions to seed your dashboards.\nEverything can be changed later."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&cfg.Appearance.Theme),
			huh.NewInput().
				Title("Currency symbol").
				Value(&cfg.General.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("currency symbol is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			moneyInput("Monthly salary", &salary),
			moneyInput("Monthly passive income", &passive),
			moneyInput("Monthly expenses", &expenses),
			moneyInput("Cash reserves", &cash),
		).Title("Your month"),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	// Validated by the form.
	s.Salary, _ = setupNumber(salary)
	s.PassiveIncome, _ = setupNumber(passive)
	s.Expenses, _ = setupNumber(expenses)
	s.Cash, _ = setupNumber(cash)
	cfg.General.Currency = strings.TrimSpace(cfg.General.Currency)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cashflow setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
