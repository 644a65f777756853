// Package cmd implements the cashflow CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/logging"
	"github.com/theirongolddev/cashflow/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagVerbose bool
	flagSave    bool
)

// cfg and log are populated before any command runs.
var (
	cfg config.Config
	log = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Personal finance dashboards",
	Long: "Score your monthly cash flow, project investment growth, place yourself\n" +
		"on the cashflow quadrant and keep a football betting log.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Betting database path (default "+store.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// loadEnvironment reads .env, the config file and the environment, then
// builds the CLI logger.
func loadEnvironment(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}

	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if flagVerbose {
		opts.Level = "debug"
	}
	log = logging.New(opts, logrus.WarnLevel)
	log.WithField("config", config.ConfigPath()).Debug("configuration loaded")
	return nil
}

func dbPath() string {
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return store.DefaultPath()
}

func openStore() (*store.Store, error) {
	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening betting log: %w", err)
	}
	log.WithField("path", path).Debug("betting log opened")
	return st, nil
}

// remember persists cfg when --save was given.
func remember() error {
	if !flagSave {
		return nil
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Saved inputs to %s\n\n", config.ConfigPath())
	return nil
}

func money(v float64) string {
	return cli.FormatMoney(v, cfg.General.Currency)
}
