package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/cashflow/internal/finance"
	"github.com/theirongolddev/cashflow/internal/quadrant"
)

// Config holds all cashflow configuration, including the last values
// entered in each dashboard.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Cashflow   finance.Snapshot `toml:"cashflow"`
	Simulation SimulationConfig `toml:"simulation"`
	Quadrant   QuadrantConfig   `toml:"quadrant"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath   string `toml:"db_path,omitempty"`
	Currency string `toml:"currency"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// SimulationConfig holds the growth plan and break-even target.
type SimulationConfig struct {
	MonthlyContribution float64 `toml:"monthly_contribution"`
	AnnualRate          float64 `toml:"annual_rate"`
	Years               int     `toml:"years"`
	TargetPassive       float64 `toml:"target_passive_income"`
	MaxYears            int     `toml:"max_years"`
}

// Plan returns the simulation inputs as a finance.Plan.
func (s SimulationConfig) Plan() finance.Plan {
	return finance.Plan{
		MonthlyContribution: s.MonthlyContribution,
		AnnualRate:          s.AnnualRate,
		Years:               s.Years,
	}
}

// SetPlan stores p as the simulation inputs.
func (s *SimulationConfig) SetPlan(p finance.Plan) {
	s.MonthlyContribution = p.MonthlyContribution
	s.AnnualRate = p.AnnualRate
	s.Years = p.Years
}

// QuadrantConfig holds the balance sheet and what-if adjustments.
type QuadrantConfig struct {
	quadrant.Sheet
	ExtraPassive    float64 `toml:"extra_passive"`
	ReducedExpenses float64 `toml:"reduced_expenses"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "$",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Cashflow: finance.Snapshot{
			Salary:        10000,
			PassiveIncome: 1000,
			Expenses:      8000,
			Cash:          20000,
			Liabilities:   2000,
		},
		Simulation: SimulationConfig{
			MonthlyContribution: 1000,
			AnnualRate:          0.07,
			Years:               10,
			TargetPassive:       10000,
			MaxYears:            finance.MaxSearchYears,
		},
		Quadrant: QuadrantConfig{
			Sheet: quadrant.Sheet{
				Salary:   5000,
				Expenses: 3000,
				Savings:  10000,
				Stocks:   5000,
			},
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8631",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks every stored dashboard input.
func (c Config) Validate() error {
	if err := c.Cashflow.Validate(); err != nil {
		return fmt.Errorf("[cashflow]: %w", err)
	}
	if err := c.Simulation.Plan().Validate(); err != nil {
		return fmt.Errorf("[simulation]: %w", err)
	}
	if c.Simulation.TargetPassive < 0 {
		return fmt.Errorf("[simulation]: %w: target_passive_income must not be negative", finance.ErrInvalidInput)
	}
	if c.Simulation.MaxYears < 1 || c.Simulation.MaxYears > finance.MaxSearchYears {
		return fmt.Errorf("[simulation]: %w: max_years must be between 1 and %d", finance.ErrInvalidInput, finance.MaxSearchYears)
	}
	if err := c.Quadrant.Validate(); err != nil {
		return fmt.Errorf("[quadrant]: %w", err)
	}
	return nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashflow")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Environment variables that override the config file.
const (
	EnvDB       = "CASHFLOW_DB"
	EnvTheme    = "CASHFLOW_THEME"
	EnvLogLevel = "CASHFLOW_LOG_LEVEL"
)

// LoadDotEnv loads a .env file from path into the process environment
// without overriding variables that are already set. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CASHFLOW_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}
