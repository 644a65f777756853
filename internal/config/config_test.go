package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cashflow/internal/finance"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDB, "")
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvLogLevel, "")
	return dir
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Cashflow != def.Cashflow {
		t.Errorf("Cashflow = %+v, want %+v", cfg.Cashflow, def.Cashflow)
	}
	if cfg.Simulation.Plan() != (finance.Plan{MonthlyContribution: 1000, AnnualRate: 0.07, Years: 10}) {
		t.Errorf("Plan = %+v", cfg.Simulation.Plan())
	}
	if cfg.Simulation.TargetPassive != 10000 {
		t.Errorf("TargetPassive = %v, want 10000", cfg.Simulation.TargetPassive)
	}
	if cfg.Quadrant.Salary != 5000 || cfg.Quadrant.Stocks != 5000 {
		t.Errorf("Quadrant = %+v", cfg.Quadrant)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.Cashflow.Salary = 12345.5
	cfg.Simulation.SetPlan(finance.Plan{MonthlyContribution: 250, AnnualRate: 0.05, Years: 30})
	cfg.Quadrant.Mortgage = 200000
	cfg.Quadrant.ExtraPassive = 300
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "cashflow", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Cashflow.Salary != 12345.5 {
		t.Errorf("Salary = %v", got.Cashflow.Salary)
	}
	if got.Simulation.Plan().Years != 30 || got.Simulation.AnnualRate != 0.05 {
		t.Errorf("Simulation = %+v", got.Simulation)
	}
	if got.Quadrant.Mortgage != 200000 || got.Quadrant.ExtraPassive != 300 {
		t.Errorf("Quadrant = %+v", got.Quadrant)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q", got.Appearance.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := useTempConfigDir(t)
	path := filepath.Join(dir, "cashflow", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "[cashflow]\nsalary = 4200\n\n[quadrant]\nreal_estate = 90000\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cashflow.Salary != 4200 {
		t.Errorf("Salary = %v, want 4200", cfg.Cashflow.Salary)
	}
	if cfg.Cashflow.Expenses != 8000 {
		t.Errorf("Expenses = %v, want default 8000", cfg.Cashflow.Expenses)
	}
	if cfg.Quadrant.RealEstate != 90000 || cfg.Quadrant.Savings != 10000 {
		t.Errorf("Quadrant = %+v", cfg.Quadrant.Sheet)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := useTempConfigDir(t)
	path := filepath.Join(dir, "cashflow", "config.toml")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("[cashflow\nsalary = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded on malformed TOML")
	}
}

func TestApplyEnv(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvDB, "/tmp/other.db")
	t.Setenv(EnvTheme, "catppuccin-mocha")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.DBPath != "/tmp/other.db" || cfg.Appearance.Theme != "catppuccin-mocha" || cfg.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: %+v %+v %+v", cfg.General, cfg.Appearance, cfg.Log)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CASHFLOW_THEME=tokyo-night\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTheme, "")
	os.Unsetenv(EnvTheme)
	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(EnvTheme); got != "tokyo-night" {
		t.Fatalf("%s = %q, want tokyo-night", EnvTheme, got)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg.Simulation.AnnualRate = 2
	if err := cfg.Validate(); !errors.Is(err, finance.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	cfg = DefaultConfig()
	cfg.Quadrant.CarLoan = -1
	if err := cfg.Validate(); !errors.Is(err, finance.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
