package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/finance"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

type formKind int

const (
	formNone formKind = iota
	formCashflow
	formSimulation
	formQuadrant
	formSettings
	formBet
	formSetup
)

// editor is an open huh form plus the draft it writes into. Numeric inputs
// are kept as text while editing and copied into the draft on submit.
type editor struct {
	kind   formKind
	form   *huh.Form
	draft  *config.Config
	fields []*numberField
	bet    *betInput
}

type numberField struct {
	title string
	text  string
	check func(float64) error
	apply func(float64)
}

func (f *numberField) validate(s string) error {
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	if f.check != nil {
		return f.check(v)
	}
	return nil
}

func (f *numberField) input() *huh.Input {
	return huh.NewInput().
		Title(f.title).
		Value(&f.text).
		Validate(f.validate)
}

// parseNumber accepts plain numbers with optional thousands separators and
// a leading currency symbol. Blank means zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNegative(v float64) error {
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func moneyField(title string, p *float64) *numberField {
	return &numberField{
		title: title,
		text:  formatInput(*p),
		check: nonNegative,
		apply: func(v float64) { *p = v },
	}
}

// rateField edits a 0-1 ratio as a percentage.
func rateField(title string, p *float64) *numberField {
	return &numberField{
		title: title + " (%)",
		text:  formatInput(math.Round(*p*1e6) / 1e4),
		check: func(v float64) error {
			if v < 0 || v > 100 {
				return errors.New("must be between 0 and 100")
			}
			return nil
		},
		apply: func(v float64) { *p = v / 100 },
	}
}

func yearsField(title string, p *int, lo, hi int) *numberField {
	return &numberField{
		title: title,
		text:  strconv.Itoa(*p),
		check: func(v float64) error {
			if v != math.Trunc(v) || v < float64(lo) || v > float64(hi) {
				return fmt.Errorf("must be a whole number between %d and %d", lo, hi)
			}
			return nil
		},
		apply: func(v float64) { *p = int(v) },
	}
}

func inputs(fields []*numberField) []huh.Field {
	out := make([]huh.Field, len(fields))
	for i, f := range fields {
		out[i] = f.input()
	}
	return out
}

func newEditor(kind formKind, cfg config.Config) *editor {
	draft := cfg
	e := &editor{kind: kind, draft: &draft}

	var groups []*huh.Group
	switch kind {
	case formCashflow:
		s := &e.draft.Cashflow
		income := []*numberField{
			moneyField("Salary", &s.Salary),
			moneyField("Passive income", &s.PassiveIncome),
			moneyField("Business income", &s.BusinessIncome),
			moneyField("Investment income", &s.InvestmentIncome),
		}
		outgoing := []*numberField{
			moneyField("Monthly expenses", &s.Expenses),
			moneyField("Cash reserves", &s.Cash),
			moneyField("Monthly debt payments", &s.Liabilities),
		}
		e.fields = append(income, outgoing...)
		groups = []*huh.Group{
			huh.NewGroup(inputs(income)...).Title("Monthly income"),
			huh.NewGroup(inputs(outgoing)...).Title("Spending and reserves"),
		}

	case formSimulation:
		sim := &e.draft.Simulation
		e.fields = []*numberField{
			moneyField("Monthly contribution", &sim.MonthlyContribution),
			rateField("Annual return", &sim.AnnualRate),
			yearsField("Years", &sim.Years, 0, finance.MaxHorizonYears),
			moneyField("Target monthly passive income", &sim.TargetPassive),
			yearsField("Break-even search limit (years)", &sim.MaxYears, 1, finance.MaxSearchYears),
		}
		groups = []*huh.Group{huh.NewGroup(inputs(e.fields)...).Title("Investment plan")}

	case formQuadrant:
		q := &e.draft.Quadrant
		income := []*numberField{
			moneyField("Salary", &q.Salary),
			moneyField("Business income", &q.BusinessIncome),
			moneyField("Investment income", &q.InvestmentIncome),
			moneyField("Expenses", &q.Expenses),
		}
		assets := []*numberField{
			moneyField("Savings", &q.Savings),
			moneyField("Stocks", &q.Stocks),
			moneyField("Real estate", &q.RealEstate),
			moneyField("Business value", &q.BusinessValue),
		}
		debts := []*numberField{
			moneyField("Mortgage", &q.Mortgage),
			moneyField("Car loan", &q.CarLoan),
			moneyField("Credit card debt", &q.CreditCardDebt),
			moneyField("Other debts", &q.OtherDebts),
		}
		whatIf := []*numberField{
			moneyField("Extra passive income", &q.ExtraPassive),
			moneyField("Reduced expenses", &q.ReducedExpenses),
		}
		e.fields = append(append(append(income, assets...), debts...), whatIf...)
		groups = []*huh.Group{
			huh.NewGroup(inputs(income)...).Title("Monthly income"),
			huh.NewGroup(inputs(assets)...).Title("Assets"),
			huh.NewGroup(inputs(debts)...).Title("Liabilities"),
			huh.NewGroup(inputs(whatIf)...).Title("What-if"),
		}

	case formSettings, formSetup:
		groups = settingsGroups(kind, e.draft)

	case formBet:
		e.bet = newBetInput(time.Now())
		groups = []*huh.Group{e.bet.group()}
	}

	e.form = huh.NewForm(groups...).WithShowHelp(true)
	return e
}

// settingsGroups edits the appearance and general sections in place.
func settingsGroups(kind formKind, draft *config.Config) []*huh.Group {
	themeSelect := huh.NewSelect[string]().
		Title("Theme").
		Options(huh.NewOptions(theme.Names()...)...).
		Value(&draft.Appearance.Theme)

	currency := huh.NewInput().
		Title("Currency symbol").
		Value(&draft.General.Currency).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("currency symbol is required")
			}
			return nil
		})

	if kind == formSetup {
		welcome := huh.NewNote().
			Title("Welcome to cashflow").
			Description("Pick a theme and currency. Every dashboard input can be\nedited later with e, and saved to " + config.ConfigPath() + ".")
		return []*huh.Group{huh.NewGroup(welcome, themeSelect, currency)}
	}

	dbPath := huh.NewInput().
		Title("Betting database").
		Description("Blank uses the default location. Takes effect on restart.").
		Value(&draft.General.DBPath)

	logLevel := huh.NewSelect[string]().
		Title("Log level").
		Options(huh.NewOptions("debug", "info", "warn", "error")...).
		Value(&draft.Log.Level)

	return []*huh.Group{huh.NewGroup(themeSelect, currency, dbPath, logLevel)}
}

// commit copies the numeric fields into the draft.
func (e *editor) commit() error {
	for _, f := range e.fields {
		v, err := parseNumber(f.text)
		if err != nil {
			return fmt.Errorf("%s: %w", f.title, err)
		}
		f.apply(v)
	}
	e.draft.General.Currency = strings.TrimSpace(e.draft.General.Currency)
	e.draft.General.DBPath = strings.TrimSpace(e.draft.General.DBPath)
	if e.draft.General.Currency == "" {
		return errors.New("currency symbol is required")
	}
	return e.draft.Validate()
}

// betInput backs the add-bet form.
type betInput struct {
	date  string
	match string
	pick  betting.Pick
	odds  string
	stake string
}

func newBetInput(now time.Time) *betInput {
	return &betInput{date: now.Format(time.DateOnly), pick: betting.Home}
}

func (b *betInput) group() *huh.Group {
	pickOptions := make([]huh.Option[betting.Pick], len(betting.Picks))
	for i, p := range betting.Picks {
		label := string(p)
		pickOptions[i] = huh.NewOption(strings.ToUpper(label[:1])+label[1:], p)
	}

	return huh.NewGroup(
		huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&b.date).
			Validate(func(s string) error {
				_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
				return err
			}),
		huh.NewInput().Title("Match").Placeholder("Home team vs Away team").Value(&b.match).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("match is required")
				}
				return nil
			}),
		huh.NewSelect[betting.Pick]().Title("Pick").Options(pickOptions...).Value(&b.pick),
		huh.NewInput().Title("Odds").Placeholder("2.10").Value(&b.odds).Validate(validateOdds),
		huh.NewInput().Title("Stake").Placeholder("100").Value(&b.stake).Validate(validateStake),
	).Title("New bet")
}

func validateOdds(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("odds must be a number")
	}
	if d.LessThan(betting.MinOdds) {
		return fmt.Errorf("odds must be at least %s", betting.MinOdds)
	}
	return nil
}

func validateStake(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("stake must be a number")
	}
	if !d.IsPositive() {
		return errors.New("stake must be positive")
	}
	return nil
}

func (b *betInput) build() (betting.Bet, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(b.date))
	if err != nil {
		return betting.Bet{}, fmt.Errorf("%w: date: %v", betting.ErrInvalidBet, err)
	}
	odds, err := decimal.NewFromString(strings.TrimSpace(b.odds))
	if err != nil {
		return betting.Bet{}, fmt.Errorf("%w: odds: %v", betting.ErrInvalidBet, err)
	}
	stake, err := decimal.NewFromString(strings.TrimSpace(b.stake))
	if err != nil {
		return betting.Bet{}, fmt.Errorf("%w: stake: %v", betting.ErrInvalidBet, err)
	}
	return betting.NewBet(date, b.match, b.pick, odds, stake)
}
