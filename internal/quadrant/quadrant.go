// Package quadrant analyzes a personal balance sheet the way the cashflow
// quadrant board game does: statements, ratios, a position across the
// employee / self-employed / business-owner / investor quadrants, and a
// what-if simulator for reaching financial freedom.
package quadrant

import (
	"fmt"
	"math"

	"github.com/theirongolddev/cashflow/internal/finance"
)

// Sheet is a monthly income statement plus asset and liability balances.
type Sheet struct {
	Salary           float64 `toml:"salary" json:"salary"`
	BusinessIncome   float64 `toml:"business_income" json:"business_income"`
	InvestmentIncome float64 `toml:"investment_income" json:"investment_income"`
	Expenses         float64 `toml:"expenses" json:"expenses"`

	Savings       float64 `toml:"savings" json:"savings"`
	Stocks        float64 `toml:"stocks" json:"stocks"`
	RealEstate    float64 `toml:"real_estate" json:"real_estate"`
	BusinessValue float64 `toml:"business_value" json:"business_value"`

	Mortgage       float64 `toml:"mortgage" json:"mortgage"`
	CarLoan        float64 `toml:"car_loan" json:"car_loan"`
	CreditCardDebt float64 `toml:"credit_card_debt" json:"credit_card_debt"`
	OtherDebts     float64 `toml:"other_debts" json:"other_debts"`
}

func (s Sheet) fields() []Line {
	return []Line{
		{"salary", s.Salary},
		{"business_income", s.BusinessIncome},
		{"investment_income", s.InvestmentIncome},
		{"expenses", s.Expenses},
		{"savings", s.Savings},
		{"stocks", s.Stocks},
		{"real_estate", s.RealEstate},
		{"business_value", s.BusinessValue},
		{"mortgage", s.Mortgage},
		{"car_loan", s.CarLoan},
		{"credit_card_debt", s.CreditCardDebt},
		{"other_debts", s.OtherDebts},
	}
}

// Validate rejects negative or non-finite amounts.
func (s Sheet) Validate() error {
	for _, f := range s.fields() {
		if err := checkAmount(f.Label, f.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (s Sheet) TotalIncome() float64 { return s.Salary + s.BusinessIncome + s.InvestmentIncome }

// PassiveIncome counts business and investment income.
func (s Sheet) PassiveIncome() float64 { return s.BusinessIncome + s.InvestmentIncome }

func (s Sheet) TotalAssets() float64 {
	return s.Savings + s.Stocks + s.RealEstate + s.BusinessValue
}

func (s Sheet) TotalLiabilities() float64 {
	return s.Mortgage + s.CarLoan + s.CreditCardDebt + s.OtherDebts
}

// Line is one labelled row of a statement.
type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Share is a component of a composition breakdown.
type Share struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// Advice is a pass/fail reading of one ratio.
type Advice struct {
	Metric  string `json:"metric"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Advice thresholds, in percent.
const (
	MinSavingsRate  = 20.0
	MaxDebtToIncome = 40.0
	MinPassiveShare = 10.0
)

// Report is the full analysis of a Sheet.
type Report struct {
	TotalIncome      float64 `json:"total_income"`
	PassiveIncome    float64 `json:"passive_income"`
	NetIncome        float64 `json:"net_income"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWorth         float64 `json:"net_worth"`

	BalanceSheet      []Line `json:"balance_sheet"`
	IncomeStatement   []Line `json:"income_statement"`
	CashFlowStatement []Line `json:"cash_flow_statement"`

	IncomeMix []Share `json:"income_mix"`
	AssetMix  []Share `json:"asset_mix"`

	// Ratios are percentages and are 0 when total income is 0.
	SavingsRate  float64 `json:"savings_rate"`
	DebtToIncome float64 `json:"debt_to_income"`
	PassiveShare float64 `json:"passive_share"`

	Position Position `json:"position"`
	Advice   []Advice `json:"advice"`
}

// Analyze builds the statements, ratios, quadrant position and advice for s.
func Analyze(s Sheet) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}

	income := s.TotalIncome()
	assets := s.TotalAssets()
	liabilities := s.TotalLiabilities()
	net := income - s.Expenses

	r := Report{
		TotalIncome:      income,
		PassiveIncome:    s.PassiveIncome(),
		NetIncome:        net,
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets - liabilities,
	}

	r.BalanceSheet = []Line{
		{"Total assets", assets},
		{"Total liabilities", liabilities},
		{"Net worth", r.NetWorth},
	}
	r.IncomeStatement = []Line{
		{"Salary", s.Salary},
		{"Business income", s.BusinessIncome},
		{"Investment income", s.InvestmentIncome},
		{"Total income", income},
		{"Expenses", s.Expenses},
		{"Net income", net},
	}
	r.CashFlowStatement = []Line{
		{"Operating", net},
		{"Investing", s.InvestmentIncome},
		{"Financing", -liabilities},
		{"Net cash flow", net + s.InvestmentIncome - liabilities},
	}

	r.IncomeMix = shares([]Line{
		{"Salary", s.Salary},
		{"Business", s.BusinessIncome},
		{"Investment", s.InvestmentIncome},
	})
	r.AssetMix = shares([]Line{
		{"Savings", s.Savings},
		{"Stocks", s.Stocks},
		{"Real estate", s.RealEstate},
		{"Business", s.BusinessValue},
	})

	if income != 0 {
		r.SavingsRate = net / income * 100
		r.DebtToIncome = liabilities / (income * 12) * 100
		r.PassiveShare = r.PassiveIncome / income * 100
	}

	r.Position = Locate(s.Salary, 0, s.BusinessIncome, s.InvestmentIncome)
	r.Advice = advise(r)
	return r, nil
}

func shares(lines []Line) []Share {
	var total float64
	for _, l := range lines {
		total += l.Amount
	}
	out := make([]Share, len(lines))
	for i, l := range lines {
		out[i] = Share{Label: l.Label, Amount: l.Amount}
		if total > 0 {
			out[i].Percent = l.Amount / total * 100
		}
	}
	return out
}

func advise(r Report) []Advice {
	out := make([]Advice, 0, 3)

	if r.SavingsRate < MinSavingsRate {
		out = append(out, Advice{"savings_rate", false,
			"Savings rate is low, save more to cover emergencies and fund investments"})
	} else {
		out = append(out, Advice{"savings_rate", true,
			"Good saving habits, move surplus savings into cash-producing assets"})
	}

	if r.DebtToIncome > MaxDebtToIncome {
		out = append(out, Advice{"debt_to_income", false,
			"Debt is high relative to income, plan repayments and avoid new bad debt"})
	} else {
		out = append(out, Advice{"debt_to_income", true,
			"Debt level is under control, keep separating good debt from bad debt"})
	}

	if r.PassiveShare < MinPassiveShare {
		out = append(out, Advice{"passive_share", false,
			"Add passive income streams until they exceed expenses"})
	} else {
		out = append(out, Advice{"passive_share", true,
			"Healthy passive income share, keep raising it"})
	}

	return out
}

// Freedom is the outcome of a what-if simulation.
type Freedom struct {
	NewPassiveIncome float64 `json:"new_passive_income"`
	NewExpenses      float64 `json:"new_expenses"`
	NewNetIncome     float64 `json:"new_net_income"`
	// MonthsToFreedom is 0 when passive income does not exceed expenses.
	MonthsToFreedom int     `json:"months_to_freedom"`
	Reached         bool    `json:"reached"`
	Percent         float64 `json:"percent"`
}

// WhatIf adds extraPassive to passive income and cuts reducedExpenses from
// expenses. The cut is capped at the current expenses.
func WhatIf(s Sheet, extraPassive, reducedExpenses float64) (Freedom, error) {
	if err := s.Validate(); err != nil {
		return Freedom{}, err
	}
	if err := checkAmount("extra_passive", extraPassive); err != nil {
		return Freedom{}, err
	}
	if err := checkAmount("reduced_expenses", reducedExpenses); err != nil {
		return Freedom{}, err
	}
	reducedExpenses = math.Min(reducedExpenses, s.Expenses)

	f := Freedom{
		NewPassiveIncome: s.PassiveIncome() + extraPassive,
		NewExpenses:      s.Expenses - reducedExpenses,
	}
	f.NewNetIncome = s.TotalIncome() + extraPassive - f.NewExpenses

	if surplus := f.NewPassiveIncome - f.NewExpenses; surplus > 0 {
		f.Reached = true
		f.MonthsToFreedom = int(math.Ceil(s.TotalLiabilities() / surplus))
	}
	if f.NewExpenses != 0 {
		f.Percent = math.Min(f.NewPassiveIncome/f.NewExpenses*100, 100)
	}
	return f, nil
}

func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", finance.ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative (got %g)", finance.ErrInvalidInput, name, v)
	}
	return nil
}
