// Package finance implements the projection and scoring engine: ratio
// scorecards, compounding growth projections and the break-even search.
package finance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when an input is negative, out of range, NaN or infinite.
var ErrInvalidInput = errors.New("invalid input")

// Snapshot holds monthly income, expenses and balances at one point in time.
// Liabilities is the monthly debt-service payment, not the outstanding balance.
type Snapshot struct {
	Salary           float64 `toml:"salary" json:"salary"`
	PassiveIncome    float64 `toml:"passive_income" json:"passive_income"`
	BusinessIncome   float64 `toml:"business_income" json:"business_income"`
	InvestmentIncome float64 `toml:"investment_income" json:"investment_income"`
	Expenses         float64 `toml:"expenses" json:"expenses"`
	Cash             float64 `toml:"cash" json:"cash"`
	Liabilities      float64 `toml:"liabilities" json:"liabilities"`
}

// Validate reports the first negative or non-finite field.
func (s Snapshot) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"salary", s.Salary},
		{"passive_income", s.PassiveIncome},
		{"business_income", s.BusinessIncome},
		{"investment_income", s.InvestmentIncome},
		{"expenses", s.Expenses},
		{"cash", s.Cash},
		{"liabilities", s.Liabilities},
	}
	for _, f := range fields {
		if err := checkNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

// TotalIncome is salary plus every passive stream.
func (s Snapshot) TotalIncome() float64 {
	return s.Salary + s.PassiveTotal()
}

// PassiveTotal sums the income streams not derived from active labor.
func (s Snapshot) PassiveTotal() float64 {
	return s.PassiveIncome + s.BusinessIncome + s.InvestmentIncome
}

// Grade is a coarse health rating attached to a ratio.
type Grade int

const (
	GradePoor Grade = iota
	GradeFair
	GradeGood
	GradeExcellent
)

func (g Grade) String() string {
	switch g {
	case GradeExcellent:
		return "excellent"
	case GradeGood:
		return "good"
	case GradeFair:
		return "fair"
	default:
		return "poor"
	}
}

// MarshalText renders the grade by name in JSON and TOML.
func (g Grade) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// Assessment is a graded reading of one scorecard metric.
type Assessment struct {
	Metric  string `json:"metric"`
	Grade   Grade  `json:"grade"`
	Message string `json:"message"`
}

// ScoreCard holds the ratios derived from a Snapshot.
type ScoreCard struct {
	TotalIncome         float64
	PassiveTotal        float64
	CashFlow            float64
	EmergencyFundMonths float64 // +Inf when expenses are zero
	DebtToIncome        float64 // +Inf when income is zero
	SavingsRate         float64 // 0 when income is zero
	PassiveIncomeRatio  float64 // +Inf when expenses are zero
	FreedomProgress     float64 // passive/expenses clamped to [0, 1]
	PassiveIncomeGap    float64
	FinanciallyFree     bool
	Assessments         []Assessment
}

// Health thresholds.
const (
	EmergencyFundTarget  = 6.0
	EmergencyFundMinimum = 3.0
	DebtToIncomeHealthy  = 0.36
	DebtToIncomeRisky    = 0.43
	SavingsRateTarget    = 0.20
	SavingsRateExcellent = 0.50
)

// ComputeScoreCard derives the scorecard for s. Zero denominators are
// replaced by their sentinel values rather than reported as errors.
func ComputeScoreCard(s Snapshot) (ScoreCard, error) {
	if err := s.Validate(); err != nil {
		return ScoreCard{}, err
	}

	total := s.TotalIncome()
	passive := s.PassiveTotal()

	sc := ScoreCard{
		TotalIncome:         total,
		PassiveTotal:        passive,
		CashFlow:            total - s.Expenses,
		EmergencyFundMonths: divOr(s.Cash, s.Expenses, math.Inf(1)),
		DebtToIncome:        divOr(s.Liabilities, total, math.Inf(1)),
		SavingsRate:         divOr(total-s.Expenses, total, 0),
		PassiveIncomeRatio:  divOr(passive, s.Expenses, math.Inf(1)),
		FreedomProgress:     clamp01(divOr(passive, s.Expenses, 0)),
		PassiveIncomeGap:    math.Max(s.Expenses-passive, 0),
		FinanciallyFree:     passive > s.Expenses,
	}
	sc.Assessments = assess(sc)
	return sc, nil
}

func assess(sc ScoreCard) []Assessment {
	out := make([]Assessment, 0, 5)

	switch {
	case sc.FinanciallyFree:
		out = append(out, Assessment{"cash_flow", GradeExcellent, "Passive income covers expenses: financially free"})
	case sc.CashFlow > 0:
		out = append(out, Assessment{"cash_flow", GradeGood,
			fmt.Sprintf("Positive monthly cash flow of %.0f, keep growing passive income", sc.CashFlow)})
	default:
		out = append(out, Assessment{"cash_flow", GradePoor,
			fmt.Sprintf("Negative monthly cash flow of %.0f", -sc.CashFlow)})
	}

	switch {
	case sc.EmergencyFundMonths >= EmergencyFundTarget:
		out = append(out, Assessment{"emergency_fund", GradeGood, "Emergency fund is sufficient"})
	case sc.EmergencyFundMonths >= EmergencyFundMinimum:
		out = append(out, Assessment{"emergency_fund", GradeFair, "Emergency fund is close to the recommended level"})
	default:
		out = append(out, Assessment{"emergency_fund", GradePoor, "Emergency fund is short, aim for 3-6 months of expenses"})
	}

	switch {
	case sc.DebtToIncome < DebtToIncomeHealthy:
		out = append(out, Assessment{"debt_to_income", GradeGood, "Debt-to-income ratio is in the healthy range"})
	case sc.DebtToIncome <= DebtToIncomeRisky:
		out = append(out, Assessment{"debt_to_income", GradeFair, "Debt-to-income ratio is elevated, consider paying down debt"})
	default:
		out = append(out, Assessment{"debt_to_income", GradePoor, "Debt-to-income ratio is too high, reduce liabilities"})
	}

	switch {
	case sc.SavingsRate >= SavingsRateExcellent:
		out = append(out, Assessment{"savings_rate", GradeExcellent, "Savings rate is outstanding"})
	case sc.SavingsRate > SavingsRateTarget:
		out = append(out, Assessment{"savings_rate", GradeGood, "Good saving habits"})
	default:
		out = append(out, Assessment{"savings_rate", GradePoor, "Raise the savings rate to reach freedom sooner"})
	}

	if sc.PassiveIncomeRatio >= 1 {
		out = append(out, Assessment{"passive_income", GradeExcellent, "Passive income covers all expenses"})
	} else {
		out = append(out, Assessment{"passive_income", GradeFair,
			fmt.Sprintf("Need %.2f more passive income per month to cover expenses", sc.PassiveIncomeGap)})
	}

	return out
}

func divOr(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative (got %g)", ErrInvalidInput, name, v)
	}
	return nil
}
