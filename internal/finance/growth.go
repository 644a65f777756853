package finance

import (
	"fmt"
	"math"
)

const (
	// MaxHorizonYears bounds the projection horizon.
	MaxHorizonYears = 100
	// MaxSearchYears bounds the break-even search.
	MaxSearchYears = 100

	monthsPerYear = 12
)

// Plan is a recurring monthly investment at a fixed nominal annual rate.
type Plan struct {
	MonthlyContribution float64 `toml:"monthly_contribution" json:"monthly_contribution"`
	AnnualRate          float64 `toml:"annual_rate" json:"annual_rate"`
	Years               int     `toml:"years" json:"years"`
}

// Validate rejects negative amounts, rates outside [0, 1] and horizons
// outside [0, MaxHorizonYears].
func (p Plan) Validate() error {
	if err := checkNonNegative("monthly_contribution", p.MonthlyContribution); err != nil {
		return err
	}
	if err := checkNonNegative("annual_rate", p.AnnualRate); err != nil {
		return err
	}
	if p.AnnualRate > 1 {
		return fmt.Errorf("%w: annual_rate must be at most 1 (got %g)", ErrInvalidInput, p.AnnualRate)
	}
	if p.Years < 0 || p.Years > MaxHorizonYears {
		return fmt.Errorf("%w: years must be between 0 and %d (got %d)", ErrInvalidInput, MaxHorizonYears, p.Years)
	}
	return nil
}

// ProjectionPoint is the state of a plan at a year boundary.
type ProjectionPoint struct {
	Year          int     `json:"year"`
	Contributions float64 `json:"contributions"`
	Value         float64 `json:"value"`
}

// ProjectGrowth compounds the plan month by month and records one point per
// year, starting with year 0 at zero. The result has p.Years+1 points.
func ProjectGrowth(p Plan) ([]ProjectionPoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	points := make([]ProjectionPoint, 0, p.Years+1)
	points = append(points, ProjectionPoint{})

	monthly := p.AnnualRate / monthsPerYear
	value := 0.0
	for year := 1; year <= p.Years; year++ {
		value = compoundYear(value, monthly, p.MonthlyContribution)
		points = append(points, ProjectionPoint{
			Year:          year,
			Contributions: p.MonthlyContribution * monthsPerYear * float64(year),
			Value:         value,
		})
	}
	return points, nil
}

// compoundYear applies twelve end-of-month contributions.
func compoundYear(value, monthlyRate, contribution float64) float64 {
	for m := 0; m < monthsPerYear; m++ {
		value = value*(1+monthlyRate) + contribution
	}
	return value
}

// FutureValue is the closed-form value of an ordinary annuity of monthly
// contributions c at annual rate r after the given number of years.
func FutureValue(c, r float64, years int) float64 {
	i := r / monthsPerYear
	n := float64(years * monthsPerYear)
	if i == 0 {
		return c * n
	}
	return c * (math.Pow(1+i, n) - 1) / i
}

// GrowthSummary holds the headline numbers of a plan.
type GrowthSummary struct {
	TotalContributed float64 `json:"total_contributed"`
	FutureValue      float64 `json:"future_value"`
	Return           float64 `json:"return"`
}

// Summarize returns the contributed total, closed-form future value and gain.
func Summarize(p Plan) (GrowthSummary, error) {
	if err := p.Validate(); err != nil {
		return GrowthSummary{}, err
	}
	contributed := p.MonthlyContribution * monthsPerYear * float64(p.Years)
	fv := FutureValue(p.MonthlyContribution, p.AnnualRate, p.Years)
	return GrowthSummary{
		TotalContributed: contributed,
		FutureValue:      fv,
		Return:           fv - contributed,
	}, nil
}

// FindBreakEvenYear returns the first year whose monthly passive income,
// taken as value*rate/12, reaches target. ok is false when no year within
// maxYears qualifies. The plan's own horizon is ignored.
func FindBreakEvenYear(p Plan, target float64, maxYears int) (year int, ok bool, err error) {
	p.Years = 0
	if err := p.Validate(); err != nil {
		return 0, false, err
	}
	if err := checkNonNegative("target", target); err != nil {
		return 0, false, err
	}
	if maxYears < 1 || maxYears > MaxSearchYears {
		return 0, false, fmt.Errorf("%w: max_years must be between 1 and %d (got %d)", ErrInvalidInput, MaxSearchYears, maxYears)
	}

	monthly := p.AnnualRate / monthsPerYear
	value := 0.0
	for y := 1; y <= maxYears; y++ {
		value = compoundYear(value, monthly, p.MonthlyContribution)
		if MonthlyPassiveIncome(value, p.AnnualRate) >= target {
			return y, true, nil
		}
	}
	return 0, false, nil
}

// MonthlyPassiveIncome assumes the whole corpus yields the nominal rate.
func MonthlyPassiveIncome(value, annualRate float64) float64 {
	return value * annualRate / monthsPerYear
}
