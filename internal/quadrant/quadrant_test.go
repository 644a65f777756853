package quadrant

import (
	"errors"
	"math"
	"testing"

	"github.com/theirongolddev/cashflow/internal/finance"
)

func defaultSheet() Sheet {
	return Sheet{Salary: 5000, Expenses: 3000, Savings: 10000, Stocks: 5000}
}

func TestAnalyze_Defaults(t *testing.T) {
	r, err := Analyze(defaultSheet())
	if err != nil {
		t.Fatal(err)
	}

	if r.TotalAssets != 15000 || r.TotalLiabilities != 0 || r.NetWorth != 15000 {
		t.Errorf("balance sheet = %v/%v/%v", r.TotalAssets, r.TotalLiabilities, r.NetWorth)
	}
	if r.NetIncome != 2000 {
		t.Errorf("NetIncome = %v, want 2000", r.NetIncome)
	}
	if r.SavingsRate != 40 {
		t.Errorf("SavingsRate = %v, want 40", r.SavingsRate)
	}
	if r.DebtToIncome != 0 || r.PassiveShare != 0 {
		t.Errorf("DebtToIncome=%v PassiveShare=%v, want 0", r.DebtToIncome, r.PassiveShare)
	}
	if r.Position.X != 0 || r.Position.Y != 1 || r.Position.Dominant != Employee {
		t.Errorf("Position = %+v, want (0,1) employee", r.Position)
	}

	wantOK := map[string]bool{"savings_rate": true, "debt_to_income": true, "passive_share": false}
	for _, a := range r.Advice {
		if a.OK != wantOK[a.Metric] {
			t.Errorf("advice %s ok=%v, want %v", a.Metric, a.OK, wantOK[a.Metric])
		}
	}
}

func TestAnalyze_Statements(t *testing.T) {
	s := Sheet{
		Salary: 4000, BusinessIncome: 1000, InvestmentIncome: 1000,
		Expenses: 5000, Mortgage: 30000, CreditCardDebt: 6000,
	}
	r, err := Analyze(s)
	if err != nil {
		t.Fatal(err)
	}

	if len(r.IncomeStatement) != 6 {
		t.Fatalf("income statement rows = %d, want 6", len(r.IncomeStatement))
	}
	if got := r.IncomeStatement[5].Amount; got != 1000 {
		t.Errorf("net income row = %v, want 1000", got)
	}

	net := r.CashFlowStatement[3].Amount
	if want := 1000.0 + 1000 - 36000; net != want {
		t.Errorf("net cash flow = %v, want %v", net, want)
	}

	// 36000 / (6000*12) = 50%
	if r.DebtToIncome != 50 {
		t.Errorf("DebtToIncome = %v, want 50", r.DebtToIncome)
	}
	if math.Abs(r.PassiveShare-100.0/3) > 1e-9 {
		t.Errorf("PassiveShare = %v, want 33.33", r.PassiveShare)
	}
	if r.Advice[1].OK {
		t.Error("debt advice should be a warning above 40%")
	}
}

func TestAnalyze_ZeroIncome(t *testing.T) {
	r, err := Analyze(Sheet{Expenses: 1000, CarLoan: 5000})
	if err != nil {
		t.Fatal(err)
	}
	if r.SavingsRate != 0 || r.DebtToIncome != 0 || r.PassiveShare != 0 {
		t.Errorf("ratios = %v/%v/%v, want all 0", r.SavingsRate, r.DebtToIncome, r.PassiveShare)
	}
	if r.Position != (Position{}) {
		t.Errorf("Position = %+v, want origin", r.Position)
	}
	for _, sh := range r.IncomeMix {
		if sh.Percent != 0 {
			t.Errorf("income share %s = %v, want 0", sh.Label, sh.Percent)
		}
	}
}

func TestAnalyze_AssetMixSumsTo100(t *testing.T) {
	r, err := Analyze(Sheet{Savings: 1, Stocks: 2, RealEstate: 3, BusinessValue: 4})
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, sh := range r.AssetMix {
		sum += sh.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("asset mix sums to %v", sum)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	s := defaultSheet()
	s.Mortgage = -1
	if _, err := Analyze(s); !errors.Is(err, finance.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name     string
		e, s, b  float64
		i        float64
		x, y     float64
		dominant Quadrant
	}{
		{"origin", 0, 0, 0, 0, 0, 0, ""},
		{"employee only", 100, 0, 0, 0, 0, 1, Employee},
		{"investor only", 0, 0, 0, 100, 1, 0, Investor},
		{"business only", 0, 0, 100, 0, 0, -1, BusinessOwner},
		{"self-employed only", 0, 100, 0, 0, -1, 0, SelfEmployed},
		{"mixed", 50, 0, 25, 25, 0.25, 0.25, Employee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Locate(tt.e, tt.s, tt.b, tt.i)
			if p.X != tt.x || p.Y != tt.y || p.Dominant != tt.dominant {
				t.Fatalf("Locate = %+v, want (%v, %v) %q", p, tt.x, tt.y, tt.dominant)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		x, y float64
		want Quadrant
	}{
		{0.5, 0.5, Employee},
		{-0.5, 0.5, SelfEmployed},
		{-0.5, -0.5, BusinessOwner},
		{0.5, -0.5, Investor},
		{0, 0, Employee},
	}
	for _, tt := range tests {
		if got := Region(tt.x, tt.y); got != tt.want {
			t.Errorf("Region(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWhatIf_NotReached(t *testing.T) {
	f, err := WhatIf(defaultSheet(), 500, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if f.NewPassiveIncome != 500 || f.NewExpenses != 2000 {
		t.Errorf("new passive/expenses = %v/%v", f.NewPassiveIncome, f.NewExpenses)
	}
	if f.NewNetIncome != 3500 {
		t.Errorf("NewNetIncome = %v, want 3500", f.NewNetIncome)
	}
	if f.Reached || f.MonthsToFreedom != 0 {
		t.Errorf("Reached=%v months=%d, want not reached", f.Reached, f.MonthsToFreedom)
	}
	if f.Percent != 25 {
		t.Errorf("Percent = %v, want 25", f.Percent)
	}
}

func TestWhatIf_Reached(t *testing.T) {
	s := defaultSheet()
	s.Mortgage = 10000
	f, err := WhatIf(s, 4000, 0)
	if err != nil {
		t.Fatal(err)
	}
	// surplus 1000/month against 10000 of debt
	if !f.Reached || f.MonthsToFreedom != 10 {
		t.Errorf("Reached=%v months=%d, want 10", f.Reached, f.MonthsToFreedom)
	}
	if f.Percent != 100 {
		t.Errorf("Percent = %v, want capped at 100", f.Percent)
	}
}

func TestWhatIf_RoundsMonthsUp(t *testing.T) {
	s := Sheet{Expenses: 1000, OtherDebts: 2500}
	f, err := WhatIf(s, 2000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.MonthsToFreedom != 3 {
		t.Fatalf("MonthsToFreedom = %d, want 3", f.MonthsToFreedom)
	}
}

func TestWhatIf_ReductionCapped(t *testing.T) {
	f, err := WhatIf(defaultSheet(), 0, 99999)
	if err != nil {
		t.Fatal(err)
	}
	if f.NewExpenses != 0 {
		t.Errorf("NewExpenses = %v, want 0", f.NewExpenses)
	}
	if f.Percent != 0 {
		t.Errorf("Percent = %v, want 0 when expenses are 0", f.Percent)
	}
}

func TestWhatIf_InvalidInput(t *testing.T) {
	if _, err := WhatIf(defaultSheet(), -1, 0); !errors.Is(err, finance.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := WhatIf(defaultSheet(), 0, math.NaN()); !errors.Is(err, finance.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
