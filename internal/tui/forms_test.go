package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/config"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1200", 1200, false},
		{" $1,200.50 ", 1200.5, false},
		{"€7", 7, false},
		{"", 0, false},
		{"-3", -3, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseNumber(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRateFieldEditsPercent(t *testing.T) {
	rate := 0.07
	f := rateField("Annual return", &rate)
	if f.text != "7" {
		t.Fatalf("text = %q, want 7", f.text)
	}
	if f.validate("150") == nil {
		t.Error("150% should be rejected")
	}
	if err := f.validate("5.5"); err != nil {
		t.Fatal(err)
	}
	f.apply(5.5)
	if rate != 0.055 {
		t.Errorf("rate = %v, want 0.055", rate)
	}
}

func TestYearsField(t *testing.T) {
	years := 10
	f := yearsField("Years", &years, 0, 100)
	for _, bad := range []string{"2.5", "101", "-1", "x"} {
		if f.validate(bad) == nil {
			t.Errorf("%q accepted", bad)
		}
	}
	if err := f.validate("0"); err != nil {
		t.Errorf("0 rejected: %v", err)
	}
}

func TestMoneyFieldRejectsNegative(t *testing.T) {
	v := 5.0
	f := moneyField("Salary", &v)
	if f.text != "5" {
		t.Errorf("text = %q", f.text)
	}
	if f.validate("-1") == nil {
		t.Error("negative accepted")
	}
}

func TestCommitValidatesDraft(t *testing.T) {
	cfg := config.DefaultConfig()
	e := newEditor(formSimulation, cfg)
	e.fields[2].text = "20"
	if err := e.commit(); err != nil {
		t.Fatal(err)
	}
	if e.draft.Simulation.Years != 20 {
		t.Errorf("years = %d", e.draft.Simulation.Years)
	}

	e = newEditor(formSettings, cfg)
	e.draft.General.Currency = "  "
	if e.commit() == nil {
		t.Error("blank currency accepted")
	}
}

func TestEditorLeavesConfigAlone(t *testing.T) {
	cfg := config.DefaultConfig()
	e := newEditor(formQuadrant, cfg)
	e.fields[0].text = "99999"
	if err := e.commit(); err != nil {
		t.Fatal(err)
	}
	if cfg.Quadrant.Salary == 99999 {
		t.Error("commit wrote through to the caller's config")
	}
	if e.draft.Quadrant.Salary != 99999 {
		t.Errorf("draft salary = %v", e.draft.Quadrant.Salary)
	}
}

func TestBetInputBuild(t *testing.T) {
	in := newBetInput(time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC))
	if in.date != "2026-05-02" || in.pick != betting.Home {
		t.Fatalf("defaults = %+v", in)
	}
	in.match = "  Lyon vs Nice "
	in.pick = betting.Away
	in.odds = "2.75"
	in.stake = "40"

	b, err := in.build()
	if err != nil {
		t.Fatal(err)
	}
	if b.Label != "Lyon vs Nice" || b.Pick != betting.Away || b.Outcome != betting.Pending {
		t.Errorf("bet = %+v", b)
	}
	if b.Odds.String() != "2.75" || b.Stake.String() != "40" {
		t.Errorf("odds %s stake %s", b.Odds, b.Stake)
	}

	in.odds = "1.00"
	if _, err := in.build(); !errors.Is(err, betting.ErrInvalidBet) {
		t.Errorf("odds 1.00: err = %v", err)
	}
	in.odds = "2"
	in.date = "yesterday"
	if _, err := in.build(); !errors.Is(err, betting.ErrInvalidBet) {
		t.Errorf("bad date: err = %v", err)
	}
}

func TestBetValidators(t *testing.T) {
	if validateOdds("1.01") != nil {
		t.Error("minimum odds rejected")
	}
	if validateOdds("1.005") == nil || validateOdds("evens") == nil {
		t.Error("bad odds accepted")
	}
	if validateStake("0") == nil || validateStake("-5") == nil {
		t.Error("non-positive stake accepted")
	}
	if validateStake("0.5") != nil {
		t.Error("fractional stake rejected")
	}
}
