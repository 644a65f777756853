package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/finance"
	"github.com/theirongolddev/cashflow/internal/quadrant"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// fail maps domain errors to status codes.
func (s *Service) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, finance.ErrInvalidInput),
		errors.Is(err, betting.ErrInvalidBet):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// finite turns an unbounded ratio into a JSON null.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

type scoreCardResponse struct {
	TotalIncome         float64              `json:"total_income"`
	PassiveTotal        float64              `json:"passive_total"`
	CashFlow            float64              `json:"cash_flow"`
	EmergencyFundMonths *float64             `json:"emergency_fund_months"`
	DebtToIncome        *float64             `json:"debt_to_income"`
	SavingsRate         float64              `json:"savings_rate"`
	PassiveIncomeRatio  *float64             `json:"passive_income_ratio"`
	FreedomProgress     float64              `json:"freedom_progress"`
	PassiveIncomeGap    float64              `json:"passive_income_gap"`
	FinanciallyFree     bool                 `json:"financially_free"`
	Assessments         []finance.Assessment `json:"assessments"`
}

func newScoreCardResponse(sc finance.ScoreCard) scoreCardResponse {
	return scoreCardResponse{
		TotalIncome:         sc.TotalIncome,
		PassiveTotal:        sc.PassiveTotal,
		CashFlow:            sc.CashFlow,
		EmergencyFundMonths: finite(sc.EmergencyFundMonths),
		DebtToIncome:        finite(sc.DebtToIncome),
		SavingsRate:         sc.SavingsRate,
		PassiveIncomeRatio:  finite(sc.PassiveIncomeRatio),
		FreedomProgress:     sc.FreedomProgress,
		PassiveIncomeGap:    sc.PassiveIncomeGap,
		FinanciallyFree:     sc.FinanciallyFree,
		Assessments:         sc.Assessments,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleScoreCard(w http.ResponseWriter, r *http.Request) {
	var in finance.Snapshot
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	sc, err := finance.ComputeScoreCard(in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newScoreCardResponse(sc))
}

type projectionResponse struct {
	Points  []finance.ProjectionPoint `json:"points"`
	Summary finance.GrowthSummary     `json:"summary"`
}

func (s *Service) handleProjection(w http.ResponseWriter, r *http.Request) {
	var in finance.Plan
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	points, err := finance.ProjectGrowth(in)
	if err != nil {
		s.fail(w, err)
		return
	}
	summary, err := finance.Summarize(in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{Points: points, Summary: summary})
}

type breakEvenRequest struct {
	Plan     finance.Plan `json:"plan"`
	Target   float64      `json:"target"`
	MaxYears int          `json:"max_years"`
}

type breakEvenResponse struct {
	Year       int  `json:"year"`
	Achievable bool `json:"achievable"`
	MaxYears   int  `json:"max_years"`
}

func (s *Service) handleBreakEven(w http.ResponseWriter, r *http.Request) {
	var in breakEvenRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	if in.MaxYears == 0 {
		in.MaxYears = finance.MaxSearchYears
	}
	year, ok, err := finance.FindBreakEvenYear(in.Plan, in.Target, in.MaxYears)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakEvenResponse{Year: year, Achievable: ok, MaxYears: in.MaxYears})
}

func (s *Service) handleQuadrant(w http.ResponseWriter, r *http.Request) {
	var in quadrant.Sheet
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	report, err := quadrant.Analyze(in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type whatIfRequest struct {
	Sheet           quadrant.Sheet `json:"sheet"`
	ExtraPassive    float64        `json:"extra_passive"`
	ReducedExpenses float64        `json:"reduced_expenses"`
}

func (s *Service) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	var in whatIfRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	f, err := quadrant.WhatIf(in.Sheet, in.ExtraPassive, in.ReducedExpenses)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Service) listBets() ([]betting.Bet, error) {
	if s.bets == nil {
		return nil, nil
	}
	bets, err := s.bets.ListBets()
	if err != nil {
		return nil, fmt.Errorf("listing bets: %w", err)
	}
	return bets, nil
}

func (s *Service) handleBets(w http.ResponseWriter, _ *http.Request) {
	bets, err := s.listBets()
	if err != nil {
		s.fail(w, err)
		return
	}
	if bets == nil {
		bets = []betting.Bet{}
	}
	writeJSON(w, http.StatusOK, bets)
}

type betStatsResponse struct {
	Summary    betting.Summary       `json:"summary"`
	ByPick     []betting.Group       `json:"by_pick"`
	ByOddsBand []betting.Group       `json:"by_odds_band"`
	Cumulative []betting.ProfitPoint `json:"cumulative"`
	Advice     []string              `json:"advice"`
}

func (s *Service) handleBetStats(w http.ResponseWriter, _ *http.Request) {
	bets, err := s.listBets()
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := betStatsResponse{
		Summary:    betting.Summarize(bets),
		ByPick:     nonNil(betting.ByPick(bets)),
		ByOddsBand: nonNil(betting.ByOddsBand(bets)),
		Cumulative: betting.CumulativeProfit(bets),
		Advice:     []string{},
	}
	if a, ok := betting.Advise(bets); ok {
		resp.Advice = a.Lines()
	}
	writeJSON(w, http.StatusOK, resp)
}

func nonNil(g []betting.Group) []betting.Group {
	if g == nil {
		return []betting.Group{}
	}
	return g
}
