// Package betting keeps a match-result betting log and derives its
// performance statistics. Money is carried as decimal.Decimal.
package betting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidBet is returned for a bet that fails validation.
var ErrInvalidBet = errors.New("invalid bet")

// MinOdds is the lowest accepted decimal odds.
var MinOdds = decimal.RequireFromString("1.01")

// Pick is the result a bet is placed on.
type Pick string

const (
	Home Pick = "home"
	Draw Pick = "draw"
	Away Pick = "away"
)

// Picks lists every pick in display order.
var Picks = []Pick{Home, Draw, Away}

// Outcome is the settled result of a match, or Pending.
type Outcome string

const (
	Pending Outcome = "pending"
	HomeWin Outcome = "home"
	Drawn   Outcome = "draw"
	AwayWin Outcome = "away"
)

// Outcomes lists every outcome in the order the TUI cycles through them.
var Outcomes = []Outcome{Pending, HomeWin, Drawn, AwayWin}

// ParsePick accepts home/draw/away, the 1/x/2 shorthand and the 胜/平/负
// labels found in older record files.
func ParsePick(s string) (Pick, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "h", "1", "胜":
		return Home, nil
	case "draw", "d", "x", "平":
		return Draw, nil
	case "away", "a", "2", "负":
		return Away, nil
	}
	return "", fmt.Errorf("%w: unknown pick %q", ErrInvalidBet, s)
}

// ParseOutcome accepts pending (or 未开奖) plus anything ParsePick accepts.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "p", "", "未开奖":
		return Pending, nil
	}
	p, err := ParsePick(s)
	if err != nil {
		return "", fmt.Errorf("%w: unknown outcome %q", ErrInvalidBet, s)
	}
	return Outcome(p), nil
}

// Next returns the outcome after o in Outcomes, wrapping around.
func (o Outcome) Next() Outcome {
	for i, v := range Outcomes {
		if v == o {
			return Outcomes[(i+1)%len(Outcomes)]
		}
	}
	return Pending
}

// Valid reports whether p is one of Picks.
func (p Pick) Valid() bool {
	return p == Home || p == Draw || p == Away
}

// Valid reports whether o is one of Outcomes.
func (o Outcome) Valid() bool {
	return o == Pending || Pick(o).Valid()
}

// Bet is one entry of the log.
type Bet struct {
	ID        uuid.UUID       `json:"id"`
	Date      time.Time       `json:"date"`
	Label     string          `json:"match"`
	Pick      Pick            `json:"pick"`
	Odds      decimal.Decimal `json:"odds"`
	Stake     decimal.Decimal `json:"stake"`
	Outcome   Outcome         `json:"outcome"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewBet returns a validated pending bet with a fresh ID.
func NewBet(date time.Time, label string, pick Pick, odds, stake decimal.Decimal) (Bet, error) {
	b := Bet{
		ID:        uuid.New(),
		Date:      date,
		Label:     strings.TrimSpace(label),
		Pick:      pick,
		Odds:      odds,
		Stake:     stake,
		Outcome:   Pending,
		CreatedAt: time.Now().UTC(),
	}
	if err := ValidateBet(b); err != nil {
		return Bet{}, err
	}
	return b, nil
}

// ValidateBet checks the label, pick, outcome, odds and stake of b.
func ValidateBet(b Bet) error {
	if strings.TrimSpace(b.Label) == "" {
		return fmt.Errorf("%w: match label is empty", ErrInvalidBet)
	}
	if !b.Pick.Valid() {
		return fmt.Errorf("%w: unknown pick %q", ErrInvalidBet, b.Pick)
	}
	if !b.Outcome.Valid() {
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidBet, b.Outcome)
	}
	if b.Odds.LessThan(MinOdds) {
		return fmt.Errorf("%w: odds must be at least %s (got %s)", ErrInvalidBet, MinOdds, b.Odds)
	}
	if !b.Stake.IsPositive() {
		return fmt.Errorf("%w: stake must be positive (got %s)", ErrInvalidBet, b.Stake)
	}
	return nil
}

// Profit is zero while pending, stake*(odds-1) on a hit and -stake on a miss.
func (b Bet) Profit() decimal.Decimal {
	switch b.Outcome {
	case Pending:
		return decimal.Zero
	case Outcome(b.Pick):
		return b.Stake.Mul(b.Odds.Sub(decimal.NewFromInt(1)))
	default:
		return b.Stake.Neg()
	}
}

// Won reports whether the bet returned a profit.
func (b Bet) Won() bool {
	return b.Profit().IsPositive()
}
