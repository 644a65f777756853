package betting

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary aggregates a set of bets.
type Summary struct {
	Bets    int             `json:"bets"`
	Wins    int             `json:"wins"`
	Pending int             `json:"pending"`
	Stake   decimal.Decimal `json:"stake"`
	Profit  decimal.Decimal `json:"profit"`
	WinRate float64         `json:"win_rate"` // percent of all bets, pending included
	ROI     float64         `json:"roi"`      // percent, 0 when nothing was staked
}

// Summarize totals bets. An empty slice yields a zero Summary.
func Summarize(bets []Bet) Summary {
	s := Summary{Stake: decimal.Zero, Profit: decimal.Zero}
	for _, b := range bets {
		s.Bets++
		s.Stake = s.Stake.Add(b.Stake)
		s.Profit = s.Profit.Add(b.Profit())
		if b.Won() {
			s.Wins++
		}
		if b.Outcome == Pending {
			s.Pending++
		}
	}
	if s.Bets > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Bets) * 100
	}
	s.ROI = roi(s.Profit, s.Stake)
	return s
}

func roi(profit, stake decimal.Decimal) float64 {
	if stake.IsZero() {
		return 0
	}
	return profit.Div(stake).Mul(hundred).InexactFloat64()
}

// Group is a Summary keyed by a grouping label.
type Group struct {
	Key string `json:"key"`
	Summary
}

// ByPick groups bets by pick in home/draw/away order. Picks with no bets
// are omitted.
func ByPick(bets []Bet) []Group {
	buckets := make(map[Pick][]Bet)
	for _, b := range bets {
		buckets[b.Pick] = append(buckets[b.Pick], b)
	}
	var out []Group
	for _, p := range Picks {
		if len(buckets[p]) == 0 {
			continue
		}
		out = append(out, Group{Key: string(p), Summary: Summarize(buckets[p])})
	}
	return out
}

// OddsBand is a right-closed odds interval (Low, High]. The last band has
// no upper bound.
type OddsBand struct {
	Label string
	Low   decimal.Decimal
	High  decimal.Decimal
	Open  bool
}

// OddsBands lists the bands used by ByOddsBand.
var OddsBands = []OddsBand{
	{Label: "1.0-1.5", Low: decimal.NewFromInt(1), High: decimal.RequireFromString("1.5")},
	{Label: "1.5-2.0", Low: decimal.RequireFromString("1.5"), High: decimal.NewFromInt(2)},
	{Label: "2.0-2.5", Low: decimal.NewFromInt(2), High: decimal.RequireFromString("2.5")},
	{Label: "2.5-3.0", Low: decimal.RequireFromString("2.5"), High: decimal.NewFromInt(3)},
	{Label: "3.0+", Low: decimal.NewFromInt(3), Open: true},
}

// Contains reports whether odds fall in (Low, High].
func (ob OddsBand) Contains(odds decimal.Decimal) bool {
	if !odds.GreaterThan(ob.Low) {
		return false
	}
	return ob.Open || odds.LessThanOrEqual(ob.High)
}

// BandOf returns the label of the band holding odds, or "" below 1.
func BandOf(odds decimal.Decimal) string {
	for _, ob := range OddsBands {
		if ob.Contains(odds) {
			return ob.Label
		}
	}
	return ""
}

// ByOddsBand groups bets by odds band in ascending order. Empty bands are
// omitted.
func ByOddsBand(bets []Bet) []Group {
	buckets := make(map[string][]Bet)
	for _, b := range bets {
		label := BandOf(b.Odds)
		buckets[label] = append(buckets[label], b)
	}
	var out []Group
	for _, ob := range OddsBands {
		if len(buckets[ob.Label]) == 0 {
			continue
		}
		out = append(out, Group{Key: ob.Label, Summary: Summarize(buckets[ob.Label])})
	}
	return out
}

// ProfitPoint is the running profit after one bet.
type ProfitPoint struct {
	BetID      uuid.UUID       `json:"bet_id"`
	Date       time.Time       `json:"date"`
	Profit     decimal.Decimal `json:"profit"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// CumulativeProfit orders bets by date, keeping insertion order for equal
// dates, and returns the running profit.
func CumulativeProfit(bets []Bet) []ProfitPoint {
	sorted := make([]Bet, len(bets))
	copy(sorted, bets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make([]ProfitPoint, 0, len(sorted))
	running := decimal.Zero
	for _, b := range sorted {
		p := b.Profit()
		running = running.Add(p)
		out = append(out, ProfitPoint{BetID: b.ID, Date: b.Date, Profit: p, Cumulative: running})
	}
	return out
}

// Bucket is one bin of a stake histogram, covering [Low, High).
// The last bucket includes High.
type Bucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// StakeHistogram bins stakes into n equal-width buckets between the
// smallest and largest stake. Equal stakes produce a single bucket.
func StakeHistogram(bets []Bet, n int) []Bucket {
	if len(bets) == 0 || n < 1 {
		return nil
	}

	lo := bets[0].Stake.InexactFloat64()
	hi := lo
	for _, b := range bets[1:] {
		v := b.Stake.InexactFloat64()
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		return []Bucket{{Low: lo, High: hi, Count: len(bets)}}
	}

	width := (hi - lo) / float64(n)
	out := make([]Bucket, n)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[n-1].High = hi

	for _, b := range bets {
		idx := int((b.Stake.InexactFloat64() - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		out[idx].Count++
	}
	return out
}

// Advice names the strongest and weakest segments of a betting log.
type Advice struct {
	BestPick  Group   `json:"best_pick"`
	WorstPick Group   `json:"worst_pick"`
	BestBand  Group   `json:"best_band"`
	ROI       float64 `json:"roi"`
}

// Advise picks the best and worst pick and the best odds band by ROI. ok is
// false when either grouping is empty. Ties go to the first group.
func Advise(bets []Bet) (a Advice, ok bool) {
	picks := ByPick(bets)
	bands := ByOddsBand(bets)
	if len(picks) == 0 || len(bands) == 0 {
		return Advice{}, false
	}

	a.BestPick, a.WorstPick = picks[0], picks[0]
	for _, g := range picks[1:] {
		if g.ROI > a.BestPick.ROI {
			a.BestPick = g
		}
		if g.ROI < a.WorstPick.ROI {
			a.WorstPick = g
		}
	}
	a.BestBand = bands[0]
	for _, g := range bands[1:] {
		if g.ROI > a.BestBand.ROI {
			a.BestBand = g
		}
	}
	a.ROI = Summarize(bets).ROI
	return a, true
}

// Lines renders the advice as numbered sentences.
func (a Advice) Lines() []string {
	return []string{
		fmt.Sprintf("1. Favour %s picks, the best performer (ROI %.2f%%).", a.BestPick.Key, a.BestPick.ROI),
		fmt.Sprintf("2. Odds in %s performed best (ROI %.2f%%).", a.BestBand.Key, a.BestBand.ROI),
		fmt.Sprintf("3. Be careful with %s picks, the worst performer (ROI %.2f%%).", a.WorstPick.Key, a.WorstPick.ROI),
		"4. Keep recording results and revisit the strategy regularly.",
		fmt.Sprintf("5. Overall ROI is %.2f%%.", a.ROI),
	}
}
