package betting

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bet(t *testing.T, date string, pick Pick, odds, stake string, outcome Outcome) Bet {
	t.Helper()
	b, err := NewBet(mustDate(t, date), "Home vs Away", pick, dec(odds), dec(stake))
	if err != nil {
		t.Fatalf("NewBet: %v", err)
	}
	b.Outcome = outcome
	return b
}

func TestProfit(t *testing.T) {
	tests := []struct {
		name    string
		pick    Pick
		odds    string
		stake   string
		outcome Outcome
		want    string
	}{
		{"pending", Home, "2.5", "100", Pending, "0"},
		{"hit", Home, "2.5", "100", HomeWin, "150"},
		{"hit draw", Draw, "3.2", "50", Drawn, "110"},
		{"miss", Away, "1.8", "40", HomeWin, "-40"},
		{"minimum odds", Home, "1.01", "100", HomeWin, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bet(t, "2024-05-01", tt.pick, tt.odds, tt.stake, tt.outcome)
			if got := b.Profit(); !got.Equal(dec(tt.want)) {
				t.Fatalf("Profit() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateBet(t *testing.T) {
	valid := Bet{Label: "A vs B", Pick: Home, Odds: dec("2"), Stake: dec("10"), Outcome: Pending}
	if err := ValidateBet(valid); err != nil {
		t.Fatalf("ValidateBet(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Bet)
	}{
		{"odds below minimum", func(b *Bet) { b.Odds = dec("1.00") }},
		{"zero stake", func(b *Bet) { b.Stake = decimal.Zero }},
		{"negative stake", func(b *Bet) { b.Stake = dec("-5") }},
		{"empty label", func(b *Bet) { b.Label = "   " }},
		{"unknown pick", func(b *Bet) { b.Pick = "over" }},
		{"unknown outcome", func(b *Bet) { b.Outcome = "void" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			if err := ValidateBet(b); !errors.Is(err, ErrInvalidBet) {
				t.Fatalf("ValidateBet = %v, want ErrInvalidBet", err)
			}
		})
	}
}

func TestNewBet(t *testing.T) {
	b, err := NewBet(mustDate(t, "2024-01-01"), "  Ajax vs PSV ", Draw, dec("3.1"), dec("20"))
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if b.Label != "Ajax vs PSV" {
		t.Errorf("Label = %q", b.Label)
	}
	if b.Outcome != Pending {
		t.Errorf("Outcome = %q, want pending", b.Outcome)
	}
	if _, err := NewBet(mustDate(t, "2024-01-01"), "x", Draw, dec("1"), dec("20")); !errors.Is(err, ErrInvalidBet) {
		t.Errorf("NewBet with odds 1 err = %v, want ErrInvalidBet", err)
	}
}

func TestParsePickAndOutcome(t *testing.T) {
	for in, want := range map[string]Pick{"home": Home, "X": Draw, " away ": Away, "1": Home} {
		got, err := ParsePick(in)
		if err != nil || got != want {
			t.Errorf("ParsePick(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePick("both"); !errors.Is(err, ErrInvalidBet) {
		t.Errorf("ParsePick(both) err = %v", err)
	}
	if o, err := ParseOutcome(""); err != nil || o != Pending {
		t.Errorf("ParseOutcome(\"\") = %q, %v", o, err)
	}
	if o, err := ParseOutcome("draw"); err != nil || o != Drawn {
		t.Errorf("ParseOutcome(draw) = %q, %v", o, err)
	}
}

func TestParseChineseLabels(t *testing.T) {
	for in, want := range map[string]Pick{"胜": Home, "平": Draw, " 负": Away} {
		if got, err := ParsePick(in); err != nil || got != want {
			t.Errorf("ParsePick(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for in, want := range map[string]Outcome{"未开奖": Pending, "胜": HomeWin, "平": Drawn, "负": AwayWin} {
		if got, err := ParseOutcome(in); err != nil || got != want {
			t.Errorf("ParseOutcome(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOutcome("输"); !errors.Is(err, ErrInvalidBet) {
		t.Errorf("ParseOutcome(输) err = %v", err)
	}
}

func TestOutcomeNextCycles(t *testing.T) {
	o := Pending
	seen := []Outcome{o}
	for i := 0; i < len(Outcomes); i++ {
		o = o.Next()
		seen = append(seen, o)
	}
	want := []Outcome{Pending, HomeWin, Drawn, AwayWin, Pending}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	bets := []Bet{
		bet(t, "2024-05-01", Home, "2", "100", HomeWin),   // +100
		bet(t, "2024-05-02", Away, "3", "50", HomeWin),    // -50
		bet(t, "2024-05-03", Draw, "3", "50", Pending),    // 0
		bet(t, "2024-05-04", Home, "1.5", "100", AwayWin), // -100
	}
	s := Summarize(bets)

	if s.Bets != 4 || s.Wins != 1 || s.Pending != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/1/1", s.Bets, s.Wins, s.Pending)
	}
	if !s.Stake.Equal(dec("300")) {
		t.Errorf("Stake = %s, want 300", s.Stake)
	}
	if !s.Profit.Equal(dec("-50")) {
		t.Errorf("Profit = %s, want -50", s.Profit)
	}
	if s.WinRate != 25 {
		t.Errorf("WinRate = %v, want 25", s.WinRate)
	}
	if want := -50.0 / 300 * 100; abs(s.ROI-want) > 1e-9 {
		t.Errorf("ROI = %v, want %v", s.ROI, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Bets != 0 || s.WinRate != 0 || s.ROI != 0 || !s.Stake.IsZero() {
		t.Fatalf("Summarize(nil) = %+v", s)
	}
}

func TestByPick(t *testing.T) {
	bets := []Bet{
		bet(t, "2024-05-01", Away, "2", "10", AwayWin),
		bet(t, "2024-05-02", Home, "2", "10", AwayWin),
		bet(t, "2024-05-03", Away, "2", "10", HomeWin),
	}
	groups := ByPick(bets)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2 (draw omitted)", len(groups))
	}
	if groups[0].Key != "home" || groups[1].Key != "away" {
		t.Fatalf("keys = %s,%s; want home,away", groups[0].Key, groups[1].Key)
	}
	if groups[1].Bets != 2 || groups[1].WinRate != 50 || groups[1].ROI != 0 {
		t.Errorf("away group = %+v", groups[1])
	}
	if groups[0].ROI != -100 {
		t.Errorf("home ROI = %v, want -100", groups[0].ROI)
	}
}

func TestBandOf_RightClosed(t *testing.T) {
	tests := map[string]string{
		"1.01": "1.0-1.5",
		"1.5":  "1.0-1.5",
		"1.51": "1.5-2.0",
		"2":    "1.5-2.0",
		"2.5":  "2.0-2.5",
		"3":    "2.5-3.0",
		"3.01": "3.0+",
		"15":   "3.0+",
		"1":    "",
	}
	for odds, want := range tests {
		if got := BandOf(dec(odds)); got != want {
			t.Errorf("BandOf(%s) = %q, want %q", odds, got, want)
		}
	}
}

func TestByOddsBand_OmitsEmpty(t *testing.T) {
	bets := []Bet{
		bet(t, "2024-05-01", Home, "4", "10", HomeWin),
		bet(t, "2024-05-02", Home, "1.2", "10", HomeWin),
		bet(t, "2024-05-03", Home, "1.5", "10", AwayWin),
	}
	groups := ByOddsBand(bets)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Key != "1.0-1.5" || groups[0].Bets != 2 {
		t.Errorf("first band = %+v", groups[0])
	}
	if groups[1].Key != "3.0+" || groups[1].ROI != 300 {
		t.Errorf("last band = %+v", groups[1])
	}
}

func TestCumulativeProfit_OrderedAndStable(t *testing.T) {
	a := bet(t, "2024-05-03", Home, "2", "10", HomeWin) // +10
	b := bet(t, "2024-05-01", Home, "2", "10", AwayWin) // -10
	c := bet(t, "2024-05-03", Home, "3", "10", HomeWin) // +20
	points := CumulativeProfit([]Bet{a, b, c})

	wantIDs := []uuid.UUID{b.ID, a.ID, c.ID}
	wantCum := []string{"-10", "0", "20"}
	for i, p := range points {
		if p.BetID != wantIDs[i] {
			t.Errorf("point %d is bet %s, want %s", i, p.BetID, wantIDs[i])
		}
		if !p.Cumulative.Equal(dec(wantCum[i])) {
			t.Errorf("point %d cumulative = %s, want %s", i, p.Cumulative, wantCum[i])
		}
	}
}

func TestStakeHistogram(t *testing.T) {
	bets := []Bet{
		bet(t, "2024-05-01", Home, "2", "10", Pending),
		bet(t, "2024-05-01", Home, "2", "20", Pending),
		bet(t, "2024-05-01", Home, "2", "50", Pending),
		bet(t, "2024-05-01", Home, "2", "110", Pending),
	}
	hist := StakeHistogram(bets, 4)
	if len(hist) != 4 {
		t.Fatalf("len = %d, want 4", len(hist))
	}
	wantCounts := []int{2, 1, 0, 1}
	total := 0
	for i, b := range hist {
		if b.Count != wantCounts[i] {
			t.Errorf("bucket %d [%v,%v) count = %d, want %d", i, b.Low, b.High, b.Count, wantCounts[i])
		}
		total += b.Count
	}
	if total != len(bets) {
		t.Errorf("histogram holds %d bets, want %d", total, len(bets))
	}

	same := StakeHistogram(bets[:1], 5)
	if len(same) != 1 || same[0].Count != 1 {
		t.Errorf("single-stake histogram = %+v", same)
	}
	if StakeHistogram(nil, 5) != nil {
		t.Error("empty histogram should be nil")
	}
}

func TestAdvise(t *testing.T) {
	if _, ok := Advise(nil); ok {
		t.Fatal("Advise(nil) ok = true")
	}

	bets := []Bet{
		bet(t, "2024-05-01", Home, "1.4", "100", HomeWin), // +40
		bet(t, "2024-05-02", Draw, "3.5", "100", HomeWin), // -100
		bet(t, "2024-05-03", Away, "2.2", "100", AwayWin), // +120
	}
	a, ok := Advise(bets)
	if !ok {
		t.Fatal("Advise ok = false")
	}
	if a.BestPick.Key != "away" {
		t.Errorf("BestPick = %s, want away", a.BestPick.Key)
	}
	if a.WorstPick.Key != "draw" {
		t.Errorf("WorstPick = %s, want draw", a.WorstPick.Key)
	}
	if a.BestBand.Key != "2.0-2.5" {
		t.Errorf("BestBand = %s, want 2.0-2.5", a.BestBand.Key)
	}
	if len(a.Lines()) != 5 {
		t.Errorf("len(Lines) = %d, want 5", len(a.Lines()))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
