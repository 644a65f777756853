package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashflow/internal/betting"
)

// Record is the flat exchange form of a bet used by JSON files.
type Record struct {
	ID      string      `json:"id,omitempty"`
	Date    string      `json:"date"`
	Match   string      `json:"match"`
	Pick    string      `json:"pick"`
	Odds    json.Number `json:"odds"`
	Stake   json.Number `json:"stake"`
	Outcome string      `json:"outcome"`
}

// legacyRecord is the Chinese-keyed record of older log files, as written
// by pandas DataFrame.to_json(orient="records", date_format="iso").
type legacyRecord struct {
	Date    string      `json:"日期"`
	Match   string      `json:"比赛"`
	Pick    string      `json:"投注类型"`
	Odds    json.Number `json:"赔率"`
	Stake   json.Number `json:"投注金额"`
	Outcome string      `json:"结果"`
}

// UnmarshalJSON reads both the English keys and the legacy ones. English
// keys win when a record carries both.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var l legacyRecord
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}

	*r = Record(p)
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&r.Date, l.Date)
	fill(&r.Match, l.Match)
	fill(&r.Pick, l.Pick)
	fill(&r.Outcome, l.Outcome)
	if r.Odds == "" {
		r.Odds = l.Odds
	}
	if r.Stake == "" {
		r.Stake = l.Stake
	}
	return nil
}

// Accepted date layouts on import, most specific last.
var importDateLayouts = []string{
	dateLayout,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

func toRecord(b betting.Bet) Record {
	return Record{
		ID:      b.ID.String(),
		Date:    b.Date.Format(dateLayout),
		Match:   b.Label,
		Pick:    string(b.Pick),
		Odds:    json.Number(b.Odds.String()),
		Stake:   json.Number(b.Stake.String()),
		Outcome: string(b.Outcome),
	}
}

func fromRecord(r Record) (betting.Bet, error) {
	var b betting.Bet
	var err error

	if r.ID == "" {
		b.ID = uuid.New()
	} else if b.ID, err = uuid.Parse(r.ID); err != nil {
		return b, fmt.Errorf("%w: id %q", betting.ErrInvalidBet, r.ID)
	}

	if b.Date, err = parseDate(r.Date); err != nil {
		return b, err
	}
	if b.Pick, err = betting.ParsePick(r.Pick); err != nil {
		return b, err
	}
	if b.Outcome, err = betting.ParseOutcome(r.Outcome); err != nil {
		return b, err
	}
	if b.Odds, err = decimal.NewFromString(r.Odds.String()); err != nil {
		return b, fmt.Errorf("%w: odds %q", betting.ErrInvalidBet, r.Odds)
	}
	if b.Stake, err = decimal.NewFromString(r.Stake.String()); err != nil {
		return b, fmt.Errorf("%w: stake %q", betting.ErrInvalidBet, r.Stake)
	}
	b.Label = strings.TrimSpace(r.Match)
	b.CreatedAt = time.Now().UTC()

	return b, betting.ValidateBet(b)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", betting.ErrInvalidBet, s)
}

// WriteJSON writes bets as an indented JSON array of records.
func WriteJSON(w io.Writer, bets []betting.Bet) error {
	records := make([]Record, len(bets))
	for i, b := range bets {
		records[i] = toRecord(b)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ReadJSON parses a JSON array of records. Records without an id get a
// fresh one.
func ReadJSON(r io.Reader) ([]betting.Bet, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	bets := make([]betting.Bet, 0, len(records))
	for i, rec := range records {
		b, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		bets = append(bets, b)
	}
	return bets, nil
}

var csvHeader = []string{"date", "match", "pick", "odds", "stake", "outcome", "profit"}

// WriteCSV writes bets with a computed profit column.
func WriteCSV(w io.Writer, bets []betting.Bet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bets {
		row := []string{
			b.Date.Format(dateLayout),
			b.Label,
			string(b.Pick),
			b.Odds.String(),
			b.Stake.String(),
			string(b.Outcome),
			b.Profit().StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes the whole log as JSON records.
func (s *Store) ExportJSON(w io.Writer) error {
	bets, err := s.ListBets()
	if err != nil {
		return fmt.Errorf("listing bets: %w", err)
	}
	return WriteJSON(w, bets)
}

// ImportJSON loads records from r. With replace set the existing log is
// discarded; otherwise records are merged by ID. It returns the number of
// records imported.
func (s *Store) ImportJSON(r io.Reader, replace bool) (int, error) {
	bets, err := ReadJSON(r)
	if err != nil {
		return 0, err
	}
	if replace {
		err = s.ReplaceAll(bets)
	} else {
		err = s.AddAll(bets)
	}
	if err != nil {
		return 0, err
	}
	return len(bets), nil
}

// ExportCSV writes the whole log as CSV.
func (s *Store) ExportCSV(w io.Writer) error {
	bets, err := s.ListBets()
	if err != nil {
		return fmt.Errorf("listing bets: %w", err)
	}
	return WriteCSV(w, bets)
}
