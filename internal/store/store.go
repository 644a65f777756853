// Package store persists the betting log in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashflow/internal/betting"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a bet ID does not exist.
var ErrNotFound = errors.New("bet not found")

const dateLayout = "2006-01-02"

// DataDir returns the XDG data directory for cashflow.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cashflow")
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	return filepath.Join(DataDir(), "cashflow.db")
}

// Store is the SQLite-backed betting log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertBet(e execer, b betting.Bet) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	// Upsert keeps the row's rowid and created_at, so re-importing a log
	// does not reorder bets that share a date.
	_, err := e.Exec(`INSERT INTO bets
		(bet_id, bet_date, label, pick, odds, stake, outcome, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bet_id) DO UPDATE SET
			bet_date = excluded.bet_date,
			label = excluded.label,
			pick = excluded.pick,
			odds = excluded.odds,
			stake = excluded.stake,
			outcome = excluded.outcome,
			updated_at = excluded.updated_at`,
		b.ID.String(), b.Date.Format(dateLayout), b.Label, string(b.Pick),
		b.Odds.String(), b.Stake.String(), string(b.Outcome),
		created.UTC().Format(time.RFC3339Nano), now,
	)
	return err
}

// AddBet validates and stores b. A bet with the same ID is updated in place.
func (s *Store) AddBet(b betting.Bet) error {
	if err := betting.ValidateBet(b); err != nil {
		return err
	}
	if b.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", betting.ErrInvalidBet)
	}
	if err := insertBet(s.db, b); err != nil {
		return fmt.Errorf("inserting bet: %w", err)
	}
	return nil
}

// UpdateOutcome settles (or un-settles) the bet with the given ID.
func (s *Store) UpdateOutcome(id uuid.UUID, o betting.Outcome) error {
	if !o.Valid() {
		return fmt.Errorf("%w: unknown outcome %q", betting.ErrInvalidBet, o)
	}
	res, err := s.db.Exec("UPDATE bets SET outcome = ?, updated_at = ? WHERE bet_id = ?",
		string(o), time.Now().UTC().Format(time.RFC3339Nano), id.String())
	if err != nil {
		return fmt.Errorf("updating outcome: %w", err)
	}
	return requireOne(res, id)
}

// DeleteBet removes the bet with the given ID.
func (s *Store) DeleteBet(id uuid.UUID) error {
	res, err := s.db.Exec("DELETE FROM bets WHERE bet_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("deleting bet: %w", err)
	}
	return requireOne(res, id)
}

func requireOne(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

const selectBets = `SELECT bet_id, bet_date, label, pick, odds, stake, outcome, created_at FROM bets`

// GetBet returns a single bet.
func (s *Store) GetBet(id uuid.UUID) (betting.Bet, error) {
	rows, err := s.db.Query(selectBets+" WHERE bet_id = ?", id.String())
	if err != nil {
		return betting.Bet{}, err
	}
	bets, err := scanBets(rows)
	if err != nil {
		return betting.Bet{}, err
	}
	if len(bets) == 0 {
		return betting.Bet{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return bets[0], nil
}

// ListBets returns every bet ordered by date, then insertion order.
func (s *Store) ListBets() ([]betting.Bet, error) {
	rows, err := s.db.Query(selectBets + " ORDER BY bet_date, rowid")
	if err != nil {
		return nil, err
	}
	return scanBets(rows)
}

func scanBets(rows *sql.Rows) ([]betting.Bet, error) {
	defer func() { _ = rows.Close() }()

	var bets []betting.Bet
	for rows.Next() {
		var id, date, pick, odds, stake, outcome, created string
		var b betting.Bet
		if err := rows.Scan(&id, &date, &b.Label, &pick, &odds, &stake, &outcome, &created); err != nil {
			return nil, err
		}

		var err error
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bet %q: %w", id, err)
		}
		if b.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("bet %s date: %w", id, err)
		}
		if b.Odds, err = decimal.NewFromString(odds); err != nil {
			return nil, fmt.Errorf("bet %s odds: %w", id, err)
		}
		if b.Stake, err = decimal.NewFromString(stake); err != nil {
			return nil, fmt.Errorf("bet %s stake: %w", id, err)
		}
		b.Pick = betting.Pick(pick)
		b.Outcome = betting.Outcome(outcome)
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

		bets = append(bets, b)
	}
	return bets, rows.Err()
}

// Clear deletes every bet.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM bets")
	return err
}

// Count returns the number of stored bets.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM bets").Scan(&count)
	return count, err
}

// ReplaceAll atomically swaps the stored log for bets. Every bet is
// validated before anything is written.
func (s *Store) ReplaceAll(bets []betting.Bet) error {
	return s.insertAll(bets, true)
}

// AddAll stores bets in one transaction.
func (s *Store) AddAll(bets []betting.Bet) error {
	return s.insertAll(bets, false)
}

func (s *Store) insertAll(bets []betting.Bet, replace bool) error {
	for i, b := range bets {
		if err := betting.ValidateBet(b); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if b.ID == uuid.Nil {
			return fmt.Errorf("record %d: %w: missing id", i+1, betting.ErrInvalidBet)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.Exec("DELETE FROM bets"); err != nil {
			return err
		}
	}
	for _, b := range bets {
		if err := insertBet(tx, b); err != nil {
			return fmt.Errorf("inserting bet %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}
