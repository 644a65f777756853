package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashflow/internal/betting"
)

// Snapshot is a compact betting-log state for status and event payloads.
type Snapshot struct {
	At      time.Time       `json:"at"`
	Bets    int             `json:"bets"`
	Pending int             `json:"pending"`
	Stake   decimal.Decimal `json:"stake"`
	Profit  decimal.Decimal `json:"profit"`
	WinRate float64         `json:"win_rate"`
	ROI     float64         `json:"roi"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Bets    int             `json:"bets"`
	Pending int             `json:"pending"`
	Stake   decimal.Decimal `json:"stake"`
	Profit  decimal.Decimal `json:"profit"`
}

func (d Delta) isZero() bool {
	return d.Bets == 0 &&
		d.Pending == 0 &&
		d.Stake.IsZero() &&
		d.Profit.IsZero()
}

// Event is emitted whenever the betting log changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Requests        int64     `json:"requests"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

func snapshotFromSummary(sum betting.Summary, at time.Time) Snapshot {
	return Snapshot{
		At:      at,
		Bets:    sum.Bets,
		Pending: sum.Pending,
		Stake:   sum.Stake,
		Profit:  sum.Profit,
		WinRate: sum.WinRate,
		ROI:     sum.ROI,
	}
}

// diffSnapshots ignores outcome changes that leave every total unchanged.
func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Bets:    curr.Bets - prev.Bets,
		Pending: curr.Pending - prev.Pending,
		Stake:   curr.Stake.Sub(prev.Stake),
		Profit:  curr.Profit.Sub(prev.Profit),
	}
}

func (s *Service) pollOnce() {
	bets, err := s.listBets()
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("poll failed")
		return
	}
	s.observe(snapshotFromSummary(betting.Summarize(bets), now))
}

// observe records snap and publishes an event when it differs from the
// previous snapshot.
func (s *Service) observe(snap Snapshot) {
	s.mu.Lock()
	prev, seen := s.snapshot, s.hasSnapshot
	s.snapshot, s.hasSnapshot = snap, true
	s.lastPollAt = snap.At
	s.pollCount++
	s.lastError = ""
	s.mu.Unlock()

	ev := Event{Type: "snapshot", Timestamp: snap.At, Snapshot: snap}
	if seen {
		ev.Delta = diffSnapshots(prev, snap)
		if ev.Delta.isZero() {
			return
		}
		ev.Type = "bets_delta"
	}

	ev = s.feed.publish(ev)
	s.log.WithFields(logrus.Fields{
		"event":  ev.Type,
		"id":     ev.ID,
		"bets":   snap.Bets,
		"profit": snap.Profit.StringFixed(2),
	}).Debug("betting log changed")
}

func (s *Service) snapshotStatus() Status {
	events, subscribers := s.feed.counts()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Requests:        s.requests,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      events,
		SubscriberCount: subscribers,
	}
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// lastSeenID reads the resume point of a client from the Last-Event-ID
// header or the since query parameter. Zero means from the start.
func lastSeenID(r *http.Request) (int64, error) {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("since")
	}
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("bad event id %q", raw)
	}
	return id, nil
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	after, err := lastSeenID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.feed.since(after))
}

const streamHeartbeat = 15 * time.Second

// handleStream sends betting-log events as server-sent events. A client
// that reconnects with Last-Event-ID gets the retained events it missed;
// a fresh client starts with the current summary.
func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	after, err := lastSeenID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events, unsubscribe := s.feed.subscribe(16)
	defer unsubscribe()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	send := func(ev Event) bool {
		if err := writeSSE(w, ev); err != nil {
			s.log.WithError(err).Debug("stream client gone")
			return false
		}
		flusher.Flush()
		return true
	}

	if after > 0 {
		for _, ev := range s.feed.since(after) {
			if !send(ev) {
				return
			}
			after = ev.ID
		}
	} else if !send(Event{Type: "snapshot", Timestamp: time.Now(), Snapshot: s.snapshotStatus().Summary}) {
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev := <-events:
			// Already replayed from the backlog.
			if ev.ID <= after {
				continue
			}
			if !send(ev) {
				return
			}
		}
	}
}

// writeSSE frames ev as one server-sent event. Events that never entered
// the feed carry no id line so they do not move the client's resume point.
func writeSSE(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	var b strings.Builder
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(&b, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(&b, "event: %s\ndata: %s\n\n", ev.Type, data)
	_, err = io.WriteString(w, b.String())
	return err
}
