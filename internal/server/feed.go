package server

import (
	"sort"
	"sync"
)

// feed holds the most recent betting-log events and fans new ones out to
// stream subscribers. A subscriber whose buffer is full misses the event;
// it can catch up from the backlog by ID.
type feed struct {
	mu      sync.Mutex
	limit   int
	lastID  int64
	backlog []Event
	subs    map[chan Event]struct{}
}

func newFeed(limit int) *feed {
	return &feed{
		limit: max(limit, 1),
		subs:  make(map[chan Event]struct{}),
	}
}

// publish stamps ev with the next ID, appends it to the backlog and offers
// it to every subscriber. It returns the stamped event.
func (f *feed) publish(ev Event) Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastID++
	ev.ID = f.lastID
	f.backlog = append(f.backlog, ev)
	if over := len(f.backlog) - f.limit; over > 0 {
		f.backlog = append([]Event(nil), f.backlog[over:]...)
	}

	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// since returns the retained events with an ID above id, oldest first.
func (f *feed) since(id int64) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := sort.Search(len(f.backlog), func(i int) bool { return f.backlog[i].ID > id })
	out := make([]Event, len(f.backlog)-i)
	copy(out, f.backlog[i:])
	return out
}

// subscribe registers a buffered channel for new events. Call the returned
// func to unregister.
func (f *feed) subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
}

func (f *feed) counts() (events, subscribers int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.backlog), len(f.subs)
}
