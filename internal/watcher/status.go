package watcher

import (
	"sync"
	"time"

	"spadewatch/internal/servers"
	"spadewatch/internal/tracker"
)

// staleAfter is how many intervals may pass without a good tick before the
// status is reported stale.
const staleAfter = 3

// Status is a point-in-time view of the watcher, served by the status API.
type Status struct {
	Target              string                    `json:"target"`
	URL                 string                    `json:"url"`
	Favorites           []string                  `json:"favorites"`
	Interval            string                    `json:"interval"`
	LastMap             string                    `json:"last_map,omitempty"`
	Server              *servers.ServerDescriptor `json:"server,omitempty"`
	Transition          string                    `json:"transition,omitempty"`
	Ticks               int                       `json:"ticks"`
	LastTick            time.Time                 `json:"last_tick"`
	LastSuccess         time.Time                 `json:"last_success"`
	LastError           string                    `json:"last_error,omitempty"`
	ConsecutiveFailures int                       `json:"consecutive_failures"`
	Stale               bool                      `json:"stale"`
}

type BoardOptions struct {
	Target    string
	URL       string
	Favorites tracker.FavoriteSet
	Interval  time.Duration
}

// Board holds the latest Status. The watcher loop writes it; readers get
// copies from Snapshot.
type Board struct {
	mu       sync.Mutex
	status   Status
	interval time.Duration
	now      func() time.Time
}

func NewBoard(opts BoardOptions) *Board {
	return &Board{
		status: Status{
			Target:    opts.Target,
			URL:       opts.URL,
			Favorites: opts.Favorites.Names(),
			Interval:  opts.Interval.String(),
		},
		interval: opts.Interval,
		now:      time.Now,
	}
}

func (b *Board) recordSuccess(desc *servers.ServerDescriptor, t tracker.Transition) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.status.Ticks++
	b.status.LastTick = now
	b.status.LastSuccess = now
	b.status.LastMap = desc.Map
	b.status.Server = desc
	b.status.Transition = t.String()
	b.status.LastError = ""
	b.status.ConsecutiveFailures = 0
}

func (b *Board) recordFailure(err error) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.status.Ticks++
	b.status.LastTick = b.now()
	b.status.LastError = err.Error()
	b.status.ConsecutiveFailures++
}

// Ready reports whether at least one tick has completed.
func (b *Board) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status.Ticks > 0
}

func (b *Board) Snapshot() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.status
	s.Favorites = append([]string(nil), b.status.Favorites...)
	if s.Server != nil {
		desc := *s.Server
		s.Server = &desc
	}
	if s.Ticks > 0 && b.interval > 0 {
		s.Stale = s.LastSuccess.IsZero() || b.now().Sub(s.LastSuccess) > staleAfter*b.interval
	}
	return s
}
