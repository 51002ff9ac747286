// Package watcher drives the poll loop: fetch the directory, find the target
// server, classify its map and notify on change.
package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"spadewatch/internal/metrics"
	"spadewatch/internal/notify"
	"spadewatch/internal/servers"
	"spadewatch/internal/tracker"
)

const DefaultInterval = 60 * time.Second

// Fetcher loads one copy of the server directory.
type Fetcher interface {
	Fetch(ctx context.Context) (servers.Directory, error)
}

// Presentation holds the titles and icons used for notifications.
type Presentation struct {
	Title         string
	FavoriteTitle string
	Icon          string
	FavoriteIcon  string
}

func DefaultPresentation() Presentation {
	return Presentation{
		Title:         "OpenSpades: New Map!",
		FavoriteTitle: "OpenSpades: New Map is your favorite!!!",
		Icon:          "terminal",
		FavoriteIcon:  "emblem-favorite",
	}
}

// For builds the notification for a transition.
func (p Presentation) For(t tracker.Transition, desc *servers.ServerDescriptor) notify.Notification {
	n := notify.Notification{
		Title: p.Title,
		Body:  newMapLine(desc),
		Icon:  p.Icon,
	}
	if t.Favorite() {
		n.Title = p.FavoriteTitle
		n.Icon = p.FavoriteIcon
	}
	return n
}

type Options struct {
	Logger       *zap.Logger
	Fetcher      Fetcher
	Notifier     notify.Notifier
	Output       io.Writer
	ServerName   string
	Favorites    tracker.FavoriteSet
	Interval     time.Duration
	Presentation Presentation
	Metrics      *metrics.Metrics
	Board        *Board
}

type Watcher struct {
	logger       *zap.Logger
	fetcher      Fetcher
	notifier     notify.Notifier
	out          io.Writer
	serverName   string
	favorites    tracker.FavoriteSet
	interval     time.Duration
	presentation Presentation
	metrics      *metrics.Metrics
	board        *Board
}

func New(opts Options) (*Watcher, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("watcher: a fetcher is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("watcher: a notifier is required")
	}
	if opts.ServerName == "" {
		return nil, errors.New("watcher: a server name is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	favorites := opts.Favorites
	if favorites == nil {
		favorites = tracker.NewFavoriteSet()
	}
	presentation := opts.Presentation
	if presentation == (Presentation{}) {
		presentation = DefaultPresentation()
	}

	return &Watcher{
		logger:       logger,
		fetcher:      opts.Fetcher,
		notifier:     opts.Notifier,
		out:          out,
		serverName:   opts.ServerName,
		favorites:    favorites,
		interval:     interval,
		presentation: presentation,
		metrics:      opts.Metrics,
		board:        opts.Board,
	}, nil
}

// Result is what a single tick did. When Err is set nothing was classified.
type Result struct {
	Descriptor *servers.ServerDescriptor
	Transition tracker.Transition
	// Notified is set when a notification was attempted; NotifyErr holds
	// the dispatch failure, if any.
	Notified  bool
	NotifyErr error
	Err       error
}

// Tick runs one fetch-locate-classify-notify pass and returns the state for
// the next tick. On fetch or lookup failure the state comes back untouched.
func (w *Watcher) Tick(ctx context.Context, state tracker.State) (Result, tracker.State) {
	start := time.Now()
	dir, err := w.fetcher.Fetch(ctx)
	w.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return Result{Err: ctx.Err()}, state
		}
		w.fail(err)
		return Result{Err: err}, state
	}

	w.logger.Debug("fetched server list",
		zap.Int("servers", dir.Len()),
		zap.Duration("took", time.Since(start)))

	desc, err := dir.Locate(w.serverName)
	if err != nil {
		w.fail(err)
		return Result{Err: err}, state
	}

	transition, next := state.Observe(desc.Map, w.favorites)
	res := Result{Descriptor: desc, Transition: transition}

	w.logger.Debug("classified map",
		zap.String("map", desc.Map),
		zap.Int("players", desc.PlayersCurrent),
		zap.Int("maxPlayers", desc.PlayersMax),
		zap.Stringer("transition", transition))
	w.metrics.ObserveTick(metrics.ResultOK)
	w.metrics.ObserveTransition(transition.String(), desc.PlayersCurrent, desc.PlayersMax)
	w.board.recordSuccess(desc, transition)

	if !transition.Notifies() {
		w.printf("%s (%s)\n", desc.Map, desc.Players())
		return res, next
	}

	w.printf("%s\n", newMapLine(desc))
	res.Notified = true
	res.NotifyErr = w.dispatch(ctx, w.presentation.For(transition, desc))

	return res, next
}

// Run ticks until ctx is done. It only returns once the context ends.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching server",
		zap.String("server", w.serverName),
		zap.Strings("favorites", w.favorites.Names()),
		zap.Duration("interval", w.interval))

	var state tracker.State
	for {
		_, state = w.Tick(ctx, state)

		if !w.wait(ctx) {
			last, _ := state.LastMap()
			w.logger.Info("watcher stopped", zap.String("lastMap", last))
			return nil
		}
	}
}

func (w *Watcher) wait(ctx context.Context) bool {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (w *Watcher) dispatch(ctx context.Context, n notify.Notification) error {
	err := w.notifier.Notify(ctx, n)
	switch {
	case err == nil:
		w.metrics.ObserveNotification(metrics.NotifySent)
		return nil
	case errors.Is(err, notify.ErrFacilityUnavailable):
		w.metrics.ObserveNotification(metrics.NotifyUnavailable)
	default:
		w.metrics.ObserveNotification(metrics.NotifyFailed)
	}

	w.printf("ERROR: %v\n", err)
	w.logger.Warn("failed to send notification",
		zap.String("title", n.Title),
		zap.String("icon", n.Icon),
		zap.Error(err))
	return err
}

func (w *Watcher) fail(err error) {
	result := metrics.ResultUnavailable
	switch {
	case errors.Is(err, servers.ErrServerNotFound):
		result = metrics.ResultServerNotFound
		err = errors.Wrapf(err, "%q", w.serverName)
	case errors.Is(err, servers.ErrMalformedPayload):
		result = metrics.ResultMalformed
	}

	w.metrics.ObserveTick(result)
	w.board.recordFailure(err)
	w.printf("ERROR: %v\n", err)
	w.logger.Warn("tick failed",
		zap.String("result", result),
		zap.Duration("retryIn", w.interval),
		zap.Error(err))
}

func (w *Watcher) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(w.out, format, args...); err != nil {
		w.logger.Debug("failed to write console line", zap.Error(err))
	}
}

func newMapLine(desc *servers.ServerDescriptor) string {
	return fmt.Sprintf("New map: %s (%s)", desc.Map, desc.Players())
}
