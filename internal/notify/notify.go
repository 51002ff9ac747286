// Package notify raises desktop notifications. Every backend reports
// failure as an error and leaves it to the caller to log.
package notify

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrFacilityUnavailable means the host has no usable notification facility.
var ErrFacilityUnavailable = errors.New("desktop notification facility unavailable")

const (
	BackendBeeep      = "beeep"
	BackendNotifySend = "notify-send"
	BackendNone       = "none"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendBeeep, BackendNotifySend, BackendNone}

// Notification is a titled message with a stock icon name.
type Notification struct {
	Title string
	Body  string
	Icon  string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type Options struct {
	Logger  *zap.Logger
	Backend string
	AppName string
}

// New builds the notifier for the named backend.
func New(opts Options) (Notifier, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(opts.Backend) {
	case BackendBeeep, "":
		return NewBeeepNotifier(BeeepOptions{AppName: opts.AppName}), nil
	case BackendNotifySend:
		return NewCommandNotifier(CommandOptions{Command: "notify-send", AppName: opts.AppName}), nil
	case BackendNone:
		return &DiscardNotifier{logger: logger}, nil
	default:
		return nil, errors.Errorf("unknown notifier backend %q (expected one of %s)",
			opts.Backend, strings.Join(Backends, ", "))
	}
}

// DiscardNotifier drops notifications, logging them at debug level.
type DiscardNotifier struct {
	logger *zap.Logger
}

func (d *DiscardNotifier) Notify(ctx context.Context, n Notification) error {
	if d.logger != nil {
		d.logger.Debug("discarding notification",
			zap.String("title", n.Title),
			zap.String("body", n.Body),
			zap.String("icon", n.Icon))
	}
	return nil
}
