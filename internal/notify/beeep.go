package notify

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/pkg/errors"
)

type BeeepOptions struct {
	AppName string
}

// BeeepNotifier goes through beeep, which talks D-Bus and falls back to
// notify-send or kdialog on Linux.
type BeeepNotifier struct {
	appName string

	notify func(title, message string, icon any) error
	getenv func(string) string
	goos   string
}

func NewBeeepNotifier(opts BeeepOptions) *BeeepNotifier {
	return &BeeepNotifier{
		appName: opts.AppName,
		notify:  beeep.Notify,
		getenv:  os.Getenv,
		goos:    runtime.GOOS,
	}
}

// beeep keeps the app name in a package variable
var beeepAppNameMu sync.Mutex

func (b *BeeepNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Skip on headless Linux; beeep would only fail after trying every path.
	if b.goos == "linux" && b.getenv("DISPLAY") == "" && b.getenv("WAYLAND_DISPLAY") == "" {
		return errors.Wrap(ErrFacilityUnavailable, "no DISPLAY or WAYLAND_DISPLAY set")
	}

	beeepAppNameMu.Lock()
	defer beeepAppNameMu.Unlock()
	if b.appName != "" {
		beeep.AppName = b.appName
	}

	if err := b.notify(n.Title, n.Body, n.Icon); err != nil {
		if errors.Is(err, beeep.ErrUnsupported) {
			return errors.Wrap(ErrFacilityUnavailable, err.Error())
		}
		return errors.Wrap(err, "failed to send notification")
	}
	return nil
}
