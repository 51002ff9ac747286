package notify

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

type CommandOptions struct {
	// Command is the notify-send compatible binary to run.
	Command string
	AppName string
}

// CommandNotifier runs `notify-send <title> <body> -i <icon>`.
type CommandNotifier struct {
	command string
	appName string
}

func NewCommandNotifier(opts CommandOptions) *CommandNotifier {
	command := opts.Command
	if command == "" {
		command = "notify-send"
	}
	return &CommandNotifier{command: command, appName: opts.AppName}
}

func (c *CommandNotifier) args(n Notification) []string {
	args := []string{n.Title, n.Body}
	if n.Icon != "" {
		args = append(args, "-i", n.Icon)
	}
	if c.appName != "" {
		args = append(args, "-a", c.appName)
	}
	return args
}

func (c *CommandNotifier) Notify(ctx context.Context, n Notification) error {
	path, err := exec.LookPath(c.command)
	if err != nil {
		return errors.Wrapf(ErrFacilityUnavailable, "%q not found (install libnotify-bin)", c.command)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, c.args(n)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrapf(err, "failed to send notification: %s", msg)
		}
		return errors.Wrap(err, "failed to send notification")
	}
	return nil
}
