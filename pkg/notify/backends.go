package notify

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/gen2brain/beeep"
	pkgerrors "github.com/pkg/errors"
)

var execCommand = exec.Command

func wrapFailure(err error, backend Backend) error {
	return pkgerrors.Wrapf(ErrNotification, "%s: %v", backend, err)
}

// toastNotifier shows Windows toast notifications.
type toastNotifier struct{}

func (n *toastNotifier) Notify(title, message string) error {
	if err := beeep.Notify(title, message, ""); err != nil {
		return wrapFailure(err, BackendWindows)
	}
	return nil
}

// osascriptNotifier uses AppleScript's display notification.
type osascriptNotifier struct{}

func appleScript(title, message string) string {
	return fmt.Sprintf("display notification %q with title %q", message, title)
}

func (n *osascriptNotifier) Notify(title, message string) error {
	out, err := execCommand("osascript", "-e", appleScript(title, message)).CombinedOutput()
	if err != nil {
		return wrapFailure(pkgerrors.Wrapf(err, "%s", strings.TrimSpace(string(out))), BackendMacOS)
	}
	return nil
}

// notifySendNotifier runs libnotify's notify-send.
type notifySendNotifier struct {
	path    string
	appName string
}

func (n *notifySendNotifier) args(title, message string) []string {
	var args []string
	if n.appName != "" {
		args = append(args, "--app-name="+n.appName)
	}
	return append(args, "--", title, message)
}

func (n *notifySendNotifier) Notify(title, message string) error {
	out, err := execCommand(n.path, n.args(title, message)...).CombinedOutput()
	if err != nil {
		return wrapFailure(pkgerrors.Wrapf(err, "%s", strings.TrimSpace(string(out))), BackendLinuxNotify)
	}
	return nil
}
