// Package notify shows desktop notifications through one of several
// platform backends, chosen once at startup.
package notify

import (
	"os"
	"os/exec"
	"runtime"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotification is returned when a backend fails to show a notification.
var ErrNotification = pkgerrors.New("notification failed")

// Backend names a notification implementation.
type Backend string

const (
	BackendAuto        Backend = "auto"
	BackendWindows     Backend = "windows"
	BackendMacOS       Backend = "macos"
	BackendLinuxNotify Backend = "linux-notify"
	BackendLinuxDBus   Backend = "linux-dbus"
	BackendNone        Backend = "none"
)

// Notifier shows a single notification.
type Notifier interface {
	Notify(title, message string) error
}

// Options configures the notifier built by New.
type Options struct {
	Backend Backend
	AppName string
}

var (
	lookPath   = exec.LookPath
	getenv     = os.Getenv
	newDBusBus = dialSessionBus
)

// New returns the Notifier for opts.Backend, resolving BackendAuto first.
func New(opts Options) (Notifier, Backend, error) {
	backend := opts.Backend
	if backend == BackendAuto || backend == "" {
		backend = Detect(runtime.GOOS)
	}

	switch backend {
	case BackendWindows:
		return &toastNotifier{}, backend, nil
	case BackendMacOS:
		return &osascriptNotifier{}, backend, nil
	case BackendLinuxNotify:
		p, err := lookPath("notify-send")
		if err != nil {
			return nil, backend, pkgerrors.Wrapf(err, "notify-send not available")
		}
		return &notifySendNotifier{path: p, appName: opts.AppName}, backend, nil
	case BackendLinuxDBus:
		return &dbusNotifier{appName: opts.AppName, connect: newDBusBus}, backend, nil
	case BackendNone:
		return NoopNotifier{}, backend, nil
	default:
		return nil, backend, pkgerrors.Errorf("unknown notifier backend %q", backend)
	}
}

// Detect picks a backend for goos. On Linux, notify-send is preferred and
// the session bus is used when a bus address is known.
func Detect(goos string) Backend {
	switch goos {
	case "windows":
		return BackendWindows
	case "darwin":
		return BackendMacOS
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := lookPath("notify-send"); err == nil {
			return BackendLinuxNotify
		}
		if getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
			return BackendLinuxDBus
		}
		logrus.Warn("no notification backend found, notifications are disabled")
	}
	return BackendNone
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) error { return nil }

// BestEffort logs every notification and swallows backend failures.
type BestEffort struct {
	n       Notifier
	backend Backend
}

func NewBestEffort(n Notifier, backend Backend) *BestEffort {
	return &BestEffort{n: n, backend: backend}
}

func (b *BestEffort) Notify(title, message string) {
	if err := b.n.Notify(title, message); err != nil {
		logrus.WithError(err).WithField("backend", b.backend).Error("notification error")
		return
	}
	logrus.Infof("Notification: %s - %s", title, message)
}
