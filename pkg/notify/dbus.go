package notify

import (
	"sync"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsMethod = notificationsDest + ".Notify"

	expireTimeoutMillis = int32(5000)
)

// busObject is the part of dbus.BusObject used here.
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

func dialSessionBus() (busObject, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return conn.Object(notificationsDest, notificationsPath), nil
}

// dbusNotifier talks to the notification daemon over the session bus.
type dbusNotifier struct {
	appName string
	connect func() (busObject, error)

	mu  sync.Mutex
	obj busObject
}

func (n *dbusNotifier) object() (busObject, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.obj != nil {
		return n.obj, nil
	}
	obj, err := n.connect()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to connect to session bus")
	}
	n.obj = obj
	return obj, nil
}

func (n *dbusNotifier) Notify(title, message string) error {
	obj, err := n.object()
	if err != nil {
		return wrapFailure(err, BackendLinuxDBus)
	}

	call := obj.Call(notificationsMethod, 0,
		n.appName,
		uint32(0),
		"",
		title,
		message,
		[]string{},
		map[string]dbus.Variant{},
		expireTimeoutMillis,
	)
	if call.Err != nil {
		return wrapFailure(call.Err, BackendLinuxDBus)
	}
	return nil
}
