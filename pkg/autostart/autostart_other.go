//go:build !linux && !darwin && !windows

package autostart

import (
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

func New() (Manager, error) {
	return nil, pkgerrors.Errorf("starting at login is not supported on %s", runtime.GOOS)
}
