//go:build !darwin

package power

import pkgerrors "github.com/pkg/errors"

func newSMCPoller() (Poller, error) {
	return nil, pkgerrors.New("the smc battery source is only available on macOS")
}
