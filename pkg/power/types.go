// Package power reads the battery percentage and whether the machine is on
// external power.
package power

import (
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// ErrUnavailable is returned when the platform battery query cannot be made.
var ErrUnavailable = pkgerrors.New("battery information unavailable")

// Reading is a single battery sample.
type Reading struct {
	Percentage int
	// Charging is true while the machine is on external power,
	// including when the battery is already full.
	Charging  bool
	Timestamp time.Time
}

// State returns a human readable charging state.
func (r Reading) State() string {
	if r.Charging {
		return "Charging"
	}
	return "Discharging"
}

// Poller reads the current battery state.
type Poller interface {
	Read() (Reading, error)
}

// Source selects a Poller implementation.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceSystem Source = "system"
	SourcePmset  Source = "pmset"
	SourceACPI   Source = "acpi"
	SourceSMC    Source = "smc"
)

var nowFunc = time.Now

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func unavailable(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if err == nil {
		return pkgerrors.Wrap(ErrUnavailable, msg)
	}
	return pkgerrors.Wrapf(ErrUnavailable, "%s: %v", msg, err)
}
