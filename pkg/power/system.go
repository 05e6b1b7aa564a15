package power

import (
	"math"

	"github.com/distatus/battery"
	"github.com/sirupsen/logrus"
)

// SystemPoller queries the OS battery API through distatus/battery.
type SystemPoller struct {
	// Index selects the battery. Machines handled here only have one.
	Index int

	get func(idx int) (*battery.Battery, error)
}

func NewSystemPoller() *SystemPoller {
	return &SystemPoller{get: battery.Get}
}

func (p *SystemPoller) Read() (Reading, error) {
	logrus.Tracef("SystemPoller.Read called")

	bat, err := p.get(p.Index)
	if err != nil {
		partial, ok := err.(battery.ErrPartial)
		// Charge rate or voltage may be missing on some machines. We only
		// need state and capacity.
		if !ok || partial.State != nil || partial.Current != nil || partial.Full != nil {
			return Reading{}, unavailable(err, "failed to get battery %d", p.Index)
		}
		logrus.WithError(err).Trace("battery reported partial information")
	}
	if bat == nil {
		return Reading{}, unavailable(nil, "no battery %d", p.Index)
	}
	if bat.Full <= 0 {
		return Reading{}, unavailable(nil, "battery %d reports zero full capacity", p.Index)
	}

	pct := int(math.Round(bat.Current / bat.Full * 100))

	return Reading{
		Percentage: clampPercentage(pct),
		Charging:   bat.State != battery.Discharging && bat.State != battery.Empty,
		Timestamp:  nowFunc(),
	}, nil
}
