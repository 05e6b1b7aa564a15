//go:build darwin

package power

import (
	"github.com/charlie0129/gosmc"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type smcConnection interface {
	Open() error
	Close() error
	Read(key string) (gosmc.SMCVal, error)
}

// SMCPoller reads charge and AC state straight from the Apple SMC.
type SMCPoller struct {
	conn   smcConnection
	opened bool
}

func newSMCPoller() (Poller, error) {
	return &SMCPoller{conn: gosmc.New()}, nil
}

func (p *SMCPoller) read(key string) ([]byte, error) {
	if !p.opened {
		if err := p.conn.Open(); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to open SMC")
		}
		p.opened = true
	}

	v, err := p.conn.Read(key)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read SMC key %s", key)
	}

	logrus.WithFields(logrus.Fields{
		"key": key,
		"val": v.Bytes,
	}).Trace("read from SMC")

	return v.Bytes, nil
}

func (p *SMCPoller) Read() (Reading, error) {
	charge, err := p.read(batteryChargeKey)
	if err != nil {
		return Reading{}, unavailable(err, "battery charge")
	}
	if len(charge) != 1 {
		return Reading{}, unavailable(nil, "incorrect battery charge data length %d!=1", len(charge))
	}

	ac, err := p.read(acPowerKey)
	if err != nil {
		return Reading{}, unavailable(err, "AC power")
	}

	return Reading{
		Percentage: clampPercentage(int(charge[0])),
		Charging:   len(ac) == 1 && int8(ac[0]) > 0,
		Timestamp:  nowFunc(),
	}, nil
}

// Close releases the SMC connection.
func (p *SMCPoller) Close() error {
	if !p.opened {
		return nil
	}
	p.opened = false
	return p.conn.Close()
}
