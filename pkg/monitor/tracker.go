package monitor

import (
	"github.com/sirupsen/logrus"

	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/power"
)

// Action is what the monitor should do with the music after a reading.
type Action int

const (
	None Action = iota
	StartMusic
	StopMusic
)

func (a Action) String() string {
	switch a {
	case StartMusic:
		return "StartMusic"
	case StopMusic:
		return "StopMusic"
	default:
		return "None"
	}
}

// State is the memory carried between ticks.
type State struct {
	LastPercentage *int
	LastCharging   *bool
	SongPlaying    bool

	// Both are set once the target window is reached while charging and
	// cleared on the next unplug.
	WasChargingBeforeUnplug bool
	TargetMetBeforeUnplug   bool
}

// Changes tells which fields of the latest reading differ from the previous one.
// Both are true for the first reading.
type Changes struct {
	Percentage bool
	Charging   bool
}

func (c Changes) Any() bool {
	return c.Percentage || c.Charging
}

// Tracker decides when music starts and stops. It is not safe for
// concurrent use; the monitor loop owns it.
type Tracker struct {
	conf config.Config

	state   State
	changes Changes
}

// NewTracker returns a Tracker for the target window of conf.
func NewTracker(conf config.Config) *Tracker {
	return &Tracker{conf: conf}
}

// Update feeds one reading and returns the resulting action.
// StartMusic marks the song as playing and StopMusic marks it stopped.
func (t *Tracker) Update(r power.Reading) Action {
	t.recordChanges(r)

	targetMet := t.conf.TargetMet(r.Percentage)
	action := None

	switch {
	case r.Charging && targetMet:
		t.state.WasChargingBeforeUnplug = true
		t.state.TargetMetBeforeUnplug = true
		if !t.state.SongPlaying {
			action = StartMusic
		}
	case r.Charging:
		if t.state.SongPlaying {
			action = StopMusic
		}
	case t.state.WasChargingBeforeUnplug && t.state.TargetMetBeforeUnplug:
		if t.state.SongPlaying {
			action = StopMusic
		}
		t.state.WasChargingBeforeUnplug = false
		t.state.TargetMetBeforeUnplug = false
	}

	switch action {
	case StartMusic:
		t.state.SongPlaying = true
	case StopMusic:
		t.state.SongPlaying = false
	}

	logrus.WithFields(logrus.Fields{
		"percentage":              r.Percentage,
		"charging":                r.Charging,
		"targetMet":               targetMet,
		"songPlaying":             t.state.SongPlaying,
		"wasChargingBeforeUnplug": t.state.WasChargingBeforeUnplug,
		"targetMetBeforeUnplug":   t.state.TargetMetBeforeUnplug,
		"action":                  action,
	}).Trace("tracker updated")

	return action
}

func (t *Tracker) recordChanges(r power.Reading) {
	pct := r.Percentage
	charging := r.Charging

	t.changes = Changes{
		Percentage: t.state.LastPercentage == nil || *t.state.LastPercentage != pct,
		Charging:   t.state.LastCharging == nil || *t.state.LastCharging != charging,
	}

	t.state.LastPercentage = &pct
	t.state.LastCharging = &charging
}

// SetPlaying overrides the playing flag, e.g. after a failed start.
func (t *Tracker) SetPlaying(playing bool) {
	t.state.SongPlaying = playing
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return t.state
}

// Changes returns what changed with the latest Update.
func (t *Tracker) Changes() Changes {
	return t.changes
}
