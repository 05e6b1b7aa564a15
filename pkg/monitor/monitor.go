// Package monitor runs the battery polling loop and turns battery
// transitions into music start/stop actions.
package monitor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/power"
)

// maxConsecutiveErrors is how many failed polls in a row are tolerated
// before the failure is escalated in the log.
const maxConsecutiveErrors = 5

// Player plays the music file in the background.
type Player interface {
	Start(path string) error
	Stop() error
	Playing() bool
}

// Notifier shows desktop notifications. Implementations must not fail.
type Notifier interface {
	Notify(title, message string)
}

// Monitor is the single sequential loop that polls the battery and drives
// the player and the notifier.
type Monitor struct {
	conf     config.Config
	poller   power.Poller
	tracker  *Tracker
	player   Player
	notifier Notifier

	consecutiveErrors int

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

func New(conf config.Config, poller power.Poller, player Player, notifier Notifier) *Monitor {
	return &Monitor{
		conf:     conf,
		poller:   poller,
		tracker:  NewTracker(conf),
		player:   player,
		notifier: notifier,
		now:      time.Now,
		after:    time.After,
	}
}

// Tracker exposes the state machine, mainly for inspection.
func (m *Monitor) Tracker() *Tracker {
	return m.tracker
}

// Run polls until ctx is done. Battery and playback errors are logged and
// the loop moves on to the next tick. Music is stopped before returning.
func (m *Monitor) Run(ctx context.Context) error {
	logrus.WithFields(m.conf.LogrusFields()).Info("battery and music monitoring started")

	for {
		m.Tick()

		select {
		case <-ctx.Done():
			m.shutdown()
			return nil
		case <-m.after(m.conf.PollInterval):
		}
	}
}

func (m *Monitor) shutdown() {
	if m.player.Playing() {
		m.stopMusic()
	}
	logrus.Info("monitoring stopped")
}

// Tick performs one poll and applies the resulting action.
func (m *Monitor) Tick() {
	reading, err := m.poller.Read()
	if err != nil {
		m.consecutiveErrors++
		entry := logrus.WithError(err).WithField("consecutiveErrors", m.consecutiveErrors)
		if m.consecutiveErrors >= maxConsecutiveErrors {
			entry.Error("battery has been unavailable for several polls in a row")
		} else {
			entry.Warn("failed to read battery")
		}
		return
	}
	m.consecutiveErrors = 0

	if m.tracker.State().SongPlaying && !m.player.Playing() {
		logrus.Warn("music stopped on its own, it will be restarted")
		m.tracker.SetPlaying(false)
	}

	action := m.tracker.Update(reading)
	m.printStatus(reading)

	switch action {
	case StartMusic:
		m.startMusic()
	case StopMusic:
		m.stopMusic()
	}
}

func (m *Monitor) printStatus(r power.Reading) {
	entry := logrus.WithFields(logrus.Fields{
		"percentage": r.Percentage,
		"status":     r.State(),
	})
	msg := fmt.Sprintf("Battery: %d%% Status: %s", r.Percentage, r.State())

	// Only log at info level when something changed.
	if m.tracker.Changes().Any() {
		entry.Info(msg)
		return
	}
	entry.Debug(msg)
}

func (m *Monitor) startMusic() {
	path := m.conf.MusicFilePath
	if err := m.player.Start(path); err != nil {
		logrus.WithError(err).WithField("file", path).Error("failed to start music")
		m.tracker.SetPlaying(false)
		return
	}

	m.notifier.Notify("Music Started", "Music started playing at "+m.now().Format("15:04:05"))
	logrus.WithField("file", filepath.Base(path)).Info("playing music")
}

func (m *Monitor) stopMusic() {
	if err := m.player.Stop(); err != nil {
		// The player has given up on the worker; treat the music as stopped.
		logrus.WithError(err).Error("failed to stop music cleanly")
	}
	m.tracker.SetPlaying(false)

	m.notifier.Notify("Music Stopped", "Music stopped at "+m.now().Format("15:04:05"))
	logrus.Info("music playback stopped")
}
