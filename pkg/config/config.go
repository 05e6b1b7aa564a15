package config

import (
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoMusicFile is returned when no usable music file is configured.
var ErrNoMusicFile = pkgerrors.New("no music file configured")

const (
	DefaultMinPercentage = 99
	DefaultMaxPercentage = 100
	DefaultPollInterval  = 3 * time.Second
	DefaultStopTimeout   = 5 * time.Second
)

// Config is the effective configuration of a monitor run.
// It is not modified after Validate succeeds.
type Config struct {
	MusicFilePath string
	MinPercentage int
	MaxPercentage int

	PollInterval time.Duration
	StopTimeout  time.Duration

	NotifierBackend string
	AudioBackend    string
	BatterySource   string
}

// Default returns a Config with every knob except the music file set.
func Default() Config {
	return Config{
		MinPercentage:   DefaultMinPercentage,
		MaxPercentage:   DefaultMaxPercentage,
		PollInterval:    DefaultPollInterval,
		StopTimeout:     DefaultStopTimeout,
		NotifierBackend: "auto",
		AudioBackend:    "auto",
		BatterySource:   "auto",
	}
}

// Validate checks the target window, the intervals and the music file.
func (c Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	return CheckMusicFile(c.MusicFilePath)
}

// ValidateSettings checks everything but the music file.
func (c Config) ValidateSettings() error {
	if c.MinPercentage < 0 || c.MaxPercentage > 100 {
		return pkgerrors.Errorf("target window must be within 0-100, got %d-%d", c.MinPercentage, c.MaxPercentage)
	}
	if c.MinPercentage > c.MaxPercentage {
		return pkgerrors.Errorf("min percentage %d is greater than max percentage %d", c.MinPercentage, c.MaxPercentage)
	}
	if c.PollInterval <= 0 {
		return pkgerrors.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.StopTimeout <= 0 {
		return pkgerrors.Errorf("stop timeout must be positive, got %s", c.StopTimeout)
	}
	return nil
}

// TargetMet reports whether percentage lies inside the inclusive target window.
func (c Config) TargetMet(percentage int) bool {
	return c.MinPercentage <= percentage && percentage <= c.MaxPercentage
}

func (c Config) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"musicFilePath":   c.MusicFilePath,
		"minPercentage":   c.MinPercentage,
		"maxPercentage":   c.MaxPercentage,
		"pollInterval":    c.PollInterval.String(),
		"stopTimeout":     c.StopTimeout.String(),
		"notifierBackend": c.NotifierBackend,
		"audioBackend":    c.AudioBackend,
		"batterySource":   c.BatterySource,
	}
}
