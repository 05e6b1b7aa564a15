// Package logging configures the logrus standard logger to write to the
// console and to a log file that is truncated periodically.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const (
	LogFileName = "battery_music_monitor.log"

	// DefaultCleanupSchedule truncates the log file every 3 days.
	DefaultCleanupSchedule = "@every 72h"
)

// SetupConsole sets the level and a console friendly formatter.
func SetupConsole(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse log level")
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

// FileLogging owns the log file and its cleanup job.
type FileLogging struct {
	file *TruncatingFile
	cron *cron.Cron
}

// SetupFile adds dir/battery_music_monitor.log as a second output with full
// timestamps, and schedules its truncation.
func SetupFile(dir, schedule string) (*FileLogging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create log dir %s", dir)
	}

	f, err := OpenTruncatingFile(filepath.Join(dir, LogFileName))
	if err != nil {
		return nil, err
	}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		if err := f.Truncate(); err != nil {
			logrus.WithError(err).Error("log cleanup failed")
			return
		}
		logrus.Info("log file cleaned up")
	})
	if err != nil {
		_ = f.Close()
		return nil, pkgerrors.Wrapf(err, "invalid log cleanup schedule %q", schedule)
	}
	c.Start()

	// The file always gets full timestamps; the terminal may be colored.
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))

	logrus.WithField("path", f.Path()).Debug("logging to file")

	return &FileLogging{file: f, cron: c}, nil
}

// Close stops the cleanup job and closes the file. Logging falls back to
// the console only.
func (l *FileLogging) Close() error {
	<-l.cron.Stop().Done()
	logrus.SetOutput(os.Stderr)
	return l.file.Close()
}

// DefaultDir returns <UserCacheDir>/battmusic/logs.
func DefaultDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to locate cache dir")
	}
	return filepath.Join(dir, "battmusic", "logs"), nil
}
