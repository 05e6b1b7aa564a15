package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battmusic/battmusic/pkg/autostart"
	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/logging"
	"github.com/battmusic/battmusic/pkg/monitor"
	"github.com/battmusic/battmusic/pkg/notify"
	"github.com/battmusic/battmusic/pkg/picker"
	"github.com/battmusic/battmusic/pkg/player"
	"github.com/battmusic/battmusic/pkg/power"
	"github.com/battmusic/battmusic/pkg/version"
)

type runOptions struct {
	musicPath     string
	min           int
	max           int
	interval      time.Duration
	stopTimeout   time.Duration
	notifier      string
	audio         string
	batterySource string
	logDir        string
	noLogFile     bool
}

// NewRunCommand .
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Monitor the battery and play music (foreground)",
		GroupID: gBasic,
		Long: `Monitor the battery in the foreground.

On the first run you are asked to pick the music file. The choice is stored in the
music config file and reused by later runs. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMonitor(opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.musicPath, "music", "", "music file to play (overrides the music config file for this run)")
	f.IntVar(&opts.min, "min", defaults.MinPercentage, "lower bound of the target window, in percent")
	f.IntVar(&opts.max, "max", defaults.MaxPercentage, "upper bound of the target window, in percent")
	f.DurationVar(&opts.interval, "interval", defaults.PollInterval, "battery polling interval")
	f.DurationVar(&opts.stopTimeout, "stop-timeout", defaults.StopTimeout, "how long to wait for playback to stop")
	f.StringVar(&opts.notifier, "notifier", defaults.NotifierBackend, "notification backend (auto, windows, macos, linux-notify, linux-dbus, none)")
	f.StringVar(&opts.audio, "audio", defaults.AudioBackend, "audio backend (auto, native, command)")
	f.StringVar(&opts.batterySource, "battery-source", defaults.BatterySource, "battery source (auto, system, pmset, acpi, smc)")
	f.StringVar(&opts.logDir, "log-dir", "", "directory of battery_music_monitor.log (default <user cache dir>/battmusic/logs)")
	f.BoolVar(&opts.noLogFile, "no-log-file", false, "log to stderr only")

	return cmd
}

func runMonitor(opts *runOptions) error {
	logrus.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("battmusic starting")

	if !opts.noLogFile {
		dir := opts.logDir
		if dir == "" {
			var err error
			dir, err = logging.DefaultDir()
			if err != nil {
				return err
			}
		}
		fl, err := logging.SetupFile(dir, logging.DefaultCleanupSchedule)
		if err != nil {
			return err
		}
		defer func() {
			if err := fl.Close(); err != nil {
				logrus.WithError(err).Warn("failed to close log file")
			}
		}()
	}

	conf, err := buildConfig(opts, picker.Select)
	if err != nil {
		return err
	}

	poller, err := power.NewPoller(power.Source(conf.BatterySource))
	if err != nil {
		return err
	}
	if c, ok := poller.(interface{ Close() error }); ok {
		defer func() {
			if err := c.Close(); err != nil {
				logrus.WithError(err).Warn("failed to close battery source")
			}
		}()
	}

	sink, err := player.NewSink(player.Backend(conf.AudioBackend))
	if err != nil {
		return err
	}
	controller := player.NewController(sink, conf.StopTimeout)

	n, backend, err := notify.New(notify.Options{
		Backend: notify.Backend(conf.NotifierBackend),
		AppName: autostart.AppName,
	})
	if err != nil {
		// Notifications are best-effort; monitoring works without them.
		logrus.WithError(err).WithField("backend", backend).Warn("notifications are disabled")
		n, backend = notify.NoopNotifier{}, notify.BackendNone
	}
	logrus.WithField("backend", backend).Debug("notification backend selected")

	m := monitor.New(conf, poller, controller, notify.NewBestEffort(n, backend))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		select {
		case sig := <-sigc:
			logrus.Infof("caught signal \"%s\": shutting down.", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return m.Run(ctx)
}

// buildConfig turns the flags and the music config file into a validated Config.
// The flags are checked before the user is asked for a music file.
func buildConfig(opts *runOptions, pick func() (string, error)) (config.Config, error) {
	conf := config.Config{
		MinPercentage:   opts.min,
		MaxPercentage:   opts.max,
		PollInterval:    opts.interval,
		StopTimeout:     opts.stopTimeout,
		NotifierBackend: opts.notifier,
		AudioBackend:    opts.audio,
		BatterySource:   opts.batterySource,
	}
	if err := conf.ValidateSettings(); err != nil {
		return config.Config{}, err
	}

	file, err := openConfig()
	if err != nil {
		return config.Config{}, err
	}

	conf.MusicFilePath, err = resolveMusicFile(opts.musicPath, file, pick)
	if err != nil {
		return config.Config{}, err
	}
	if err := conf.Validate(); err != nil {
		return config.Config{}, err
	}

	return conf, nil
}

// resolveMusicFile returns the music file for this run: the --music flag,
// then the stored path, then whatever the user picks. A picked file is saved.
func resolveMusicFile(flagPath string, file *config.File, pick func() (string, error)) (string, error) {
	if flagPath != "" {
		p, err := filepath.Abs(flagPath)
		if err != nil {
			return "", pkgerrors.Wrapf(err, "invalid music path %s", flagPath)
		}
		if err := config.CheckMusicFile(p); err != nil {
			return "", err
		}
		return p, nil
	}

	p, err := file.UsableMusicFilePath()
	if err == nil {
		logrus.WithField("path", p).Info("using saved music file")
		return p, nil
	}
	if stored := file.MusicFilePath(); stored != "" {
		logrus.WithError(err).Warn("saved music file is no longer usable, please select another one")
	} else {
		logrus.Info("no music file configured, please select one")
	}

	p, err = pick()
	if err != nil {
		return "", pkgerrors.Wrapf(config.ErrNoMusicFile, "no music file selected: %v", err)
	}
	if err := config.CheckMusicFile(p); err != nil {
		return "", err
	}

	file.SetMusicFilePath(p)
	if err := file.Save(); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to save music config")
	}
	logrus.WithFields(logrus.Fields{
		"path":   p,
		"config": file.Path(),
	}).Info("music file saved")

	return p, nil
}
