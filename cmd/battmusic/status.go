package main

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battmusic/battmusic/pkg/autostart"
	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/power"
)

type statusData struct {
	reading   power.Reading
	conf      config.Config
	musicFile *config.File
	autostart bool
}

func fetchStatusData(source power.Source, conf config.Config) (*statusData, error) {
	poller, err := power.NewPoller(source)
	if err != nil {
		return nil, err
	}
	if c, ok := poller.(interface{ Close() error }); ok {
		defer c.Close()
	}

	reading, err := poller.Read()
	if err != nil {
		return nil, err
	}

	file, err := openConfig()
	if err != nil {
		return nil, err
	}

	installed := false
	if m, err := autostart.New(); err == nil {
		installed, err = m.IsInstalled()
		if err != nil {
			logrus.WithError(err).Debug("failed to check startup entry")
		}
	}

	return &statusData{
		reading:   reading,
		conf:      conf,
		musicFile: file,
		autostart: installed,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	conf := config.Default()
	source := string(power.SourceAuto)

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Show the battery status and whether music would play",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData(power.Source(source), conf)
			if err != nil {
				return err
			}

			cmd.Println(bold("Battery status:"))
			cmd.Printf("  Current charge: %s\n", bold("%d%%", data.reading.Percentage))
			state := color.RedString("discharging")
			if data.reading.Charging {
				state = color.GreenString("charging")
			}
			cmd.Printf("  State: %s\n", bold("%s", state))
			cmd.Println()

			targetMet := data.conf.TargetMet(data.reading.Percentage)
			cmd.Println(bold("Monitor:"))
			cmd.Printf("  Target window: %s\n", bold("%d%% - %d%%", data.conf.MinPercentage, data.conf.MaxPercentage))
			cmd.Printf("  Charge inside target window: %s\n", bool2Text(targetMet))
			cmd.Printf("  Music would play now: %s\n", bool2Text(targetMet && data.reading.Charging))
			cmd.Println()

			cmd.Println(bold("Configuration:"))
			cmd.Printf("  Config file: %s\n", data.musicFile.Path())
			if p := data.musicFile.MusicFilePath(); p == "" {
				cmd.Printf("  Music file: %s\n", color.YellowString("not set"))
			} else {
				cmd.Printf("  Music file: %s\n", bold("%s", p))
				cmd.Printf("  Music file exists: %s\n", bool2Text(config.CheckMusicFile(p) == nil))
			}
			cmd.Printf("  Start at login: %s\n", bool2Text(data.autostart))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&conf.MinPercentage, "min", conf.MinPercentage, "lower bound of the target window, in percent")
	f.IntVar(&conf.MaxPercentage, "max", conf.MaxPercentage, "upper bound of the target window, in percent")
	f.StringVar(&source, "battery-source", source, "battery source (auto, system, pmset, acpi, smc)")

	return cmd
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
