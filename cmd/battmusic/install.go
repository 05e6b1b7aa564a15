package main

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battmusic/battmusic/pkg/autostart"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	noStart := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Start battmusic at login",
		GroupID: gInstallation,
		Long: `Register battmusic to start at login for the current user.

Linux gets an XDG autostart entry, macOS a LaunchAgent and Windows a script in the
Startup folder. The entry runs 'battmusic run' with the current binary, so pick a
music file first ('battmusic music pick') and do not move the binary afterwards.

The monitor is also started right away in the background, unless --no-start is given.
On macOS launchd starts it when the agent is loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := openConfig()
			if err != nil {
				return err
			}
			if _, err := file.UsableMusicFilePath(); err != nil {
				logrus.WithError(err).Warn("no usable music file stored, battmusic will ask for one at startup")
			}

			args := []string{"run"}
			if configPath != "" {
				args = append(args, "--config", file.Path())
			}
			entry, err := autostart.CurrentExecutable(args...)
			if err != nil {
				return err
			}

			m, err := autostart.New()
			if err != nil {
				return err
			}
			if err := m.Install(entry); err != nil {
				return pkgerrors.Wrapf(err, "failed to install startup entry")
			}

			logrus.WithField("path", m.Path()).Infof("installation succeeded")

			if !noStart && !m.StartsOnInstall() {
				if err := autostart.Start(entry); err != nil {
					return err
				}
			}

			exePath, _ := os.Executable()
			cmd.Printf("The startup entry uses the current binary (%s) so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run `battmusic install' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&noStart, "no-start", false, "only register the startup entry, do not start the monitor now")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Stop starting battmusic at login",
		GroupID: gInstallation,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := autostart.New()
			if err != nil {
				return err
			}
			if err := m.Uninstall(); err != nil {
				return pkgerrors.Wrapf(err, "failed to uninstall startup entry")
			}

			logrus.WithField("path", m.Path()).Infof("uninstallation succeeded")
			return nil
		},
	}
}
