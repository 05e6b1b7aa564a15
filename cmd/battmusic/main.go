package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/logging"
	"github.com/battmusic/battmusic/pkg/power"
	"github.com/battmusic/battmusic/pkg/version"
)

var (
	logLevel   = "info"
	configPath = ""
)

var (
	gBasic        = "Basic:"
	gMusic        = "Music:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gMusic,
		gInstallation,
	}
)

func setupLogger() error {
	return logging.SetupConsole(logLevel)
}

func handleCmdError(err error) {
	if errors.Is(err, config.ErrNoMusicFile) {
		fmt.Fprintln(os.Stderr, "\nError: no usable music file")
		fmt.Fprintln(os.Stderr, "  - Pass one with '--music PATH'")
		fmt.Fprintln(os.Stderr, "  - Or store one with 'battmusic music set PATH' / 'battmusic music pick'")
	} else if errors.Is(err, power.ErrUnavailable) {
		fmt.Fprintln(os.Stderr, "\nError: battery information is not available on this machine")
		fmt.Fprintln(os.Stderr, "  - Try another source with '--battery-source' (system, pmset, acpi, smc)")
	}
}

func main() {
	// battmusic only polls and plays one file.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	run := NewRunCommand()

	cmd := &cobra.Command{
		Use:   "battmusic",
		Short: "battmusic plays music while your battery is charged to your target",
		Long: `battmusic watches the battery and plays a music file in a loop once the
device is charging and the charge is inside the target window (99-100% by default).
The music stops when the charge leaves the window or the charger is unplugged.

Running battmusic without a subcommand is the same as 'battmusic run'.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: run.RunE,
	}

	// The root command accepts the run flags too.
	cmd.Flags().AddFlagSet(run.Flags())

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "music config file path (default <user config dir>/battmusic/music_config.txt)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		run,
		NewStatusCommand(),
		NewVersionCommand(),
		NewMusicCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version",
		GroupID: gBasic,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

// openConfig opens the music config file named by --config, or the default one.
func openConfig() (*config.File, error) {
	p := configPath
	if p == "" {
		var err error
		p, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.NewFile(p)
}
