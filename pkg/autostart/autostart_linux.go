//go:build linux

package autostart

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// New returns a Manager writing ~/.config/autostart/battmusic.desktop.
func New() (Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, pkgerrors.Wrapf(err, "failed to locate config dir")
		}
		configDir = filepath.Join(home, ".config")
	}

	return &fileManager{
		path:   filepath.Join(configDir, "autostart", "battmusic.desktop"),
		mode:   0o755,
		render: RenderDesktopEntry,
	}, nil
}
