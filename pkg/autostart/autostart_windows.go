//go:build windows

package autostart

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// New returns a Manager writing a batch file into the user's Startup folder.
func New() (Manager, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		return nil, pkgerrors.New("APPDATA is not set")
	}

	return &fileManager{
		path: filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup",
			"run_battery_music.bat"),
		mode:   0o644,
		render: RenderStartupScript,
	}, nil
}
