//go:build darwin

package autostart

import (
	"os"
	"os/exec"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// New returns a Manager for ~/Library/LaunchAgents/com.battmusic.monitor.plist.
// Installing also loads the agent, which starts it right away.
func New() (Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get home dir")
	}

	return &fileManager{
		path:     filepath.Join(home, "Library", "LaunchAgents", Label+".plist"),
		mode:     0o644,
		render:   RenderLaunchAgent,
		afterAdd: launchctl("load", "-w"),
		preRm:    launchctl("unload", "-w"),

		startsOnInstall: true,
	}, nil
}

func launchctl(args ...string) func(path string) error {
	return func(path string) error {
		logrus.Infof("running launchctl %v %s", args, path)

		out, err := exec.Command("/bin/launchctl", append(args, path)...).CombinedOutput()
		if err != nil {
			return pkgerrors.Wrapf(err, "launchctl %v %s failed: %s", args, path, out)
		}
		return nil
	}
}
