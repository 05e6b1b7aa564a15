package autostart

import (
	"os/exec"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var startProcess = func(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Start launches e in the background, detached from the calling terminal,
// the way it would be launched at login.
func Start(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	cmd := exec.Command(e.ExecPath, e.Args...)
	detach(cmd)

	if err := startProcess(cmd); err != nil {
		return pkgerrors.Wrapf(err, "failed to start %s", e.ExecPath)
	}

	logrus.WithFields(logrus.Fields{
		"exec": e.ExecPath,
		"args": e.Args,
	}).Info("started in the background")
	return nil
}
