//go:build unix

package autostart

import (
	"os/exec"
	"syscall"
)

// detach puts the process in its own session so closing the terminal
// does not hang it up.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
