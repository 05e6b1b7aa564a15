package player

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var lookPath = exec.LookPath

// playerCommand is an external program able to play a file once.
type playerCommand struct {
	name string
	args func(path string) []string
}

func commandCandidates(goos string) []playerCommand {
	switch goos {
	case "darwin":
		return []playerCommand{
			{name: "afplay", args: func(p string) []string { return []string{p} }},
		}
	case "windows":
		return []playerCommand{
			{name: "powershell", args: func(p string) []string {
				quoted := strings.ReplaceAll(p, "'", "''")
				return []string{"-NoProfile", "-NonInteractive", "-Command",
					"(New-Object Media.SoundPlayer '" + quoted + "').PlaySync()"}
			}},
		}
	default:
		return []playerCommand{
			{name: "ffplay", args: func(p string) []string {
				return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", p}
			}},
			{name: "paplay", args: func(p string) []string { return []string{p} }},
			{name: "aplay", args: func(p string) []string { return []string{"-q", p} }},
		}
	}
}

// CommandSink plays audio through an external player program.
type CommandSink struct {
	player playerCommand
	path   string

	mu      sync.Mutex
	process *os.Process
}

// NewCommandSink picks the first player program found on PATH.
func NewCommandSink() (*CommandSink, error) {
	return newCommandSink(runtime.GOOS)
}

func newCommandSink(goos string) (*CommandSink, error) {
	var tried []string
	for _, c := range commandCandidates(goos) {
		p, err := lookPath(c.name)
		if err != nil {
			tried = append(tried, c.name)
			continue
		}
		logrus.WithField("player", p).Debug("using external audio player")
		return &CommandSink{player: c, path: p}, nil
	}
	return nil, pkgerrors.Errorf("no audio player found on PATH (tried %s)", strings.Join(tried, ", "))
}

// Name returns the player program in use.
func (s *CommandSink) Name() string {
	return s.player.name
}

func (s *CommandSink) Check(path string) error {
	_, err := os.Stat(path)
	return err
}

func (s *CommandSink) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, s.path, s.player.args(path)...)
	if err := cmd.Start(); err != nil {
		return pkgerrors.Wrapf(err, "failed to start %s", s.player.name)
	}

	s.mu.Lock()
	s.process = cmd.Process
	s.mu.Unlock()

	err := cmd.Wait()

	s.mu.Lock()
	s.process = nil
	s.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "%s exited with error", s.player.name)
	}
	return nil
}

func (s *CommandSink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.process == nil {
		return nil
	}
	err := s.process.Kill()
	if err != nil && !pkgerrors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
