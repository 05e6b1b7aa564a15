package player

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend selects how audio is produced.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendNative  Backend = "native"
	BackendCommand Backend = "command"
)

// NewSink returns the Sink for backend.
func NewSink(backend Backend) (Sink, error) {
	switch backend {
	case BackendAuto, "":
		cmd, err := NewCommandSink()
		if err != nil {
			logrus.WithError(err).Debug("no external audio player, only natively decodable formats will play")
		}
		return &autoSink{native: NewNativeSink(), command: cmd}, nil
	case BackendNative:
		return NewNativeSink(), nil
	case BackendCommand:
		return NewCommandSink()
	default:
		return nil, pkgerrors.Errorf("unknown audio backend %q", backend)
	}
}

// autoSink plays natively decodable files in-process and hands everything
// else to an external player.
type autoSink struct {
	native  *NativeSink
	command *CommandSink
}

func (s *autoSink) pick(path string) Sink {
	if s.native.Supports(path) || s.command == nil {
		return s.native
	}
	return s.command
}

func (s *autoSink) Check(path string) error {
	return s.pick(path).Check(path)
}

func (s *autoSink) Play(ctx context.Context, path string) error {
	return s.pick(path).Play(ctx, path)
}

func (s *autoSink) Halt() error {
	err := s.native.Halt()
	if s.command != nil {
		if cmdErr := s.command.Halt(); cmdErr != nil {
			return cmdErr
		}
	}
	return err
}
