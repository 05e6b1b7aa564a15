package player

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// sampleRate is the output rate. Decoders resample to it.
const sampleRate = 44100

const pollPlaybackInterval = 50 * time.Millisecond

var (
	audioContext     *audio.Context
	audioContextOnce sync.Once
)

// Only one audio context may exist per process.
func sharedContext() *audio.Context {
	audioContextOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

type decodeFunc func(f *os.File) (io.Reader, error)

var decoders = map[string]decodeFunc{
	".wav": func(f *os.File) (io.Reader, error) {
		return wav.DecodeWithSampleRate(sampleRate, f)
	},
	".mp3": func(f *os.File) (io.Reader, error) {
		return mp3.DecodeWithSampleRate(sampleRate, f)
	},
	".ogg": func(f *os.File) (io.Reader, error) {
		return vorbis.DecodeWithSampleRate(sampleRate, f)
	},
}

// NativeSink decodes and plays audio in-process.
type NativeSink struct {
	mu      sync.Mutex
	current *audio.Player
}

func NewNativeSink() *NativeSink {
	return &NativeSink{}
}

// Supports reports whether the file extension has a decoder.
func (s *NativeSink) Supports(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (s *NativeSink) open(path string) (*os.File, io.Reader, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, nil, pkgerrors.Errorf("unsupported audio format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, pkgerrors.Wrapf(err, "failed to open %s", path)
	}

	stream, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, pkgerrors.Wrapf(err, "failed to decode %s", path)
	}

	return f, stream, nil
}

func (s *NativeSink) Check(path string) error {
	f, _, err := s.open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *NativeSink) Play(ctx context.Context, path string) error {
	f, stream, err := s.open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close file %s", path)
		}
	}()

	p, err := sharedContext().NewPlayer(stream)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create audio player")
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		_ = p.Close()
	}()

	p.Play()

	ticker := time.NewTicker(pollPlaybackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-ticker.C:
			if !p.IsPlaying() {
				return nil
			}
		}
	}
}

func (s *NativeSink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Pause()
	}
	return nil
}
