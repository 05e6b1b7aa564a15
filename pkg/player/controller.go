// Package player loops an audio file on a background goroutine until told
// to stop.
package player

import (
	"context"
	"os"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrPlayback is returned when the music file cannot be played.
var ErrPlayback = pkgerrors.New("playback failed")

// Sink produces sound.
type Sink interface {
	// Check reports whether path can be played, without playing it.
	Check(path string) error
	// Play plays path once. It returns when the track ends or ctx is done.
	Play(ctx context.Context, path string) error
	// Halt silences any output still in flight.
	Halt() error
}

// Controller runs at most one playback worker at a time.
type Controller struct {
	sink        Sink
	stopTimeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(sink Sink, stopTimeout time.Duration) *Controller {
	return &Controller{
		sink:        sink,
		stopTimeout: stopTimeout,
	}
}

// Playing reports whether a worker is running: it was started, has not been
// stopped and has not died on a playback error.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cancel != nil
}

// Start spawns the playback worker. It is a no-op while already playing.
func (c *Controller) Start(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		logrus.Debug("music already playing, not starting again")
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		return pkgerrors.Wrapf(ErrPlayback, "music file not found: %v", err)
	}
	if err := c.sink.Check(path); err != nil {
		return pkgerrors.Wrapf(ErrPlayback, "%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go c.loop(ctx, path, done)

	return nil
}

func (c *Controller) loop(ctx context.Context, path string, done chan struct{}) {
	defer close(done)

	plays := 0
	for ctx.Err() == nil {
		err := c.sink.Play(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logrus.WithError(err).WithField("file", path).Error("audio playback error")
			c.release(done)
			return
		}
		plays++
		logrus.WithField("plays", plays).Trace("track finished")
	}
}

// release forgets the worker that owns done, unless Stop or a newer Start
// already replaced it.
func (c *Controller) release(done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != done {
		return
	}
	c.cancel()
	c.cancel, c.done = nil, nil
}

// Stop cancels the worker and waits at most the stop timeout for it to
// exit. Stopping a stopped controller does nothing.
func (c *Controller) Stop() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()

	var err error
	select {
	case <-done:
	case <-time.After(c.stopTimeout):
		err = pkgerrors.Wrapf(ErrPlayback, "playback worker did not exit within %s", c.stopTimeout)
	}

	if haltErr := c.sink.Halt(); haltErr != nil {
		logrus.WithError(haltErr).Warn("failed to halt audio output")
	}

	return err
}
