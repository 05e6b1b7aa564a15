package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/power"
)

type fakePoller struct {
	mu       sync.Mutex
	readings []power.Reading
	errs     []error
	calls    int
}

func (p *fakePoller) Read() (power.Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return power.Reading{}, p.errs[i]
	}
	if i >= len(p.readings) {
		return p.readings[len(p.readings)-1], nil
	}
	return p.readings[i], nil
}

type fakePlayer struct {
	mu       sync.Mutex
	playing  bool
	startErr error
	starts   int
	stops    int
}

func (p *fakePlayer) Start(string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starts++
	if p.startErr != nil {
		return p.startErr
	}
	p.playing = true
	return nil
}

func (p *fakePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return nil
	}
	p.stops++
	p.playing = false
	return nil
}

func (p *fakePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *fakeNotifier) Notify(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func testConfig() config.Config {
	c := config.Default()
	c.MusicFilePath = "/music/song.wav"
	c.PollInterval = time.Millisecond
	return c
}

func TestTickStartStop(t *testing.T) {
	poller := &fakePoller{readings: []power.Reading{
		{Percentage: 98, Charging: true},
		{Percentage: 99, Charging: true},
		{Percentage: 99, Charging: true},
		{Percentage: 100, Charging: false},
	}}
	player := &fakePlayer{}
	notifier := &fakeNotifier{}
	m := New(testConfig(), poller, player, notifier)

	for i := 0; i < 4; i++ {
		m.Tick()
	}

	if player.starts != 1 || player.stops != 1 {
		t.Fatalf("starts=%d stops=%d, want 1 and 1", player.starts, player.stops)
	}
	if len(notifier.titles) != 2 || notifier.titles[0] != "Music Started" || notifier.titles[1] != "Music Stopped" {
		t.Fatalf("unexpected notifications: %v", notifier.titles)
	}
}

func TestTickFailedStartRetries(t *testing.T) {
	poller := &fakePoller{readings: []power.Reading{{Percentage: 100, Charging: true}}}
	player := &fakePlayer{startErr: errors.New("decode failed")}
	notifier := &fakeNotifier{}
	m := New(testConfig(), poller, player, notifier)

	m.Tick()
	if m.Tracker().State().SongPlaying {
		t.Fatal("SongPlaying set although the player failed to start")
	}

	player.startErr = nil
	m.Tick()
	if player.starts != 2 || !player.Playing() {
		t.Fatalf("expected a second, successful start; starts=%d playing=%t", player.starts, player.Playing())
	}
	if len(notifier.titles) != 1 {
		t.Fatalf("expected exactly one notification, got %v", notifier.titles)
	}
}

func TestTickRestartsMusicAfterPlayerDied(t *testing.T) {
	poller := &fakePoller{readings: []power.Reading{{Percentage: 100, Charging: true}}}
	player := &fakePlayer{}
	notifier := &fakeNotifier{}
	m := New(testConfig(), poller, player, notifier)

	m.Tick()
	if player.starts != 1 {
		t.Fatalf("starts = %d, want 1", player.starts)
	}

	// The playback worker exits on its own, e.g. the audio device went away.
	player.mu.Lock()
	player.playing = false
	player.mu.Unlock()

	m.Tick()
	if player.starts != 2 || !player.Playing() {
		t.Fatalf("music was not restarted; starts=%d playing=%t", player.starts, player.Playing())
	}
	if !m.Tracker().State().SongPlaying {
		t.Fatal("SongPlaying = false while the player is playing")
	}
	if player.stops != 0 {
		t.Fatalf("stops = %d, want 0", player.stops)
	}
}

func TestTickContinuesAfterPollerError(t *testing.T) {
	poller := &fakePoller{
		readings: []power.Reading{{}, {}, {Percentage: 99, Charging: true}},
		errs:     []error{power.ErrUnavailable, power.ErrUnavailable},
	}
	player := &fakePlayer{}
	m := New(testConfig(), poller, player, &fakeNotifier{})

	for i := 0; i < 3; i++ {
		m.Tick()
	}

	if m.consecutiveErrors != 0 {
		t.Fatalf("consecutiveErrors = %d, want reset to 0", m.consecutiveErrors)
	}
	if player.starts != 1 {
		t.Fatalf("starts = %d, want 1", player.starts)
	}
}

func TestRunStopsMusicOnCancel(t *testing.T) {
	poller := &fakePoller{readings: []power.Reading{{Percentage: 100, Charging: true}}}
	player := &fakePlayer{}
	m := New(testConfig(), poller, player, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for !player.Playing() {
		select {
		case <-deadline:
			t.Fatal("music never started")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if player.Playing() {
		t.Fatal("music still playing after Run returned")
	}
	if player.starts != 1 {
		t.Fatalf("starts = %d, want 1", player.starts)
	}
}
