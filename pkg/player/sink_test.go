package player

import (
	"errors"
	"testing"
)

func TestNativeSupports(t *testing.T) {
	s := NewNativeSink()
	for path, want := range map[string]bool{
		"/m/a.wav":  true,
		"/m/a.WAV":  true,
		"/m/a.mp3":  true,
		"/m/a.ogg":  true,
		"/m/a.flac": false,
		"/m/a.m4a":  false,
		"/m/a":      false,
	} {
		if got := s.Supports(path); got != want {
			t.Errorf("Supports(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestNewCommandSink(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	available := map[string]bool{"paplay": true, "aplay": true}
	lookPath = func(name string) (string, error) {
		if available[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	s, err := newCommandSink("linux")
	if err != nil {
		t.Fatalf("newCommandSink returned error: %v", err)
	}
	if s.Name() != "paplay" {
		t.Fatalf("picked %s, want paplay", s.Name())
	}

	available = map[string]bool{}
	if _, err := newCommandSink("linux"); err == nil {
		t.Fatal("expected an error when no player is installed")
	}
}

func TestWindowsCommandQuoting(t *testing.T) {
	c := commandCandidates("windows")[0]
	args := c.args(`C:\Music\It's me.wav`)
	want := `(New-Object Media.SoundPlayer 'C:\Music\It''s me.wav').PlaySync()`
	if got := args[len(args)-1]; got != want {
		t.Fatalf("command = %q, want %q", got, want)
	}
}

func TestAutoSinkPick(t *testing.T) {
	cmd := &CommandSink{player: playerCommand{name: "ffplay"}}
	s := &autoSink{native: NewNativeSink(), command: cmd}

	if s.pick("/m/a.mp3") != Sink(s.native) {
		t.Error("mp3 should play natively")
	}
	if s.pick("/m/a.flac") != Sink(cmd) {
		t.Error("flac should go to the external player")
	}

	s.command = nil
	if s.pick("/m/a.flac") != Sink(s.native) {
		t.Error("without an external player everything goes native")
	}
}

func TestNewSinkUnknown(t *testing.T) {
	if _, err := NewSink("bogus"); err == nil {
		t.Fatal("NewSink(bogus) returned nil error")
	}
}
