//go:build darwin

package power

import (
	"runtime"
	"testing"

	"github.com/charlie0129/gosmc"
)

func TestSMCPollerRead(t *testing.T) {
	conn := gosmc.NewMockConnection()
	if err := conn.Write(batteryChargeKey, []byte{99}); err != nil {
		t.Fatal(err)
	}
	if err := conn.Write(acPowerKey, []byte{1}); err != nil {
		t.Fatal(err)
	}

	p := &SMCPoller{conn: conn}
	got, err := p.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.Percentage != 99 || !got.Charging {
		t.Fatalf("Read() = %+v, want 99%% charging", got)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestSMCKeysForArch(t *testing.T) {
	want := map[string]string{
		"arm64": "BUIC",
		"amd64": "BBIF",
	}[runtime.GOARCH]
	if batteryChargeKey != want {
		t.Fatalf("batteryChargeKey = %q on %s, want %q", batteryChargeKey, runtime.GOARCH, want)
	}
	if acPowerKey != "AC-W" {
		t.Fatalf("acPowerKey = %q, want AC-W", acPowerKey)
	}
}
