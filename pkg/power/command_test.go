package power

import (
	"errors"
	"testing"
	"time"
)

func TestParsePmset(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    Reading
		wantErr bool
	}{
		{
			name: "ac power charging",
			out:  "Now drawing from 'AC Power'\n -InternalBattery-0 (id=4653155)\t95%; charging; 0:31 remaining present: true\n",
			want: Reading{Percentage: 95, Charging: true},
		},
		{
			name: "ac power charged",
			out:  "Now drawing from 'AC Power'\n -InternalBattery-0 (id=4653155)\t100%; charged; 0:00 remaining present: true\n",
			want: Reading{Percentage: 100, Charging: true},
		},
		{
			name: "battery power",
			out:  "Now drawing from 'Battery Power'\n -InternalBattery-0 (id=4653155)\t42%; discharging; 3:10 remaining present: true\n",
			want: Reading{Percentage: 42, Charging: false},
		},
		{
			name:    "no battery",
			out:     "Now drawing from 'AC Power'\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePmset(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePmset() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePmset() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseACPI(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    Reading
		wantErr bool
	}{
		{
			name: "charging",
			out:  "Battery 0: Charging, 95%, 00:12:00 until charged\n",
			want: Reading{Percentage: 95, Charging: true},
		},
		{
			name: "full",
			out:  "Battery 0: Full, 100%\n",
			want: Reading{Percentage: 100, Charging: true},
		},
		{
			name: "discharging",
			out:  "Battery 0: Discharging, 57%, 02:01:00 remaining\n",
			want: Reading{Percentage: 57, Charging: false},
		},
		{
			name: "not charging",
			out:  "Battery 0: Not charging, 100%\n",
			want: Reading{Percentage: 100, Charging: true},
		},
		{
			name: "unknown",
			out:  "Battery 0: Unknown, 100%\n",
			want: Reading{Percentage: 100, Charging: true},
		},
		{
			name: "first battery wins",
			out:  "Battery 0: Discharging, 30%, 01:00:00 remaining\nBattery 1: Charging, 90%, 00:10:00 until charged\n",
			want: Reading{Percentage: 30, Charging: false},
		},
		{
			name:    "no battery",
			out:     "No support for device type: power_supply\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseACPI(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseACPI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseACPI() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCommandPollerRead(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	nowFunc = func() time.Time { return ts }
	defer func() { nowFunc = time.Now }()

	p := NewACPIPoller()
	p.run = func(name string, args ...string) ([]byte, error) {
		if name != "acpi" || len(args) != 1 || args[0] != "-b" {
			t.Fatalf("unexpected command %s %v", name, args)
		}
		return []byte("Battery 0: Charging, 99%, 00:01:00 until charged\n"), nil
	}

	got, err := p.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := Reading{Percentage: 99, Charging: true, Timestamp: ts}
	if got != want {
		t.Fatalf("Read() = %+v, want %+v", got, want)
	}
}

func TestCommandPollerUnavailable(t *testing.T) {
	p := NewPmsetPoller()
	p.run = func(string, ...string) ([]byte, error) {
		return nil, errors.New("exec: \"pmset\": executable file not found in $PATH")
	}
	if _, err := p.Read(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Read() error = %v, want ErrUnavailable", err)
	}

	p.run = func(string, ...string) ([]byte, error) {
		return []byte("garbage"), nil
	}
	if _, err := p.Read(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Read() error = %v, want ErrUnavailable", err)
	}
}

func TestDetectSource(t *testing.T) {
	origLookPath := lookPath
	defer func() { lookPath = origLookPath }()

	lookPath = func(string) (string, error) { return "/usr/bin/acpi", nil }
	if got := detectSource("linux"); got != SourceACPI {
		t.Errorf("detectSource(linux) with acpi = %s, want %s", got, SourceACPI)
	}
	if got := detectSource("darwin"); got != SourcePmset {
		t.Errorf("detectSource(darwin) = %s, want %s", got, SourcePmset)
	}
	if got := detectSource("windows"); got != SourceSystem {
		t.Errorf("detectSource(windows) = %s, want %s", got, SourceSystem)
	}

	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	if got := detectSource("linux"); got != SourceSystem {
		t.Errorf("detectSource(linux) without acpi = %s, want %s", got, SourceSystem)
	}
}

func TestNewPollerUnknown(t *testing.T) {
	if _, err := NewPoller("bogus"); err == nil {
		t.Fatal("NewPoller(bogus) returned nil error")
	}
}
