package power

import (
	"errors"
	"testing"

	"github.com/distatus/battery"
)

func TestSystemPollerRead(t *testing.T) {
	tests := []struct {
		name    string
		bat     *battery.Battery
		err     error
		want    Reading
		wantErr bool
	}{
		{
			name: "charging",
			bat:  &battery.Battery{State: battery.Charging, Current: 49500, Full: 50000},
			want: Reading{Percentage: 99, Charging: true},
		},
		{
			name: "full counts as on power",
			bat:  &battery.Battery{State: battery.Full, Current: 50000, Full: 50000},
			want: Reading{Percentage: 100, Charging: true},
		},
		{
			name: "unknown state on the charger",
			bat:  &battery.Battery{State: battery.Unknown, Current: 50000, Full: 50000},
			want: Reading{Percentage: 100, Charging: true},
		},
		{
			name: "empty",
			bat:  &battery.Battery{State: battery.Empty, Current: 0, Full: 50000},
			want: Reading{Percentage: 0, Charging: false},
		},
		{
			name: "discharging",
			bat:  &battery.Battery{State: battery.Discharging, Current: 25000, Full: 50000},
			want: Reading{Percentage: 50, Charging: false},
		},
		{
			name: "missing charge rate is tolerated",
			bat:  &battery.Battery{State: battery.Charging, Current: 40000, Full: 50000},
			err:  battery.ErrPartial{ChargeRate: errors.New("no rate")},
			want: Reading{Percentage: 80, Charging: true},
		},
		{
			name:    "missing state is not",
			bat:     &battery.Battery{Current: 40000, Full: 50000},
			err:     battery.ErrPartial{State: errors.New("no state")},
			wantErr: true,
		},
		{
			name:    "no battery",
			err:     errors.New("no such battery"),
			wantErr: true,
		},
		{
			name:    "zero full capacity",
			bat:     &battery.Battery{State: battery.Charging},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &SystemPoller{get: func(int) (*battery.Battery, error) { return tt.bat, tt.err }}
			got, err := p.Read()
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("Read() error = %v, want ErrUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() returned error: %v", err)
			}
			if got.Percentage != tt.want.Percentage || got.Charging != tt.want.Charging {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
