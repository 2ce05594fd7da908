package app

import (
	"errors"
	"testing"

	"github.com/bft-labs/diodeship/internal/domain"
)

func TestLocator_FindPort(t *testing.T) {
	infos := []domain.PortInfo{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: 0x2341, PID: 0x0043},
		{Name: "/dev/ttyUSB3", IsUSB: true, VID: 0x10C4, PID: 0xEA60},
		{Name: "/dev/ttyUSB4", IsUSB: true, VID: 0x10C4, PID: 0xEA60},
	}

	tests := []struct {
		name   string
		enum   fakeEnumerator
		vid    uint16
		pid    uint16
		want   string
		wantOK bool
	}{
		{"first match", fakeEnumerator{infos: infos}, domain.DefaultVendorID, domain.DefaultProductID, "/dev/ttyUSB3", true},
		{"other device", fakeEnumerator{infos: infos}, 0x2341, 0x0043, "/dev/ttyACM0", true},
		{"pid differs", fakeEnumerator{infos: infos}, 0x10C4, 0xEA61, "", false},
		{"no ports", fakeEnumerator{}, 0x10C4, 0xEA60, "", false},
		{"enumeration error", fakeEnumerator{err: errors.New("denied")}, 0x10C4, 0xEA60, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewLocator(tt.enum, &mockLogger{}).FindPort(tt.vid, tt.pid)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FindPort() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLocator_ResolvePort(t *testing.T) {
	found := fakeEnumerator{infos: []domain.PortInfo{{Name: "COM7", IsUSB: true, VID: 0x10C4, PID: 0xEA60}}}
	none := fakeEnumerator{}

	tests := []struct {
		name     string
		enum     fakeEnumerator
		explicit string
		want     string
	}{
		{"explicit wins", found, "COM3", "COM3"},
		{"located", found, "", "COM7"},
		{"fallback", none, "", "COM16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLocator(tt.enum, &mockLogger{}).ResolvePort(tt.explicit, 0x10C4, 0xEA60, "COM16")
			if got != tt.want {
				t.Errorf("ResolvePort() = %q, want %q", got, tt.want)
			}
		})
	}
}
