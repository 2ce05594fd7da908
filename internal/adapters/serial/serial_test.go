package serial

import (
	"errors"
	"testing"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/bft-labs/diodeship/internal/domain"
)

func TestNewOpener(t *testing.T) {
	tests := []struct {
		driver  string
		want    interface{}
		wantErr bool
	}{
		{"", BugstOpener{}, false},
		{"bugst", BugstOpener{}, false},
		{" TARM ", TarmOpener{}, false},
		{"ftdi", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := NewOpener(tt.driver)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOpener(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NewOpener(%q) = %T, want %T", tt.driver, got, tt.want)
			}
		})
	}
}

// fakePort embeds serial.Port so only the methods the opener touches
// need implementations.
type fakePort struct {
	serial.Port
	timeout    time.Duration
	timeoutErr error
	closed     bool
}

func (p *fakePort) SetReadTimeout(d time.Duration) error {
	p.timeout = d
	return p.timeoutErr
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func stubOpen(t *testing.T, fn func(string, *serial.Mode) (serial.Port, error)) {
	t.Helper()
	orig := serialOpen
	serialOpen = fn
	t.Cleanup(func() { serialOpen = orig })
}

func TestBugstOpener_Open(t *testing.T) {
	fp := &fakePort{}
	var gotName string
	var gotMode serial.Mode
	stubOpen(t, func(name string, mode *serial.Mode) (serial.Port, error) {
		gotName, gotMode = name, *mode
		return fp, nil
	})

	tr, err := BugstOpener{}.Open(domain.Port{Name: "/dev/ttyUSB0", BaudRate: 921600}, 2*time.Second)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if tr != fp {
		t.Error("Open() did not return the opened port")
	}
	if gotName != "/dev/ttyUSB0" {
		t.Errorf("name = %q, want /dev/ttyUSB0", gotName)
	}
	if gotMode.BaudRate != 921600 || gotMode.DataBits != 8 ||
		gotMode.Parity != serial.NoParity || gotMode.StopBits != serial.OneStopBit {
		t.Errorf("mode = %+v, want 921600 8N1", gotMode)
	}
	if fp.timeout != 2*time.Second {
		t.Errorf("read timeout = %v, want 2s", fp.timeout)
	}
}

func TestBugstOpener_NoTimeout(t *testing.T) {
	fp := &fakePort{}
	stubOpen(t, func(string, *serial.Mode) (serial.Port, error) { return fp, nil })

	if _, err := (BugstOpener{}).Open(domain.Port{Name: "COM3", BaudRate: 9600}, 0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if fp.timeout != serial.NoTimeout {
		t.Errorf("read timeout = %v, want NoTimeout", fp.timeout)
	}
}

func TestBugstOpener_Errors(t *testing.T) {
	boom := errors.New("access denied")
	stubOpen(t, func(string, *serial.Mode) (serial.Port, error) { return nil, boom })
	if _, err := (BugstOpener{}).Open(domain.Port{Name: "COM9", BaudRate: 9600}, time.Second); !errors.Is(err, boom) {
		t.Errorf("Open() error = %v, want %v", err, boom)
	}

	fp := &fakePort{timeoutErr: boom}
	stubOpen(t, func(string, *serial.Mode) (serial.Port, error) { return fp, nil })
	if _, err := (BugstOpener{}).Open(domain.Port{Name: "COM9", BaudRate: 9600}, time.Second); !errors.Is(err, boom) {
		t.Errorf("Open() error = %v, want %v", err, boom)
	}
	if !fp.closed {
		t.Error("port not closed after SetReadTimeout failure")
	}
}

func TestEnumerator_Ports(t *testing.T) {
	orig := getDetailedPortsList
	t.Cleanup(func() { getDetailedPortsList = orig })
	getDetailedPortsList = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "10C4", PID: "ea60", SerialNumber: "0001", Product: "CP2102"},
			nil,
			{Name: "/dev/ttyUSB1", IsUSB: true, VID: "zz", PID: "0001"},
		}, nil
	}

	got, err := Enumerator{}.Ports()
	if err != nil {
		t.Fatalf("Ports() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(Ports()) = %d, want 3", len(got))
	}
	if got[0].IsUSB {
		t.Errorf("%s IsUSB = true, want false", got[0].Name)
	}
	if !got[1].Matches(0x10C4, 0xEA60) {
		t.Errorf("%s = %+v, want match for 10c4:ea60", got[1].Name, got[1])
	}
	if got[1].Product != "CP2102" || got[1].SerialNumber != "0001" {
		t.Errorf("%s details = %+v", got[1].Name, got[1])
	}
	if got[2].VID != 0 || got[2].PID != 0 {
		t.Errorf("%s ids = %04x:%04x, want zero for unparsable VID", got[2].Name, got[2].VID, got[2].PID)
	}
}

func TestEnumerator_Error(t *testing.T) {
	orig := getDetailedPortsList
	t.Cleanup(func() { getDetailedPortsList = orig })
	boom := errors.New("no sysfs")
	getDetailedPortsList = func() ([]*enumerator.PortDetails, error) { return nil, boom }

	if _, err := (Enumerator{}).Ports(); !errors.Is(err, boom) {
		t.Errorf("Ports() error = %v, want %v", err, boom)
	}
}
