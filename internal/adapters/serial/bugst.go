package serial

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

var serialOpen = serial.Open

// BugstOpener opens ports with go.bug.st/serial, configured 8N1.
// A read that times out returns (0, nil).
type BugstOpener struct{}

// Open opens port and applies readTimeout. readTimeout <= 0 blocks forever.
func (BugstOpener) Open(port domain.Port, readTimeout time.Duration) (ports.Transport, error) {
	mode := &serial.Mode{
		BaudRate: port.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serialOpen(port.Name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}

	timeout := serial.NoTimeout
	if readTimeout > 0 {
		timeout = readTimeout
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", port.Name, err)
	}
	return p, nil
}
