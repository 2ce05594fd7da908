package serial

import (
	"fmt"
	"time"

	tarm "github.com/tarm/serial"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

var tarmOpen = tarm.OpenPort

// TarmOpener opens ports with github.com/tarm/serial. Its timeout has
// decisecond resolution and a timed-out read returns (0, io.EOF).
type TarmOpener struct{}

// Open opens port 8N1 with the given read timeout.
func (TarmOpener) Open(port domain.Port, readTimeout time.Duration) (ports.Transport, error) {
	p, err := tarmOpen(&tarm.Config{
		Name:        port.Name,
		Baud:        port.BaudRate,
		ReadTimeout: readTimeout,
		Size:        8,
		Parity:      tarm.ParityNone,
		StopBits:    tarm.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}
	return p, nil
}
