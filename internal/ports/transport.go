package ports

import (
	"io"
	"time"

	"github.com/bft-labs/diodeship/internal/domain"
)

// Transport is one open handle on the serial link.
//
// Read blocks until at least one byte arrives or the read timeout set at
// open elapses. A read that times out returns 0 bytes and either a nil error
// or io.EOF depending on the driver; callers treat both as "no data".
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// TransportOpener opens a fresh Transport for each attempt.
type TransportOpener interface {
	Open(port domain.Port, readTimeout time.Duration) (Transport, error)
}

// TransportOpenerFunc adapts a function to TransportOpener.
type TransportOpenerFunc func(port domain.Port, readTimeout time.Duration) (Transport, error)

// Open calls f.
func (f TransportOpenerFunc) Open(port domain.Port, readTimeout time.Duration) (Transport, error) {
	return f(port, readTimeout)
}

// PortEnumerator lists the serial devices visible to the host.
type PortEnumerator interface {
	Ports() ([]domain.PortInfo, error)
}
