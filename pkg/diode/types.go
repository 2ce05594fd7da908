package diode

import (
	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Transport is an open serial port, or anything that behaves like one: a
// read that times out returns no data.
type Transport = ports.Transport

// Opener opens transports. Inject one with WithOpener for tests or
// non-serial links.
type Opener = ports.TransportOpener

// OpenerFunc adapts a function to Opener.
type OpenerFunc = ports.TransportOpenerFunc

// PortEnumerator lists serial ports.
type PortEnumerator = ports.PortEnumerator

// ArtifactStore persists received files.
type ArtifactStore = ports.ArtifactStore

// PortInfo describes an enumerated serial port.
type PortInfo = domain.PortInfo

// Receipt describes a received and persisted file.
type Receipt = domain.Receipt

// State is the listen state of a Client.
type State = domain.ListenState

// Listen states.
const (
	StateIdle      = domain.StateIdle
	StateListening = domain.StateListening
	StateStopping  = domain.StateStopping
)

// Port is a serial device name and its baud rate.
type Port = domain.Port

// ArtifactPrefix starts the name of every file the receiver writes.
const ArtifactPrefix = domain.ArtifactPrefix
