package domain

import "errors"

// Outcome classifies one receive attempt.
type Outcome int

const (
	// OutcomeSuccess means a frame was decoded and persisted.
	OutcomeSuccess Outcome = iota
	// OutcomeTimeout means no frame started within the read timeout.
	OutcomeTimeout
	// OutcomeError covers every other failure. It is reported, not fatal.
	OutcomeError
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeTimeout:
		return "Timeout"
	case OutcomeError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Classify maps the error of a receive attempt to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

// ListenState is the state of the continuous receive loop.
type ListenState int

const (
	StateIdle ListenState = iota
	StateListening
	StateStopping
)

// String returns a human-readable representation of the state.
func (s ListenState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateListening:
		return "Listening"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}
