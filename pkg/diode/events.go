package diode

import (
	"github.com/bft-labs/diodeship/internal/domain"
)

// EventHandler receives notifications while a Client listens.
// Methods are called synchronously from the listening goroutine and should
// return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnFrameReceived(receipt Receipt)
	OnAttemptError(event AttemptErrorEvent)
}

// StateChangeEvent is emitted on every listen state transition.
type StateChangeEvent struct {
	Previous State
	Current  State
}

// AttemptErrorEvent is emitted when a receive attempt fails for any reason
// other than a timeout. Listening continues afterwards.
type AttemptErrorEvent struct {
	Error error
}

// eventEmitterWrapper adapts EventHandler to app.EventHandler.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e eventEmitterWrapper) OnStateChange(previous, current domain.ListenState) {
	e.handler.OnStateChange(StateChangeEvent{Previous: previous, Current: current})
}

func (e eventEmitterWrapper) OnFrameReceived(receipt domain.Receipt) {
	e.handler.OnFrameReceived(receipt)
}

func (e eventEmitterWrapper) OnAttemptError(err error) {
	e.handler.OnAttemptError(AttemptErrorEvent{Error: err})
}
