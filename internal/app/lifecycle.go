package app

import (
	"sync"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

// StateObserver is notified after every listen state transition.
type StateObserver interface {
	OnStateChange(previous, current domain.ListenState)
}

// lifecycle guards the Idle → Listening → Stopping → Idle state machine
// of a Listener.
type lifecycle struct {
	mu       sync.RWMutex
	state    domain.ListenState
	stop     chan struct{}
	logger   ports.Logger
	observer StateObserver
}

func newLifecycle(logger ports.Logger, observer StateObserver) *lifecycle {
	return &lifecycle{
		state:    domain.StateIdle,
		logger:   logger,
		observer: observer,
	}
}

func (l *lifecycle) State() domain.ListenState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// start moves Idle → Listening and returns the channel closed by stopping.
func (l *lifecycle) start() (<-chan struct{}, error) {
	l.mu.Lock()
	if l.state != domain.StateIdle {
		l.mu.Unlock()
		return nil, domain.ErrAlreadyRunning
	}
	l.state = domain.StateListening
	l.stop = make(chan struct{})
	stop := l.stop
	l.mu.Unlock()

	l.notify(domain.StateIdle, domain.StateListening, "run")
	return stop, nil
}

// requestStop moves Listening → Stopping and wakes the loop.
func (l *lifecycle) requestStop(reason string) error {
	if !l.transition(domain.StateListening, domain.StateStopping, reason) {
		return domain.ErrNotRunning
	}
	return nil
}

// finish returns the machine to Idle, passing through Stopping if no stop
// was requested.
func (l *lifecycle) finish(reason string) {
	l.transition(domain.StateListening, domain.StateStopping, reason)
	l.transition(domain.StateStopping, domain.StateIdle, reason)
}

// transition applies from → to if the machine is in from. Entering
// Stopping closes the stop channel.
func (l *lifecycle) transition(from, to domain.ListenState, reason string) bool {
	l.mu.Lock()
	if l.state != from {
		l.mu.Unlock()
		return false
	}
	l.state = to
	if to == domain.StateStopping {
		close(l.stop)
	}
	l.mu.Unlock()

	l.notify(from, to, reason)
	return true
}

func (l *lifecycle) notify(from, to domain.ListenState, reason string) {
	if l.observer != nil {
		l.observer.OnStateChange(from, to)
	}
	l.logger.Info("state transition",
		ports.String("from", from.String()),
		ports.String("to", to.String()),
		ports.String("reason", reason),
	)
}
