package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

// DefaultIdlePause is the pause after an attempt that timed out.
const DefaultIdlePause = 100 * time.Millisecond

// ListenConfig holds the receive settings read at the start of each attempt.
type ListenConfig struct {
	Port      domain.Port
	ECC       int
	OutputDir string
	// IdlePause follows a timed-out attempt. Zero means DefaultIdlePause.
	IdlePause time.Duration
}

// EventHandler receives listener notifications. Calls are made on the
// listening goroutine and must not block.
type EventHandler interface {
	StateObserver
	OnFrameReceived(receipt domain.Receipt)
	OnAttemptError(err error)
}

// FrameReceiver performs one receive attempt. *Receiver implements it.
type FrameReceiver interface {
	ReceiveFrame(ctx context.Context, port domain.Port, ecc int, outputDir string) (domain.Receipt, error)
}

// Listener runs receive attempts back to back until stopped.
//
// Stop and context cancellation are only observed between attempts, so a
// stop takes effect at most one read timeout later. Timeouts are silent and
// followed by the idle pause; any other failure is reported through the
// logger and the EventHandler and the next attempt starts at once, except
// after a failed open, which backs off until the adapter is back.
type Listener struct {
	receiver FrameReceiver
	logger   ports.Logger
	events   EventHandler
	life     *lifecycle
	cfg      atomic.Pointer[ListenConfig]
	backoff  *backoff
}

// NewListener creates an idle Listener. events may be nil.
func NewListener(receiver FrameReceiver, cfg ListenConfig, logger ports.Logger, events EventHandler) *Listener {
	l := &Listener{
		receiver: receiver,
		logger:   logger,
		events:   events,
		backoff:  newBackoff(DefaultBackoffInitial, DefaultBackoffMax),
	}
	var observer StateObserver
	if events != nil {
		observer = events
	}
	l.life = newLifecycle(logger, observer)
	l.Update(cfg)
	return l
}

// Update replaces the receive settings. The running loop picks them up at
// its next attempt.
func (l *Listener) Update(cfg ListenConfig) {
	if cfg.IdlePause <= 0 {
		cfg.IdlePause = DefaultIdlePause
	}
	l.cfg.Store(&cfg)
}

// Config returns the current receive settings.
func (l *Listener) Config() ListenConfig {
	return *l.cfg.Load()
}

// State returns the current listen state.
func (l *Listener) State() domain.ListenState {
	return l.life.State()
}

// Run blocks, performing attempts until Stop is called or ctx is done.
// It returns domain.ErrAlreadyRunning if the listener is not idle and nil
// once the loop has wound down.
func (l *Listener) Run(ctx context.Context) error {
	stop, err := l.life.start()
	if err != nil {
		return err
	}
	reason := "stop requested"
	defer func() { l.life.finish(reason) }()

	l.backoff.Reset()
	for {
		select {
		case <-ctx.Done():
			reason = "context done"
			return nil
		case <-stop:
			return nil
		default:
		}

		pause := l.attempt(ctx)
		if !l.wait(ctx, stop, pause) {
			if ctx.Err() != nil {
				reason = "context done"
			}
			return nil
		}
	}
}

// Stop asks a running loop to end after its current attempt.
func (l *Listener) Stop() error {
	return l.life.requestStop("stop requested")
}

// attempt runs one receive and returns how long to pause before the next.
func (l *Listener) attempt(ctx context.Context) time.Duration {
	cfg := l.cfg.Load()
	receipt, err := l.receiver.ReceiveFrame(ctx, cfg.Port, cfg.ECC, cfg.OutputDir)

	switch domain.Classify(err) {
	case domain.OutcomeSuccess:
		l.backoff.Reset()
		if l.events != nil {
			l.events.OnFrameReceived(receipt)
		}
		return 0
	case domain.OutcomeTimeout:
		l.backoff.Reset()
		l.logger.Debug("no frame before timeout", ports.String("port", cfg.Port.String()))
		return cfg.IdlePause
	default:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0
		}
		// The port is closed while pausing and a frame sent then is lost,
		// so only a port that cannot be opened is worth waiting for.
		var delay time.Duration
		if errors.Is(err, domain.ErrTransportOpen) {
			delay = l.backoff.Next()
		} else {
			l.backoff.Reset()
		}
		l.logger.Error("receive attempt failed",
			ports.Err(err),
			ports.String("port", cfg.Port.String()),
			ports.Duration("retry_in", delay),
		)
		if l.events != nil {
			l.events.OnAttemptError(err)
		}
		return delay
	}
}

// wait pauses for d. It returns false if ctx or stop ended the pause.
func (l *Listener) wait(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}
