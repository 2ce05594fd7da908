package app

import (
	"sync"
	"sync/atomic"

	"github.com/bft-labs/diodeship/internal/domain"
)

// Gate allows at most one transfer (send or listen) to be in flight.
type Gate struct {
	busy atomic.Bool
}

// Acquire takes the token. It returns domain.ErrBusy when another
// operation holds it. The returned release func is safe to call twice.
func (g *Gate) Acquire() (release func(), err error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrBusy
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.busy.Store(false) })
	}, nil
}

// Busy reports whether the token is currently held.
func (g *Gate) Busy() bool {
	return g.busy.Load()
}
