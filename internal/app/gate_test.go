package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/bft-labs/diodeship/internal/domain"
)

func TestGate_SingleToken(t *testing.T) {
	var g Gate

	release, err := g.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !g.Busy() {
		t.Error("Busy() = false while held")
	}
	if _, err := g.Acquire(); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("second Acquire() error = %v, want %v", err, domain.ErrBusy)
	}

	release()
	release()
	if g.Busy() {
		t.Error("Busy() = true after release")
	}

	release2, err := g.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	release()
	if !g.Busy() {
		t.Error("stale release freed a newer token")
	}
	release2()
}

func TestGate_Concurrent(t *testing.T) {
	var g Gate
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Acquire(); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want 1", winners)
	}
}
