package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

// mockLogger implements ports.Logger and records messages.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Debug(msg string, fields ...ports.Field) { m.record(msg) }
func (m *mockLogger) Info(msg string, fields ...ports.Field)  { m.record(msg) }
func (m *mockLogger) Warn(msg string, fields ...ports.Field)  { m.record(msg) }
func (m *mockLogger) Error(msg string, fields ...ports.Field) { m.record(msg) }

func (m *mockLogger) has(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, got := range m.messages {
		if got == msg {
			return true
		}
	}
	return false
}

// fakeTransport serves rx to readers and records writes. Once rx is
// drained a read returns (0, nil), like a serial port timing out.
type fakeTransport struct {
	rx       *bytes.Reader
	tx       bytes.Buffer
	writeErr error
	closed   bool
}

func newFakeTransport(rx []byte) *fakeTransport {
	return &fakeTransport{rx: bytes.NewReader(rx)}
}

func (t *fakeTransport) Read(p []byte) (int, error) {
	if t.rx.Len() == 0 {
		return 0, nil
	}
	return t.rx.Read(p)
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	return t.tx.Write(p)
}

func (t *fakeTransport) Close() error {
	t.closed = true
	return nil
}

// fakeOpener hands out a prepared transport.
type fakeOpener struct {
	transport *fakeTransport
	err       error
	opened    []domain.Port
	timeouts  []time.Duration
}

func (o *fakeOpener) Open(port domain.Port, readTimeout time.Duration) (ports.Transport, error) {
	o.opened = append(o.opened, port)
	o.timeouts = append(o.timeouts, readTimeout)
	if o.err != nil {
		return nil, o.err
	}
	return o.transport, nil
}

// fakeStore keeps artifacts in memory.
type fakeStore struct {
	err   error
	saved map[string][]byte
}

func (s *fakeStore) Save(dir, filename string, capturedAt time.Time, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	path := dir + "/" + domain.ArtifactName(filename, capturedAt)
	s.saved[path] = data
	return path, nil
}

// fakeEnumerator returns a fixed port list.
type fakeEnumerator struct {
	infos []domain.PortInfo
	err   error
}

func (e fakeEnumerator) Ports() ([]domain.PortInfo, error) {
	return e.infos, e.err
}

// scriptedReceiver returns queued results, then timeouts.
type scriptedReceiver struct {
	mu      sync.Mutex
	results []error
	calls   []ListenConfig
	onCall  func(n int)
}

var errScripted = errors.New("scripted failure")

func (r *scriptedReceiver) ReceiveFrame(ctx context.Context, port domain.Port, ecc int, outputDir string) (domain.Receipt, error) {
	r.mu.Lock()
	r.calls = append(r.calls, ListenConfig{Port: port, ECC: ecc, OutputDir: outputDir})
	n := len(r.calls)
	var err error = domain.ErrTimeout
	if len(r.results) > 0 {
		err = r.results[0]
		r.results = r.results[1:]
	}
	onCall := r.onCall
	r.mu.Unlock()

	if onCall != nil {
		onCall(n)
	}
	if err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{Path: outputDir + "/artifact", Filename: "artifact"}, nil
}

func (r *scriptedReceiver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// recordingEvents implements EventHandler.
type recordingEvents struct {
	mu       sync.Mutex
	states   []domain.ListenState
	received []domain.Receipt
	errs     []error
	onFrame  func()
}

func (e *recordingEvents) OnStateChange(previous, current domain.ListenState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = append(e.states, current)
}

func (e *recordingEvents) OnFrameReceived(r domain.Receipt) {
	e.mu.Lock()
	e.received = append(e.received, r)
	fn := e.onFrame
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (e *recordingEvents) OnAttemptError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, err)
}

func (e *recordingEvents) snapshot() ([]domain.ListenState, []domain.Receipt, []error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.ListenState{}, e.states...),
		append([]domain.Receipt{}, e.received...),
		append([]error{}, e.errs...)
}
