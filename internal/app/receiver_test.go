package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fsstore "github.com/bft-labs/diodeship/internal/adapters/fs"
	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/pkg/fec"
	"github.com/bft-labs/diodeship/pkg/frame"
)

func wireFrame(t *testing.T, name string, data []byte, ecc int) []byte {
	t.Helper()
	encoded, err := fec.Encode(data, ecc)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := frame.Marshal(frame.Frame{Filename: name, Payload: encoded})
	if err != nil {
		t.Fatal(err)
	}
	return wire
}

func fixedNow(r *Receiver) {
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
}

func TestSendThenReceive_EndToEnd(t *testing.T) {
	src := writeFile(t, "test.txt", []byte("Hello World!"))
	link := newFakeTransport(nil)
	if err := NewSender(&fakeOpener{transport: link}, &mockLogger{}, time.Second).
		SendFile(context.Background(), testPort, 10, src); err != nil {
		t.Fatalf("SendFile() error = %v", err)
	}

	// Flip bits in five payload symbols of the single block.
	wire := append([]byte{}, link.tx.Bytes()...)
	payloadStart := 2 + len("test.txt") + 4
	for i := 0; i < 5; i++ {
		wire[payloadStart+i*2] ^= 0xa5
	}

	outDir := filepath.Join(t.TempDir(), "received_files")
	r := NewReceiver(&fakeOpener{transport: newFakeTransport(wire)}, fsstore.NewArtifactFileStore(), &mockLogger{}, ReceiverConfig{ReadTimeout: time.Second})
	fixedNow(r)

	receipt, err := r.ReceiveFrame(context.Background(), testPort, 10, outDir)
	if err != nil {
		t.Fatalf("ReceiveFrame() error = %v", err)
	}
	if want := filepath.Join(outDir, "decoded_20240102_030405_test.txt"); receipt.Path != want {
		t.Errorf("Path = %q, want %q", receipt.Path, want)
	}
	got, err := os.ReadFile(receipt.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Hello World!" {
		t.Errorf("artifact = %q, want %q", got, "Hello World!")
	}
	if receipt.Corrected != 5 {
		t.Errorf("Corrected = %d, want 5", receipt.Corrected)
	}
	if receipt.Fingerprint != Fingerprint([]byte("Hello World!")) {
		t.Errorf("Fingerprint = %#04x, want sender's", receipt.Fingerprint)
	}
}

func TestReceiver_ReceiveFrame_Errors(t *testing.T) {
	good := wireFrame(t, "a.bin", bytes.Repeat([]byte{7}, 300), 10)

	// 20 symbol errors in one block is beyond the 16 that ecc 32 repairs.
	corrupt := wireFrame(t, "a.bin", bytes.Repeat([]byte{7}, 300), 32)
	for i := 0; i < 20; i++ {
		corrupt[2+len("a.bin")+4+i] ^= 0xff
	}

	boom := errors.New("boom")
	tests := []struct {
		name    string
		wire    []byte
		opener  *fakeOpener
		store   *fakeStore
		max     uint32
		ecc     int
		wantErr error
	}{
		{"timeout", nil, nil, &fakeStore{}, 0, 10, domain.ErrTimeout},
		{"short header", good[:1], nil, &fakeStore{}, 0, 10, domain.ErrTransportRead},
		{"short payload", good[:len(good)-3], nil, &fakeStore{}, 0, 10, domain.ErrTransportRead},
		{"uncorrectable", corrupt, nil, &fakeStore{}, 0, 32, domain.ErrFECDecode},
		{"over limit", good, nil, &fakeStore{}, 100, 10, domain.ErrPayloadTooLarge},
		{"open fails", nil, &fakeOpener{err: boom}, &fakeStore{}, 0, 10, domain.ErrTransportOpen},
		{"store fails", good, nil, &fakeStore{err: boom}, 0, 10, domain.ErrFilesystem},
		{"bad ecc", good, nil, &fakeStore{}, 0, 300, domain.ErrInvalidECC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := tt.opener
			if opener == nil {
				opener = &fakeOpener{transport: newFakeTransport(tt.wire)}
			}
			r := NewReceiver(opener, tt.store, &mockLogger{}, ReceiverConfig{ReadTimeout: time.Second, MaxPayload: tt.max})

			_, err := r.ReceiveFrame(context.Background(), testPort, tt.ecc, t.TempDir())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReceiveFrame() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != domain.ErrTimeout && domain.Classify(err) != domain.OutcomeError {
				t.Errorf("Classify() = %v, want Error", domain.Classify(err))
			}
			if opener.transport != nil && len(opener.opened) > 0 && !opener.transport.closed {
				t.Error("transport not closed")
			}
			if len(tt.store.saved) != 0 {
				t.Errorf("saved %d artifacts on failure", len(tt.store.saved))
			}
		})
	}
}

func TestReceiver_LossyName(t *testing.T) {
	encoded, _ := fec.Encode([]byte("x"), 4)
	wire, _ := frame.Marshal(frame.Frame{Filename: "a\xffb.txt", Payload: encoded})
	store := &fakeStore{}
	r := NewReceiver(&fakeOpener{transport: newFakeTransport(wire)}, store, &mockLogger{}, ReceiverConfig{ReadTimeout: time.Second})

	receipt, err := r.ReceiveFrame(context.Background(), testPort, 4, "out")
	if err != nil {
		t.Fatalf("ReceiveFrame() error = %v", err)
	}
	if receipt.Filename != "a\uFFFDb.txt" {
		t.Errorf("Filename = %q, want %q", receipt.Filename, "a\uFFFDb.txt")
	}
	if !strings.HasSuffix(receipt.Path, "_a\uFFFDb.txt") {
		t.Errorf("Path = %q", receipt.Path)
	}
}

func TestReceiver_DefaultMaxPayload(t *testing.T) {
	r := NewReceiver(&fakeOpener{}, &fakeStore{}, &mockLogger{}, ReceiverConfig{})
	if r.cfg.MaxPayload != DefaultMaxPayload {
		t.Errorf("MaxPayload = %d, want %d", r.cfg.MaxPayload, DefaultMaxPayload)
	}
}
