package outputcleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/diodeship/pkg/diode"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...diode.LogField) {}
func (noopLogger) Info(msg string, fields ...diode.LogField)  {}
func (noopLogger) Warn(msg string, fields ...diode.LogField)  {}
func (noopLogger) Error(msg string, fields ...diode.LogField) {}

// writeAged creates name with size bytes and a modification time age ago.
func writeAged(t *testing.T, dir, name string, size int, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	mt := time.Now().Add(-age)
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestNewDefaults(t *testing.T) {
	p := New(Config{HighWatermark: 1000})
	if p.checkInterval != 10*time.Minute {
		t.Errorf("checkInterval = %v, want 10m", p.checkInterval)
	}
	if p.lowWatermark != 750 {
		t.Errorf("lowWatermark = %d, want 750", p.lowWatermark)
	}

	p = New(Config{HighWatermark: 1000, LowWatermark: 2000})
	if p.lowWatermark != 750 {
		t.Errorf("lowWatermark above high = %d, want 750", p.lowWatermark)
	}
}

func TestCleanupRemovesOldestToLowWatermark(t *testing.T) {
	dir := t.TempDir()
	oldest := writeAged(t, dir, "decoded_20240101_000000_a.bin", 400, 3*time.Hour)
	middle := writeAged(t, dir, "decoded_20240101_000001_b.bin", 400, 2*time.Hour)
	newest := writeAged(t, dir, "decoded_20240101_000002_c.bin", 400, time.Hour)
	partial := writeAged(t, dir, ".diodeship-1.part", 400, 4*time.Hour)

	p := New(Config{Dir: dir, HighWatermark: 1000, LowWatermark: 500})
	p.logger = noopLogger{}
	p.cleanupOnce(context.Background())

	if exists(oldest) || exists(middle) {
		t.Error("expected the two oldest files to be removed")
	}
	if !exists(newest) {
		t.Error("newest file removed")
	}
	if !exists(partial) {
		t.Error("hidden in-progress file removed")
	}
	if got := p.Freed(); got != 800 {
		t.Errorf("Freed() = %d, want 800", got)
	}
}

func TestCleanupBelowHighWatermarkKeepsFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeAged(t, dir, "decoded_20240101_000000_a.bin", 300, time.Hour)
	b := writeAged(t, dir, "decoded_20240101_000001_b.bin", 300, time.Minute)

	p := New(Config{Dir: dir, HighWatermark: 1000})
	p.logger = noopLogger{}
	p.cleanupOnce(context.Background())

	if !exists(a) || !exists(b) {
		t.Error("files removed below the high watermark")
	}
	if p.Freed() != 0 {
		t.Errorf("Freed() = %d, want 0", p.Freed())
	}
}

func TestCleanupSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	inner := writeAged(t, sub, "decoded_20240101_000000_x.bin", 5000, 5*time.Hour)
	top := writeAged(t, dir, "decoded_20240101_000001_y.bin", 2000, time.Hour)

	p := New(Config{Dir: dir, HighWatermark: 1000})
	p.logger = noopLogger{}
	p.cleanupOnce(context.Background())

	if !exists(inner) {
		t.Error("file in subdirectory removed")
	}
	if exists(top) {
		t.Error("top-level file over the limit kept")
	}
}

func TestCleanupKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	notes := writeAged(t, dir, "operator-notes.txt", 600, 2*time.Hour)
	artifact := writeAged(t, dir, "decoded_20240101_000000_x.bin", 600, time.Hour)

	p := New(Config{Dir: dir, HighWatermark: 1000})
	p.logger = noopLogger{}
	p.cleanupOnce(context.Background())

	if !exists(notes) {
		t.Error("file not written by the receiver removed")
	}
	if !exists(artifact) {
		t.Error("artifact removed although received files stay under the high watermark")
	}
	if p.Freed() != 0 {
		t.Errorf("Freed() = %d, want 0", p.Freed())
	}
}

func TestInitializeUsesOutputDir(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{HighWatermark: 1 << 20, CheckInterval: time.Hour})

	err := p.Initialize(context.Background(), diode.PluginConfig{
		Config: diode.Config{OutputDir: dir},
		Logger: noopLogger{},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if p.dir != dir {
		t.Errorf("dir = %q, want %q", p.dir, dir)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestInitializeDisabledWithoutLimit(t *testing.T) {
	p := New(Config{Dir: t.TempDir()})
	err := p.Initialize(context.Background(), diode.PluginConfig{Logger: noopLogger{}})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if p.cancel != nil {
		t.Error("loop started without a high watermark")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512B"},
		{2048, "2.00KiB"},
		{3 << 20, "3.00MiB"},
		{5 << 30, "5.00GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
