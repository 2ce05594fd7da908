// Package outputcleanup bounds the disk used by received files.
// While a client listens it periodically measures the output directory and,
// above a high watermark, removes the oldest received files until usage
// drops to the low watermark. Only files the receiver wrote are measured or
// removed.
package outputcleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/diodeship/pkg/diode"
)

// Plugin implements output directory cleanup.
type Plugin struct {
	mu sync.RWMutex

	checkInterval time.Duration
	highWatermark int64
	lowWatermark  int64
	dir           string

	logger diode.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
	freed  int64
}

// Config holds configuration options for the cleanup plugin.
type Config struct {
	// Dir is the directory to keep bounded. Empty means the client's
	// output directory at the time listening starts.
	Dir string

	// CheckInterval is how often the directory is measured.
	// Default: 10 minutes
	CheckInterval time.Duration

	// HighWatermark is the size in bytes above which cleanup begins.
	// Zero disables the plugin.
	HighWatermark int64

	// LowWatermark is the target size in bytes after cleanup.
	// Default: three quarters of HighWatermark
	LowWatermark int64
}

// DefaultConfig returns a Config with default timings. HighWatermark must
// still be set.
func DefaultConfig() Config {
	return Config{CheckInterval: 10 * time.Minute}
}

// New creates a new cleanup plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 10 * time.Minute
	}
	if cfg.LowWatermark <= 0 || cfg.LowWatermark > cfg.HighWatermark {
		cfg.LowWatermark = cfg.HighWatermark / 4 * 3
	}
	return &Plugin{
		checkInterval: cfg.CheckInterval,
		highWatermark: cfg.HighWatermark,
		lowWatermark:  cfg.LowWatermark,
		dir:           cfg.Dir,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "outputcleanup"
}

// Initialize runs a first check and starts the periodic loop.
func (p *Plugin) Initialize(ctx context.Context, cfg diode.PluginConfig) error {
	p.mu.Lock()
	if p.dir == "" {
		p.dir = cfg.Config.OutputDir
	}
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.highWatermark <= 0 || p.dir == "" {
		p.logger.Warn("output cleanup disabled: no size limit or directory configured")
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("output cleanup started",
		diode.LogField{Key: "dir", Value: p.dir},
		diode.LogField{Key: "high_watermark", Value: formatBytes(p.highWatermark)},
		diode.LogField{Key: "low_watermark", Value: formatBytes(p.lowWatermark)},
	)

	p.wg.Add(1)
	go p.cleanupLoop(loopCtx)
	return nil
}

// Shutdown stops the cleanup loop.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// Freed returns the number of bytes removed since the plugin was created.
func (p *Plugin) Freed() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.freed
}

func (p *Plugin) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	p.cleanupOnce(ctx)

	ticker := time.NewTicker(p.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cleanupOnce(ctx)
		}
	}
}

// cleanupOnce performs a single check and prunes if needed.
func (p *Plugin) cleanupOnce(ctx context.Context) {
	p.mu.RLock()
	dir := p.dir
	p.mu.RUnlock()

	files, err := receivedFiles(dir)
	if err != nil {
		p.logger.Error("output cleanup: list failed",
			diode.LogField{Key: "dir", Value: dir},
			diode.LogField{Key: "error", Value: err})
		return
	}

	var size int64
	for _, f := range files {
		size += f.size
	}
	if size <= p.highWatermark {
		return
	}

	var freed int64
	removed := 0
	for _, f := range files {
		if ctx.Err() != nil || size <= p.lowWatermark {
			break
		}
		if err := os.Remove(f.path); err != nil {
			p.logger.Error("output cleanup: remove failed",
				diode.LogField{Key: "path", Value: f.path},
				diode.LogField{Key: "error", Value: err})
			continue
		}
		size -= f.size
		freed += f.size
		removed++
	}

	if removed > 0 {
		p.mu.Lock()
		p.freed += freed
		p.mu.Unlock()
		p.logger.Info("output cleanup completed",
			diode.LogField{Key: "files", Value: removed},
			diode.LogField{Key: "freed", Value: formatBytes(freed)},
			diode.LogField{Key: "remaining", Value: formatBytes(size)},
		)
	}
}

type receivedFile struct {
	path    string
	size    int64
	modTime time.Time
}

// receivedFiles lists the receiver's artifacts directly under dir, oldest
// first. Only regular files named with diode.ArtifactPrefix count; anything
// else in the directory, including hidden in-progress files, is left alone.
func receivedFiles(dir string) ([]receivedFile, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]receivedFile, 0, len(ents))
	for _, e := range ents {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), diode.ArtifactPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		files = append(files, receivedFile{
			path:    filepath.Join(dir, e.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.Before(files[j].modTime)
		}
		return files[i].path < files[j].path
	})
	return files, nil
}

func formatBytes(b int64) string {
	const (
		_          = iota
		KB float64 = 1 << (10 * iota)
		MB
		GB
	)

	fb := float64(b)
	switch {
	case fb >= GB:
		return fmt.Sprintf("%.2fGiB", fb/GB)
	case fb >= MB:
		return fmt.Sprintf("%.2fMiB", fb/MB)
	case fb >= KB:
		return fmt.Sprintf("%.2fKiB", fb/KB)
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// Ensure Plugin implements diode.Plugin.
var _ diode.Plugin = (*Plugin)(nil)
