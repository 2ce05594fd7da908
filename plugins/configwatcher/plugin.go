// Package configwatcher reloads diodeship settings while a client listens.
// It watches the config file and, after edits settle, re-reads it and
// applies the result to the running listener at its next attempt.
package configwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/diodeship/pkg/diode"
)

// ReloadFunc builds a fresh configuration, typically by re-reading the
// watched file with the original flag overrides.
type ReloadFunc func() (diode.Config, error)

// Plugin implements config hot reload.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	reloadFn      ReloadFunc

	logger      diode.Logger
	reconfigure func(diode.Config) error
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	debounce    *time.Timer
	reloads     int
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the config file to watch.
	Path string

	// Reload produces the configuration to apply after a change.
	Reload ReloadFunc

	// DebounceDelay is the quiet period after the last change before
	// reloading. Editors often write a file several times per save.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with default timings. Path and Reload
// must still be set.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          filepath.Clean(cfg.Path),
		debounceDelay: cfg.DebounceDelay,
		reloadFn:      cfg.Reload,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching the config file's directory. Watching the
// directory rather than the file survives editors that replace the file.
func (p *Plugin) Initialize(ctx context.Context, cfg diode.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.reconfigure = cfg.Reconfigure
	p.mu.Unlock()

	if p.path == "." || p.reloadFn == nil || p.reconfigure == nil {
		p.logger.Warn("config watcher disabled: no config file or reload function")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher started", diode.LogField{Key: "path", Value: p.path})

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// Reloads returns how many reloads have been applied.
func (p *Plugin) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", diode.LogField{Key: "error", Value: err})
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

// reload applies the new configuration. A bad file is reported and the
// previous settings stay in effect.
func (p *Plugin) reload() {
	cfg, err := p.reloadFn()
	if err != nil {
		p.logger.Error("config reload failed, keeping previous settings",
			diode.LogField{Key: "error", Value: err})
		return
	}
	if err := p.reconfigure(cfg); err != nil {
		p.logger.Error("config rejected, keeping previous settings",
			diode.LogField{Key: "error", Value: err})
		return
	}

	p.mu.Lock()
	p.reloads++
	p.mu.Unlock()
	p.logger.Info("config reloaded", diode.LogField{Key: "path", Value: p.path})
}

// Ensure Plugin implements diode.Plugin.
var _ diode.Plugin = (*Plugin)(nil)
