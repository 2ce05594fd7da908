package diode

import (
	logAdapter "github.com/bft-labs/diodeship/internal/adapters/log"
)

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	logger       Logger
	eventHandler EventHandler
	opener       Opener
	enumerator   PortEnumerator
	store        ArtifactStore
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for listen events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithOpener replaces the serial driver selected by Config.Driver.
func WithOpener(opener Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithEnumerator replaces the OS port enumerator used to locate the adapter.
func WithEnumerator(enum PortEnumerator) Option {
	return func(o *options) {
		o.enumerator = enum
	}
}

// WithArtifactStore replaces the filesystem store for received files.
func WithArtifactStore(store ArtifactStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithPlugin registers a plugin to run while the client listens.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
