package diode

import "context"

// Plugin extends a listening Client. Plugins are initialized when Listen
// starts, in registration order, and shut down in reverse order when it
// returns.
type Plugin interface {
	// Name returns the plugin identifier used in logs.
	Name() string

	// Initialize starts the plugin. A returned error aborts Listen.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and waits for its goroutines.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to plugins at initialization.
type PluginConfig struct {
	// Config is the configuration in effect when listening started.
	Config Config

	// Logger is the client's logger.
	Logger Logger

	// Reconfigure applies a new configuration to the running listener.
	Reconfigure func(Config) error
}
