package configwatcher

import "github.com/bft-labs/diodeship/pkg/diode"

// WithConfigWatcher returns a diode Option that reloads settings from the
// config file while the client listens.
//
// Usage:
//
//	client, err := diode.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:   "/etc/diodeship/config.toml",
//	        Reload: reload,
//	    }),
//	)
func WithConfigWatcher(cfg Config) diode.Option {
	return diode.WithPlugin(New(cfg))
}
