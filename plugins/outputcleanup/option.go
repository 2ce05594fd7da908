package outputcleanup

import "github.com/bft-labs/diodeship/pkg/diode"

// WithOutputCleanup returns a diode Option that keeps the output directory
// under a size limit while the client listens.
//
// Usage:
//
//	client, err := diode.New(cfg,
//	    outputcleanup.WithOutputCleanup(outputcleanup.Config{
//	        HighWatermark: 10 << 30,
//	    }),
//	)
func WithOutputCleanup(cfg Config) diode.Option {
	return diode.WithPlugin(New(cfg))
}
