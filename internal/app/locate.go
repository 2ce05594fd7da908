package app

import (
	"github.com/bft-labs/diodeship/internal/ports"
)

// Locator finds the diode's USB serial adapter.
type Locator struct {
	enum   ports.PortEnumerator
	logger ports.Logger
}

// NewLocator creates a Locator over the given enumerator.
func NewLocator(enum ports.PortEnumerator, logger ports.Logger) *Locator {
	return &Locator{enum: enum, logger: logger}
}

// FindPort returns the name of the first USB port whose VID and PID match.
// Enumeration errors are logged and reported as not found. No port is opened.
func (l *Locator) FindPort(vid, pid uint16) (string, bool) {
	infos, err := l.enum.Ports()
	if err != nil {
		l.logger.Warn("port enumeration failed", ports.Err(err))
		return "", false
	}
	for _, info := range infos {
		if info.Matches(vid, pid) {
			l.logger.Debug("adapter found",
				ports.String("port", info.Name),
				ports.Hex16("vid", vid),
				ports.Hex16("pid", pid),
			)
			return info.Name, true
		}
	}
	return "", false
}

// ResolvePort picks the port to use: explicit if set, else the located
// adapter, else fallback.
func (l *Locator) ResolvePort(explicit string, vid, pid uint16, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if name, ok := l.FindPort(vid, pid); ok {
		return name
	}
	l.logger.Info("adapter not found, using fallback port",
		ports.Hex16("vid", vid),
		ports.Hex16("pid", pid),
		ports.String("port", fallback),
	)
	return fallback
}
