package serial

import (
	"fmt"
	"strings"

	"github.com/bft-labs/diodeship/internal/ports"
)

// Driver names accepted by NewOpener.
const (
	DriverBugst = "bugst"
	DriverTarm  = "tarm"
)

// DefaultDriver is used when no driver is configured.
const DefaultDriver = DriverBugst

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverBugst, DriverTarm}
}

// NewOpener returns the TransportOpener for the named driver.
// An empty name selects DefaultDriver.
func NewOpener(driver string) (ports.TransportOpener, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverBugst:
		return BugstOpener{}, nil
	case DriverTarm:
		return TarmOpener{}, nil
	default:
		return nil, fmt.Errorf("unknown serial driver %q (want one of %s)", driver, strings.Join(Drivers(), ", "))
	}
}
