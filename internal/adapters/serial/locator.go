package serial

import (
	"fmt"

	"go.bug.st/serial/enumerator"

	"github.com/bft-labs/diodeship/internal/domain"
)

var getDetailedPortsList = enumerator.GetDetailedPortsList

// Enumerator lists the host's serial ports with their USB identity.
type Enumerator struct{}

// Ports returns every port the OS reports. VID/PID strings that do not
// parse leave the ids at zero so the port can never match a filter.
func (Enumerator) Ports() ([]domain.PortInfo, error) {
	details, err := getDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	infos := make([]domain.PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		info := domain.PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		if d.IsUSB {
			vid, vidErr := domain.ParseUSBID(d.VID)
			pid, pidErr := domain.ParseUSBID(d.PID)
			if vidErr == nil && pidErr == nil {
				info.VID, info.PID = vid, pid
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
