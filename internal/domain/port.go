package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Default USB identifiers of the CP210x UART bridge used on both ends of the link.
const (
	DefaultVendorID  uint16 = 0x10C4
	DefaultProductID uint16 = 0xEA60
)

// Port describes the serial endpoint of one transfer attempt.
// It is chosen per attempt and never persisted.
type Port struct {
	Name     string
	BaudRate int
}

// String returns "name@baud".
func (p Port) String() string {
	return fmt.Sprintf("%s@%d", p.Name, p.BaudRate)
}

// PortInfo is one serial device reported by the host.
// VID and PID are only meaningful when IsUSB is true.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          uint16
	PID          uint16
	SerialNumber string
	Product      string
}

// Matches reports whether the device is a USB device with the given identifiers.
func (p PortInfo) Matches(vid, pid uint16) bool {
	return p.IsUSB && p.VID == vid && p.PID == pid
}

// ParseUSBID parses a 16-bit USB identifier written in hex, with or without
// a 0x prefix, in either case.
func ParseUSBID(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, fmt.Errorf("empty usb id")
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parse usb id %q: %w", s, err)
	}
	return uint16(v), nil
}
