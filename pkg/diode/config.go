package diode

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bft-labs/diodeship/internal/adapters/serial"
	"github.com/bft-labs/diodeship/internal/app"
	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/pkg/fec"
)

// Defaults used by DefaultConfig and SetDefaults.
const (
	DefaultBaudRate    = 921600
	DefaultECC         = 10
	DefaultOutputDir   = "received_files"
	DefaultReadTimeout = 2 * time.Second
	DefaultIdlePause   = app.DefaultIdlePause
	DefaultMaxPayload  = app.DefaultMaxPayload
	DefaultVendorID    = domain.DefaultVendorID
	DefaultProductID   = domain.DefaultProductID

	// MaxBaudRate is the highest baud rate accepted by Validate.
	MaxBaudRate = 3_000_000
)

// Config configures a Client.
type Config struct {
	// Port is the serial device to use. Empty means locate the adapter by
	// VendorID/ProductID and fall back to FallbackPort.
	Port string

	// FallbackPort is used when Port is empty and no adapter is found.
	// Empty selects DefaultSendPort or DefaultReceivePort.
	FallbackPort string

	// VendorID and ProductID identify the USB serial adapter.
	// Default: 0x10C4 / 0xEA60 (CP210x)
	VendorID  uint16
	ProductID uint16

	// BaudRate is the line speed, 8N1.
	// Default: 921600
	BaudRate int

	// ECC is the number of Reed-Solomon parity symbols per 255-byte block.
	// Zero is valid and disables FEC, so SetDefaults leaves it alone; start
	// from DefaultConfig to get the standard 10.
	ECC int

	// OutputDir receives the decoded artifacts.
	// Default: received_files
	OutputDir string

	// ReadTimeout bounds each read on the port. It is also how long a
	// Stop can take to be observed while listening.
	// Default: 2s
	ReadTimeout time.Duration

	// IdlePause is the pause after a receive attempt that timed out.
	// Default: 100ms
	IdlePause time.Duration

	// MaxPayloadBytes rejects frames announcing a larger encoded payload.
	// Default: 512 MiB
	MaxPayloadBytes uint32

	// Driver selects the serial implementation: "bugst" or "tarm".
	// Default: bugst
	Driver string
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	cfg := Config{ECC: DefaultECC}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero-valued fields other than ECC.
func (c *Config) SetDefaults() {
	if c.VendorID == 0 && c.ProductID == 0 {
		c.VendorID = DefaultVendorID
		c.ProductID = DefaultProductID
	}
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.IdlePause == 0 {
		c.IdlePause = DefaultIdlePause
	}
	if c.MaxPayloadBytes == 0 {
		c.MaxPayloadBytes = DefaultMaxPayload
	}
	if c.Driver == "" {
		c.Driver = serial.DefaultDriver
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BaudRate <= 0 || c.BaudRate > MaxBaudRate {
		return fmt.Errorf("%w: baud rate %d not in (0, %d]", ErrInvalidConfig, c.BaudRate, MaxBaudRate)
	}
	if c.ECC < 0 || c.ECC > fec.MaxECCSymbols {
		return fmt.Errorf("%w: ecc %d not in [0, %d]", ErrInvalidConfig, c.ECC, fec.MaxECCSymbols)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: read timeout must be positive", ErrInvalidConfig)
	}
	if c.IdlePause < 0 {
		return fmt.Errorf("%w: idle pause must not be negative", ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidConfig)
	}
	if _, err := serial.NewOpener(c.Driver); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultSendPort is the fallback port of the sending side.
func DefaultSendPort() string {
	return defaultPort("COM14")
}

// DefaultReceivePort is the fallback port of the receiving side.
func DefaultReceivePort() string {
	return defaultPort("COM16")
}

func defaultPort(windows string) string {
	if strings.EqualFold(runtime.GOOS, "windows") {
		return windows
	}
	return "/dev/ttyUSB0"
}
