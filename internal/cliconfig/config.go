package cliconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/pkg/diode"
)

// Config holds CLI configuration for diodeship.
type Config struct {
	Port        string
	Baud        int
	ECC         int
	OutputDir   string
	ReadTimeout time.Duration
	IdlePause   time.Duration
	Driver      string

	// VendorID and ProductID are hex strings, with or without 0x.
	VendorID  string
	ProductID string

	MaxPayloadBytes int
	// MaxOutputBytes bounds the output directory while receiving; 0 keeps
	// every file.
	MaxOutputBytes int
	LogLevel       string
	WatchConfig    bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Baud:            diode.DefaultBaudRate,
		ECC:             diode.DefaultECC,
		OutputDir:       diode.DefaultOutputDir,
		ReadTimeout:     diode.DefaultReadTimeout,
		IdlePause:       diode.DefaultIdlePause,
		Driver:          "bugst",
		VendorID:        fmt.Sprintf("%04X", diode.DefaultVendorID),
		ProductID:       fmt.Sprintf("%04X", diode.DefaultProductID),
		MaxPayloadBytes: diode.DefaultMaxPayload,
		LogLevel:        "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Baud <= 0 || c.Baud > diode.MaxBaudRate {
		return fmt.Errorf("%w: baud must be in (0, %d], got %d", diode.ErrInvalidConfig, diode.MaxBaudRate, c.Baud)
	}
	if c.ECC < 0 || c.ECC > 254 {
		return fmt.Errorf("%w: ecc must be in [0, 254], got %d", diode.ErrInvalidConfig, c.ECC)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: read timeout must be positive", diode.ErrInvalidConfig)
	}
	if c.IdlePause < 0 {
		return fmt.Errorf("%w: idle pause must not be negative", diode.ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output dir is required", diode.ErrInvalidConfig)
	}
	if c.MaxPayloadBytes <= 0 || uint64(c.MaxPayloadBytes) > math.MaxUint32 {
		return fmt.Errorf("%w: max payload bytes must be in (0, %d]", diode.ErrInvalidConfig, uint64(math.MaxUint32))
	}
	if c.MaxOutputBytes < 0 {
		return fmt.Errorf("%w: max output bytes must not be negative", diode.ErrInvalidConfig)
	}
	if _, err := domain.ParseUSBID(c.VendorID); err != nil {
		return fmt.Errorf("%w: vendor id: %v", diode.ErrInvalidConfig, err)
	}
	if _, err := domain.ParseUSBID(c.ProductID); err != nil {
		return fmt.Errorf("%w: product id: %v", diode.ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level: %v", diode.ErrInvalidConfig, err)
	}
	return nil
}

// LibConfig converts the CLI configuration to a diode.Config. fallback is
// the port used when Port is empty and no adapter is found.
func (c *Config) LibConfig(fallback string) (diode.Config, error) {
	if err := c.Validate(); err != nil {
		return diode.Config{}, err
	}
	vid, _ := domain.ParseUSBID(c.VendorID)
	pid, _ := domain.ParseUSBID(c.ProductID)

	lib := diode.Config{
		Port:            c.Port,
		FallbackPort:    fallback,
		VendorID:        vid,
		ProductID:       pid,
		BaudRate:        c.Baud,
		ECC:             c.ECC,
		OutputDir:       c.OutputDir,
		ReadTimeout:     c.ReadTimeout,
		IdlePause:       c.IdlePause,
		MaxPayloadBytes: uint32(c.MaxPayloadBytes),
		Driver:          c.Driver,
	}
	if err := lib.Validate(); err != nil {
		return diode.Config{}, err
	}
	return lib, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int from a pointer if not nil and flag not changed.
// Used where zero is a meaningful value.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if
// valid. Negative values are rejected; zero is applied only when allowZero.
func (s *configSetter) setIntFromString(flag, value string, allowZero bool, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 || (i == 0 && !allowZero) {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
