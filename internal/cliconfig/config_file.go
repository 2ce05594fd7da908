package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port            string `toml:"port"`
	Baud            int    `toml:"baud"`
	ECC             *int   `toml:"ecc"`
	OutputDir       string `toml:"output_dir"`
	ReadTimeout     string `toml:"read_timeout"`
	IdlePause       string `toml:"idle_pause"`
	Driver          string `toml:"driver"`
	VendorID        string `toml:"vendor_id"`
	ProductID       string `toml:"product_id"`
	MaxPayloadBytes int    `toml:"max_payload_bytes"`
	MaxOutputBytes  int    `toml:"max_output_bytes"`
	LogLevel        string `toml:"log_level"`
	WatchConfig     *bool  `toml:"watch_config"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.diodeship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".diodeship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setString("dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("driver", fc.Driver, &cfg.Driver)
	s.setString("vid", fc.VendorID, &cfg.VendorID)
	s.setString("pid", fc.ProductID, &cfg.ProductID)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("idle-pause", fc.IdlePause, &cfg.IdlePause); err != nil {
		return err
	}

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setIntPtr("ecc", fc.ECC, &cfg.ECC)
	s.setInt("max-payload-bytes", fc.MaxPayloadBytes, &cfg.MaxPayloadBytes)
	s.setInt("max-output-bytes", fc.MaxOutputBytes, &cfg.MaxOutputBytes)

	s.setBool("watch-config", fc.WatchConfig, &cfg.WatchConfig)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
