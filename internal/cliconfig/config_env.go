package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "DIODESHIP_"

// ApplyEnvConfig applies DIODESHIP_* environment variables to cfg, skipping
// keys whose flag was set explicitly.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", os.Getenv(EnvPrefix+"PORT"), &cfg.Port)
	s.setString("dir", os.Getenv(EnvPrefix+"OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("driver", os.Getenv(EnvPrefix+"DRIVER"), &cfg.Driver)
	s.setString("vid", os.Getenv(EnvPrefix+"VENDOR_ID"), &cfg.VendorID)
	s.setString("pid", os.Getenv(EnvPrefix+"PRODUCT_ID"), &cfg.ProductID)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("read-timeout", os.Getenv(EnvPrefix+"READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("idle-pause", os.Getenv(EnvPrefix+"IDLE_PAUSE"), &cfg.IdlePause); err != nil {
		return err
	}

	if err := s.setIntFromString("baud", os.Getenv(EnvPrefix+"BAUD"), false, &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("ecc", os.Getenv(EnvPrefix+"ECC"), true, &cfg.ECC); err != nil {
		return err
	}
	if err := s.setIntFromString("max-payload-bytes", os.Getenv(EnvPrefix+"MAX_PAYLOAD_BYTES"), false, &cfg.MaxPayloadBytes); err != nil {
		return err
	}

	if err := s.setIntFromString("max-output-bytes", os.Getenv(EnvPrefix+"MAX_OUTPUT_BYTES"), true, &cfg.MaxOutputBytes); err != nil {
		return err
	}

	s.setBoolFromString("watch-config", os.Getenv(EnvPrefix+"WATCH_CONFIG"), &cfg.WatchConfig)

	return nil
}
