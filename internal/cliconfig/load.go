package cliconfig

import "fmt"

// Load layers the config file at path (skipped when empty or missing) and
// then the environment over base. Keys in changed were set by flags and
// keep their value from base. base is not modified.
func Load(base Config, path string, changed map[string]bool) (Config, error) {
	cfg := base
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
			return Config{}, fmt.Errorf("apply config %s: %w", path, err)
		}
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		return Config{}, fmt.Errorf("apply environment: %w", err)
	}
	return cfg, nil
}
