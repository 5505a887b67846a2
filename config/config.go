// Package config loads and saves the tool's TOML configuration.
//
// Every field has a default, so the tool runs correctly with no file at all.
// Lookup order: an explicit path, then ./regiontext.toml, then
// <user-config-dir>/regiontext/config.toml, then the built-in defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/voxelfs/regiontext/denoise"
)

// LocalName is the per-directory configuration filename.
const LocalName = "regiontext.toml"

// ExportConfig controls export-time defaults.
type ExportConfig struct {
	// Denoise enables the field-stripping transform by default.
	Denoise bool `toml:"denoise"`
	// Aggressive enables the larger aggressive field group by default.
	Aggressive bool `toml:"aggressive"`
	// SkipEmptyChunks drops chunks that carry no sections and no block
	// entities after pruning.
	SkipEmptyChunks bool `toml:"skip_empty_chunks"`
}

// RestoreConfig controls restore-time defaults.
type RestoreConfig struct {
	// RestoreDefaults reinserts safe defaults for stripped fields.
	RestoreDefaults bool `toml:"restore_defaults"`
}

// Config is the full configuration surface.
type Config struct {
	Export  ExportConfig   `toml:"export"`
	Restore RestoreConfig  `toml:"restore"`
	Denoise denoise.Config `toml:"denoise"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Export: ExportConfig{
			Denoise:         true,
			Aggressive:      false,
			SkipEmptyChunks: true,
		},
		Restore: RestoreConfig{
			RestoreDefaults: true,
		},
		Denoise: denoise.Default(),
	}
}

// LoadFile reads configuration from the given TOML file. Fields absent from
// the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

// Load resolves configuration by priority: the local file in the working
// directory, the user configuration directory, then defaults. A missing or
// unreadable candidate falls through to the next; Load itself never fails.
func Load() Config {
	if cfg, err := LoadFile(LocalName); err == nil {
		return cfg
	}

	if user, err := userPath(); err == nil {
		if cfg, err := LoadFile(user); err == nil {
			return cfg
		}
	}

	return Default()
}

// Save writes the configuration as TOML, creating parent directories as
// needed.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func userPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "regiontext", "config.toml"), nil
}
