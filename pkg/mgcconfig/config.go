// Package mgcconfig is MGCInts's ambient configuration layer: directive
// prefix/comment symbols, warning strictness, default pointer
// width/endianness, and engine search paths, loaded with a
// defaults-then-user-then-project-then-CLI-overrides precedence.
package mgcconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mgcints/mgcints/pkg/mgcchunk"
)

// Config is MGCInts's full settings surface.
type Config struct {
	Directive DirectiveConfig `toml:"directive"`
	Warnings  WarningConfig   `toml:"warnings"`
	Pointer   PointerConfig   `toml:"pointer"`
	Engine    EngineConfig    `toml:"engine"`
}

// DirectiveConfig controls the preprocessor's symbols.
type DirectiveConfig struct {
	// Prefix is the line-leading directive character; "#" by default.
	Prefix string `toml:"prefix"`
	// Comment is the single-line comment token directives and commands
	// tolerate trailing; ";" by default.
	Comment string `toml:"comment"`
}

// WarningConfig controls the warning channel: each distinct format
// string fires at most MaxPerFormat times per run, unless Strict
// converts warnings into thrown exceptions.
type WarningConfig struct {
	Strict       bool `toml:"strict"`
	MaxPerFormat int  `toml:"max_per_format"`
}

// PointerConfig holds a default pointer width/endianness. It is loaded and
// validated, but no code in this module reads it: every PushPointer call
// passes its own width and endianness.
type PointerConfig struct {
	DefaultWidth  int    `toml:"default_width"`
	DefaultEndian string `toml:"default_endian"` // "little" or "big"
}

// Endian resolves DefaultEndian to an mgcchunk.Endian.
func (p PointerConfig) Endian() mgcchunk.Endian {
	if p.DefaultEndian == "big" {
		return mgcchunk.Big
	}
	return mgcchunk.Little
}

// EngineConfig holds engine search paths. They are loaded, but the CLI
// resolves engines only through its in-process registry and does not
// read SearchPaths.
type EngineConfig struct {
	SearchPaths []string `toml:"search_paths"`
}

// DefaultConfig returns MGCInts's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Directive: DirectiveConfig{Prefix: "#", Comment: ";"},
		Warnings:  WarningConfig{Strict: false, MaxPerFormat: 1},
		Pointer:   PointerConfig{DefaultWidth: 1, DefaultEndian: "little"},
		Engine:    EngineConfig{},
	}
}

// Load loads configuration with precedence (lowest to highest):
// defaults → ~/.mgcints/config.toml → ./mgcints.toml → overrides.
func Load(overrides *Config) (*Config, error) {
	cfg := DefaultConfig()

	userPath := filepath.Join(os.Getenv("HOME"), ".mgcints", "config.toml")
	if err := loadConfigFile(userPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if err := loadConfigFile("mgcints.toml", cfg); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if overrides != nil {
		if overrides.Directive.Prefix != "" {
			cfg.Directive.Prefix = overrides.Directive.Prefix
		}
		if overrides.Directive.Comment != "" {
			cfg.Directive.Comment = overrides.Directive.Comment
		}
		if overrides.Pointer.DefaultWidth != 0 {
			cfg.Pointer.DefaultWidth = overrides.Pointer.DefaultWidth
		}
		if overrides.Pointer.DefaultEndian != "" {
			cfg.Pointer.DefaultEndian = overrides.Pointer.DefaultEndian
		}
		if overrides.Warnings.Strict {
			cfg.Warnings.Strict = true
		}
		if len(overrides.Engine.SearchPaths) > 0 {
			cfg.Engine.SearchPaths = overrides.Engine.SearchPaths
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration's invariants.
func (c *Config) Validate() error {
	if c.Directive.Prefix == "" {
		return fmt.Errorf("directive prefix cannot be empty")
	}
	if c.Pointer.DefaultWidth < 1 || c.Pointer.DefaultWidth > 4 {
		return fmt.Errorf("pointer default_width must be 1-4, got %d", c.Pointer.DefaultWidth)
	}
	switch c.Pointer.DefaultEndian {
	case "little", "big":
	default:
		return fmt.Errorf("pointer default_endian must be 'little' or 'big', got %q", c.Pointer.DefaultEndian)
	}
	if c.Warnings.MaxPerFormat < 1 {
		return fmt.Errorf("warnings max_per_format must be >= 1, got %d", c.Warnings.MaxPerFormat)
	}
	return nil
}
