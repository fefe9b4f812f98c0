// Package config loads the olify YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jcorbin/olify/internal/logging"
	"github.com/jcorbin/olify/numbering"
)

// Parser names.
const (
	Goldmark    = "goldmark"
	Blackfriday = "blackfriday"
)

// ErrInvalid is wrapped by all Validate errors.
var ErrInvalid = errors.New("invalid config")

// Config is the file form of all olify settings.
type Config struct {
	// Parser selects the markdown tokenizer: goldmark (default) or
	// blackfriday.
	Parser string `yaml:"parser"`

	// Catalog is an optional path to a marker catalog replacing the built-in
	// one.
	Catalog string `yaml:"catalog"`

	LogLevel string `yaml:"log_level"`

	// TieBreak is "first" (default) or "last".
	TieBreak string `yaml:"tie_break"`

	Numbering numbering.Options `yaml:"numbering"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{Parser: Goldmark}
}

// Load reads the config file at path over Default, then validates it. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %v: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate normalizes names and checks every field.
func (cfg *Config) Validate() error {
	cfg.Parser = strings.ToLower(strings.TrimSpace(cfg.Parser))
	switch cfg.Parser {
	case "":
		cfg.Parser = Goldmark
	case Goldmark, Blackfriday:
	default:
		return fmt.Errorf("%w: unknown parser %q", ErrInvalid, cfg.Parser)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := cfg.TieBreakPolicy(); err != nil {
		return err
	}
	if strings.ContainsAny(cfg.Numbering.MarkerSpanClassName, " \t\n\"'<>") {
		return fmt.Errorf("%w: marker span class %q", ErrInvalid, cfg.Numbering.MarkerSpanClassName)
	}
	return nil
}

// TieBreakPolicy maps TieBreak to its numbering value.
func (cfg *Config) TieBreakPolicy() (p numbering.TieBreak, err error) {
	switch strings.ToLower(cfg.TieBreak) {
	case "", "first":
		return numbering.FirstSeen, nil
	case "last":
		return numbering.LastSeen, nil
	}
	return p, fmt.Errorf("%w: unknown tie break %q", ErrInvalid, cfg.TieBreak)
}
