package markers

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog errors; Build wraps these with the offending type or group name.
var (
	ErrBadCatalog     = errors.New("invalid marker catalog")
	ErrDuplicateType  = errors.New("duplicate marker type")
	ErrEmptyAlphabet  = errors.New("empty marker alphabet")
	ErrUnknownGroup   = errors.New("unknown pattern group")
	ErrUnknownSpacing = errors.New("unknown spacing mode")
)

// Catalog is the declarative, versionable description of all marker types.
type Catalog struct {
	// Affixes names prefix and suffix strings for use in class names.
	Affixes map[string]string `yaml:"affixes"`

	// Groups holds named, reusable pattern lists.
	Groups map[string][]PatternSpec `yaml:"groups"`

	Types []TypeSpec `yaml:"types"`
}

// PatternSpec is the catalog form of a Pattern.
type PatternSpec struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
	Space  string `yaml:"space"`
}

// TypeSpec is the catalog form of a TypeDef. Exactly one of Symbols, Range,
// or Numeric must be given.
type TypeSpec struct {
	Name     string   `yaml:"name"`
	Class    string   `yaml:"class"`
	HTMLType string   `yaml:"html_type"`
	Start    *int     `yaml:"start"`
	Symbols  []string `yaml:"symbols"`
	Range    []string `yaml:"range"`
	Numeric  bool     `yaml:"numeric"`
	Groups   []string `yaml:"groups"`
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("markers: decode catalog: %w", err)
	}
	return &cat, nil
}

// LoadCatalog reads and decodes a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markers: read catalog: %w", err)
	}
	return ParseCatalog(data)
}
