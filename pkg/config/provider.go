// Package config loads functional flow component definitions from
// configuration documents and builds the validated component graph.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chrissnell/functionalflows/pkg/flows"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// LoadConfig reads and decodes the complete configuration
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	FirstDayOfWaterYear int             `json:"first_day_of_water_year"`
	Components          []ComponentData `json:"components"`
}

// ComponentData holds the definition of a single functional flow component.
// Characteristics and Parameters are parallel lists.
type ComponentData struct {
	Name            string   `json:"name"`
	Characteristics []string `json:"characteristics"`
	Parameters      [][]any  `json:"parameters"`
	ScoringPattern  []any    `json:"scoring_pattern"`
	SuccessPattern  bool     `json:"success_pattern"`
}

// NewProvider picks a provider from the file extension: .yaml/.yml or .toml.
func NewProvider(filename string) (ConfigProvider, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return NewYAMLProvider(filename), nil
	case ".toml":
		return NewTOMLProvider(filename), nil
	default:
		return nil, fmt.Errorf("%w: unsupported configuration format %q; use .yaml, .yml or .toml", flows.ErrConfig, filepath.Ext(filename))
	}
}

// successPattern resolves the two accepted spellings of the success flag.
// The pattern describes success unless one of them says otherwise.
func successPattern(successPattern, isSuccessPattern *bool) bool {
	if successPattern != nil {
		return *successPattern
	}
	if isSuccessPattern != nil {
		return *isSuccessPattern
	}
	return true
}
