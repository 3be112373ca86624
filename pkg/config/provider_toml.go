package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/chrissnell/functionalflows/pkg/flows"
	"github.com/chrissnell/functionalflows/pkg/waterday"
)

// TOMLProvider implements ConfigProvider for TOML configuration files.
//
// TOML tables carry no order once decoded, so components follow the optional
// top-level component_order array and fall back to lexical order.
type TOMLProvider struct {
	filename string
	config   *ConfigData
}

// NewTOMLProvider creates a new TOML configuration provider
func NewTOMLProvider(filename string) *TOMLProvider {
	return &TOMLProvider{
		filename: filename,
	}
}

// ComponentTOML mirrors one [components.<name>] table
type ComponentTOML struct {
	Characteristics  []string `toml:"characteristics"`
	Parameters       [][]any  `toml:"parameters"`
	ScoringPattern   []any    `toml:"scoring_pattern"`
	SuccessPattern   *bool    `toml:"success_pattern"`
	IsSuccessPattern *bool    `toml:"is_success_pattern"`
}

// LoadConfig loads the complete configuration from TOML file
func (t *TOMLProvider) LoadConfig() (*ConfigData, error) {
	if t.config != nil {
		return t.config, nil
	}

	cfgFile, err := os.ReadFile(t.filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", flows.ErrConfig, err)
	}
	config, err := parseTOML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.filename, err)
	}

	t.config = config
	return config, nil
}

func parseTOML(data []byte) (*ConfigData, error) {
	var tomlConfig struct {
		FirstDayOfWaterYear *int                     `toml:"first_day_of_water_year"`
		ComponentOrder      []string                 `toml:"component_order"`
		Components          map[string]ComponentTOML `toml:"components"`
	}
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("%w: %w", flows.ErrConfig, err)
	}

	config := &ConfigData{FirstDayOfWaterYear: waterday.DefaultStart}
	if tomlConfig.FirstDayOfWaterYear != nil {
		config.FirstDayOfWaterYear = *tomlConfig.FirstDayOfWaterYear
	}

	order, err := componentOrder(tomlConfig.ComponentOrder, tomlConfig.Components)
	if err != nil {
		return nil, err
	}
	for _, name := range order {
		c := tomlConfig.Components[name]
		config.Components = append(config.Components, ComponentData{
			Name:            name,
			Characteristics: c.Characteristics,
			Parameters:      c.Parameters,
			ScoringPattern:  c.ScoringPattern,
			SuccessPattern:  successPattern(c.SuccessPattern, c.IsSuccessPattern),
		})
	}

	return config, nil
}

func componentOrder(explicit []string, components map[string]ComponentTOML) ([]string, error) {
	if len(explicit) == 0 {
		names := make([]string, 0, len(components))
		for name := range components {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}

	seen := make(map[string]bool, len(explicit))
	for _, name := range explicit {
		if _, ok := components[name]; !ok {
			return nil, fmt.Errorf("%w: component_order names undefined component %q", flows.ErrConfig, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: component_order lists %q twice", flows.ErrConfig, name)
		}
		seen[name] = true
	}
	if len(explicit) != len(components) {
		return nil, fmt.Errorf("%w: component_order lists %d of %d components", flows.ErrConfig, len(explicit), len(components))
	}
	return explicit, nil
}
