package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chrissnell/functionalflows/pkg/flows"
	"github.com/chrissnell/functionalflows/pkg/waterday"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
// Components are returned in document order.
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// ComponentYAML mirrors one entry under "components"
type ComponentYAML struct {
	Characteristics  []string `yaml:"characteristics"`
	Parameters       [][]any  `yaml:"parameters"`
	ScoringPattern   []any    `yaml:"scoring_pattern"`
	SuccessPattern   *bool    `yaml:"success_pattern,omitempty"`
	IsSuccessPattern *bool    `yaml:"is_success_pattern,omitempty"`
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	if y.config != nil {
		return y.config, nil
	}

	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", flows.ErrConfig, err)
	}
	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags. Components stay a raw
	// node so their order survives decoding.
	var yamlConfig struct {
		FirstDayOfWaterYear *int      `yaml:"first_day_of_water_year"`
		Components          yaml.Node `yaml:"components"`
	}
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, fmt.Errorf("%w: %w", flows.ErrConfig, err)
	}

	config := &ConfigData{FirstDayOfWaterYear: waterday.DefaultStart}
	if yamlConfig.FirstDayOfWaterYear != nil {
		config.FirstDayOfWaterYear = *yamlConfig.FirstDayOfWaterYear
	}

	node := yamlConfig.Components
	if node.Kind == 0 {
		return config, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: components must be a mapping of component name to definition", flows.ErrConfig, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var c ComponentYAML
		if err := value.Decode(&c); err != nil {
			return nil, fmt.Errorf("%w: component %s: %w", flows.ErrConfig, key.Value, err)
		}
		config.Components = append(config.Components, ComponentData{
			Name:            key.Value,
			Characteristics: c.Characteristics,
			Parameters:      c.Parameters,
			ScoringPattern:  c.ScoringPattern,
			SuccessPattern:  successPattern(c.SuccessPattern, c.IsSuccessPattern),
		})
	}

	return config, nil
}
