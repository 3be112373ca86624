package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// WriteFile writes cfg as YAML or TOML, chosen by the extension of
// filename. Component order is preserved in both formats.
func WriteFile(filename string, cfg *ConfigData) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = MarshalYAML(cfg)
	case ".toml":
		data, err = MarshalTOML(cfg)
	default:
		return fmt.Errorf("unsupported configuration format %q; use .yaml, .yml or .toml", filepath.Ext(filename))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// MarshalYAML encodes cfg with components in order as a YAML mapping.
func MarshalYAML(cfg *ConfigData) ([]byte, error) {
	components := &yaml.Node{Kind: yaml.MappingNode}
	for _, cd := range cfg.Components {
		success := cd.SuccessPattern
		var value yaml.Node
		err := value.Encode(ComponentYAML{
			Characteristics: cd.Characteristics,
			Parameters:      cd.Parameters,
			ScoringPattern:  cd.ScoringPattern,
			SuccessPattern:  &success,
		})
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", cd.Name, err)
		}
		flowSequences(&value)
		components.Content = append(components.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cd.Name},
			&value,
		)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	var start yaml.Node
	if err := start.Encode(cfg.FirstDayOfWaterYear); err != nil {
		return nil, err
	}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "first_day_of_water_year"}, &start,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "components"}, components,
	)
	return yaml.Marshal(doc)
}

// flowSequences renders the lists of a component in flow style, one
// parameter list per line.
func flowSequences(n *yaml.Node) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if value.Kind != yaml.SequenceNode {
			continue
		}
		if key.Value == "parameters" {
			for _, p := range value.Content {
				p.Style = yaml.FlowStyle
			}
			continue
		}
		value.Style = yaml.FlowStyle
	}
}

type componentTOMLOut struct {
	Characteristics []string `toml:"characteristics"`
	Parameters      [][]any  `toml:"parameters,multiline"`
	ScoringPattern  []any    `toml:"scoring_pattern"`
	SuccessPattern  bool     `toml:"success_pattern"`
}

// MarshalTOML encodes cfg as TOML. Order is kept in component_order. TOML
// has no null, so a missing row pattern is written as "none".
func MarshalTOML(cfg *ConfigData) ([]byte, error) {
	out := struct {
		FirstDayOfWaterYear int                         `toml:"first_day_of_water_year"`
		ComponentOrder      []string                    `toml:"component_order"`
		Components          map[string]componentTOMLOut `toml:"components"`
	}{
		FirstDayOfWaterYear: cfg.FirstDayOfWaterYear,
		Components:          make(map[string]componentTOMLOut, len(cfg.Components)),
	}

	for _, cd := range cfg.Components {
		params := make([][]any, len(cd.Parameters))
		for i, p := range cd.Parameters {
			params[i] = make([]any, len(p))
			for j, v := range p {
				if v == nil {
					v = "none"
				}
				params[i][j] = v
			}
		}
		out.ComponentOrder = append(out.ComponentOrder, cd.Name)
		out.Components[cd.Name] = componentTOMLOut{
			Characteristics: cd.Characteristics,
			Parameters:      params,
			ScoringPattern:  cd.ScoringPattern,
			SuccessPattern:  cd.SuccessPattern,
		}
	}
	return toml.Marshal(out)
}
