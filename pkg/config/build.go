package config

import (
	"fmt"

	"github.com/chrissnell/functionalflows/pkg/flows"
	"github.com/chrissnell/functionalflows/pkg/waterday"
)

// BuildComponents validates the whole configuration and builds every
// component. It fails on the first problem, so either all components are
// returned or none are.
func BuildComponents(cfg *ConfigData) ([]*flows.Component, error) {
	if err := waterday.ValidateStart(cfg.FirstDayOfWaterYear); err != nil {
		return nil, fmt.Errorf("%w: %w", flows.ErrConfig, err)
	}
	if len(cfg.Components) == 0 {
		return nil, fmt.Errorf("%w: no components defined", flows.ErrConfig)
	}

	components := make([]*flows.Component, 0, len(cfg.Components))
	seen := make(map[string]bool, len(cfg.Components))
	for _, cd := range cfg.Components {
		if seen[cd.Name] {
			return nil, fmt.Errorf("%w: component %q is defined more than once", flows.ErrConfig, cd.Name)
		}
		seen[cd.Name] = true

		c, err := BuildComponent(cd)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, nil
}

// BuildComponent builds a single component from its definition.
func BuildComponent(cd ComponentData) (*flows.Component, error) {
	if len(cd.Characteristics) != len(cd.Parameters) {
		return nil, fmt.Errorf("%w: component %s lists %d characteristics but %d parameter lists",
			flows.ErrConfig, cd.Name, len(cd.Characteristics), len(cd.Parameters))
	}

	characteristics := make([]flows.NamedCharacteristic, len(cd.Characteristics))
	for i, name := range cd.Characteristics {
		c, err := flows.NewCharacteristic(name, cd.Parameters[i])
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", cd.Name, err)
		}
		characteristics[i] = flows.NamedCharacteristic{Name: name, Characteristic: c}
	}

	pattern := make([]flows.PatternElement, len(cd.ScoringPattern))
	for i, v := range cd.ScoringPattern {
		e, err := flows.ParsePatternElement(v)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", cd.Name, err)
		}
		pattern[i] = e
	}

	return flows.NewComponent(cd.Name, characteristics, flows.NewScoringCriteria(pattern, cd.SuccessPattern))
}
