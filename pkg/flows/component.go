package flows

import "fmt"

// NamedCharacteristic pairs a characteristic with the name used for its
// output column.
type NamedCharacteristic struct {
	Name           string
	Characteristic Characteristic
}

// Component is an ordered bundle of characteristics plus the criteria that
// score them: one ecologically meaningful flow event definition.
type Component struct {
	name            string
	characteristics []NamedCharacteristic
	scoring         *ScoringCriteria
}

// NewComponent validates the bundle. Names must be unique, the scoring
// pattern must have one element per characteristic, and characteristics that
// read earlier columns must agree with their position.
func NewComponent(name string, characteristics []NamedCharacteristic, scoring *ScoringCriteria) (*Component, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: component name is empty", ErrConfig)
	}
	if scoring == nil {
		return nil, fmt.Errorf("%w: component %s has no scoring criteria", ErrConfig, name)
	}
	if len(scoring.pattern) != len(characteristics) {
		return nil, fmt.Errorf("%w: component %s has %d characteristics but a scoring pattern of length %d",
			ErrConfig, name, len(characteristics), len(scoring.pattern))
	}

	seen := make(map[string]bool, len(characteristics))
	for i, nc := range characteristics {
		if nc.Characteristic == nil {
			return nil, fmt.Errorf("%w: component %s characteristic %q is nil", ErrConfig, name, nc.Name)
		}
		if seen[nc.Name] {
			return nil, fmt.Errorf("%w: component %s declares characteristic %q more than once", ErrConfig, name, nc.Name)
		}
		seen[nc.Name] = true
		if d, ok := nc.Characteristic.(dependent); ok {
			if err := d.validatePosition(i + 1); err != nil {
				return nil, fmt.Errorf("component %s: %w", name, err)
			}
		}
	}

	return &Component{
		name:            name,
		characteristics: append([]NamedCharacteristic(nil), characteristics...),
		scoring:         scoring,
	}, nil
}

// Name is the component name used to prefix output columns.
func (c *Component) Name() string { return c.name }

// Characteristics returns the characteristics in evaluation order.
func (c *Component) Characteristics() []NamedCharacteristic { return c.characteristics }

// ScoringCriteria returns the component's scoring criteria.
func (c *Component) ScoringCriteria() *ScoringCriteria { return c.scoring }

// Evaluate fills a fresh matrix column by column, in declaration order, and
// scores it. Later characteristics observe the columns written before them.
func (c *Component) Evaluate(in *Input) *Output {
	m := NewMatrix(in.Len(), len(c.characteristics)+1)
	for i, nc := range c.characteristics {
		m.SetCol(i, nc.Characteristic.Evaluate(in, m, i+1))
	}
	c.scoring.Score(m)

	names := make([]string, 0, len(c.characteristics)+1)
	for _, nc := range c.characteristics {
		names = append(names, nc.Name)
	}
	names = append(names, c.scoring.Name())

	return &Output{
		ComponentName:       c.name,
		CharacteristicNames: names,
		Data:                m,
	}
}
