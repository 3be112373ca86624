package flows

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type builder struct {
	params []string
	build  func(p params) (Characteristic, error)
}

// registry maps configuration names to characteristic constructors and their
// positional parameter names.
var registry = map[string]builder{
	KindTiming: {
		params: []string{"start", "end"},
		build: func(p params) (Characteristic, error) {
			start, err := p.integer(0)
			if err != nil {
				return nil, err
			}
			end, err := p.integer(1)
			if err != nil {
				return nil, err
			}
			return Timing{Start: start, End: end}, nil
		},
	},
	KindMagnitude: {
		params: []string{"ma_nperiods", "threshold", "symbol"},
		build: func(p params) (Characteristic, error) {
			n, err := p.periods(0)
			if err != nil {
				return nil, err
			}
			threshold, err := p.number(1)
			if err != nil {
				return nil, err
			}
			op, err := p.comparator(2)
			if err != nil {
				return nil, err
			}
			return Magnitude{MANPeriods: n, Threshold: threshold, Op: op}, nil
		},
	},
	KindDuration: {
		params: []string{"nperiods", "row_pattern", "symbol"},
		build: func(p params) (Characteristic, error) {
			n, err := p.integer(0)
			if err != nil {
				return nil, err
			}
			pattern, err := p.pattern(1, true)
			if err != nil {
				return nil, err
			}
			op, err := p.comparator(2)
			if err != nil {
				return nil, err
			}
			return Duration{NPeriods: n, RowPattern: pattern, Op: op}, nil
		},
	},
	KindRateOfChange: {
		params: []string{"ma_nperiods", "threshold_factor", "symbol"},
		build: func(p params) (Characteristic, error) {
			n, err := p.periods(0)
			if err != nil {
				return nil, err
			}
			factor, err := p.number(1)
			if err != nil {
				return nil, err
			}
			op, err := p.comparator(2)
			if err != nil {
				return nil, err
			}
			return RateOfChange{MANPeriods: n, ThresholdFactor: factor, Op: op}, nil
		},
	},
	KindFrequency: {
		params: []string{"n_times", "n_years", "row_pattern", "symbol"},
		build: func(p params) (Characteristic, error) {
			times, err := p.integer(0)
			if err != nil {
				return nil, err
			}
			years, err := p.periods(1)
			if err != nil {
				return nil, err
			}
			pattern, err := p.pattern(2, false)
			if err != nil {
				return nil, err
			}
			op, err := p.comparator(3)
			if err != nil {
				return nil, err
			}
			return Frequency{NTimes: times, NYears: years, RowPattern: pattern, Op: op}, nil
		},
	},
}

// Kinds lists the registered characteristic names.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// NewCharacteristic builds the characteristic registered under name from its
// positional configuration parameters.
func NewCharacteristic(name string, values []any) (Characteristic, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: the %s characteristic is not implemented (known: %s)",
			ErrConfig, name, strings.Join(Kinds(), ", "))
	}
	if len(values) != len(b.params) {
		return nil, fmt.Errorf("%w: %s takes %d parameters (%s), got %d",
			ErrConfig, name, len(b.params), strings.Join(b.params, ", "), len(values))
	}
	return b.build(params{kind: name, names: b.params, values: values})
}

// params decodes positional values as produced by YAML, TOML or JSON
// decoders into the types a characteristic needs.
type params struct {
	kind   string
	names  []string
	values []any
}

func (p params) errorf(i int, format string, args ...any) error {
	return fmt.Errorf("%w: %s parameter %s: %s", ErrConfig, p.kind, p.names[i], fmt.Sprintf(format, args...))
}

func (p params) integer(i int) (int, error) {
	n, ok := toInt(p.values[i])
	if !ok {
		return 0, p.errorf(i, "expected an integer, got %v", p.values[i])
	}
	return n, nil
}

func (p params) periods(i int) (int, error) {
	n, err := p.integer(i)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, p.errorf(i, "must be at least 1, got %d", n)
	}
	return n, nil
}

func (p params) number(i int) (float64, error) {
	switch v := p.values[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, nil
		}
	default:
		if n, ok := toInt(v); ok {
			return float64(n), nil
		}
	}
	return 0, p.errorf(i, "expected a number, got %v", p.values[i])
}

func (p params) comparator(i int) (Comparator, error) {
	s, ok := p.values[i].(string)
	if !ok {
		return 0, p.errorf(i, "expected an operator symbol, got %v", p.values[i])
	}
	return ParseComparator(strings.TrimSpace(s))
}

// pattern decodes an array of 0/1 values. When nullable, nil, an empty
// array and the string "none" all mean "no pattern".
func (p params) pattern(i int, nullable bool) ([]int8, error) {
	v := p.values[i]
	if nullable {
		if v == nil {
			return nil, nil
		}
		if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "none") {
			return nil, nil
		}
	}

	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	case []int:
		for _, n := range t {
			raw = append(raw, n)
		}
	case []int64:
		for _, n := range t {
			raw = append(raw, n)
		}
	case []int8:
		for _, n := range t {
			raw = append(raw, int(n))
		}
	default:
		return nil, p.errorf(i, "expected an array of 0/1 values, got %v", v)
	}
	if nullable && len(raw) == 0 {
		return nil, nil
	}

	out := make([]int8, len(raw))
	for k, e := range raw {
		n, ok := toInt(e)
		if !ok || (n != 0 && n != 1) {
			return nil, p.errorf(i, "element %d must be 0 or 1, got %v", k, e)
		}
		out[k] = int8(n)
	}
	return out, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case float32:
		if float64(n) == math.Trunc(float64(n)) {
			return int(n), true
		}
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return i, true
		}
	}
	return 0, false
}
