package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringCriteriaDerivedPatterns(t *testing.T) {
	sc := NewScoringCriteria([]PatternElement{One, Wildcard, Zero, Wildcard}, true)
	assert.Equal(t, []int8{1, 0}, sc.MatchingPattern())
	assert.Equal(t, []int{1, 3}, sc.WildcardPositions())
	assert.Equal(t, "success", sc.Name())
}

func TestScoringCriteriaMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  []PatternElement
		row      []int8
		expected bool
	}{
		{name: "wildcard ignored", pattern: []PatternElement{One, Wildcard, Zero}, row: []int8{1, 1, 0}, expected: true},
		{name: "wildcard ignored either way", pattern: []PatternElement{One, Wildcard, Zero}, row: []int8{1, 0, 0}, expected: true},
		{name: "mismatch outside wildcard", pattern: []PatternElement{One, Wildcard, Zero}, row: []int8{1, 0, 1}, expected: false},
		{name: "no wildcards exact", pattern: []PatternElement{One, One}, row: []int8{1, 1}, expected: true},
		{name: "no wildcards mismatch", pattern: []PatternElement{One, One}, row: []int8{1, 0}, expected: false},
		{name: "all wildcards", pattern: []PatternElement{Wildcard, Wildcard}, row: []int8{0, 1}, expected: true},
		{name: "row too short", pattern: []PatternElement{One, One}, row: []int8{1}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewScoringCriteria(tt.pattern, true).Match(tt.row))
		})
	}
}

func TestScoringCriteriaFailureLabelDoesNotInvert(t *testing.T) {
	sc := NewScoringCriteria([]PatternElement{One}, false)
	assert.Equal(t, "failure", sc.Name())

	m := NewMatrix(3, 2)
	m.SetCol(0, []int8{1, 0, 1})
	sc.Score(m)
	assert.Equal(t, []int8{1, 0, 1}, m.Col(1))
}

func TestParsePatternElement(t *testing.T) {
	good := map[any]PatternElement{
		0:          Zero,
		1:          One,
		int64(1):   One,
		float64(0): Zero,
		"*":        Wildcard,
		" 1 ":      One,
		true:       One,
	}
	for in, expected := range good {
		got, err := ParsePatternElement(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, expected, got, "%v", in)
	}

	for _, in := range []any{2, -1, "x", 0.5, nil} {
		_, err := ParsePatternElement(in)
		assert.ErrorIs(t, err, ErrConfig, "%v", in)
	}
}
