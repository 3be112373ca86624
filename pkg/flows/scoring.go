package flows

import (
	"fmt"
	"strconv"
	"strings"
)

// PatternElement is one entry of a scoring pattern.
type PatternElement int8

const (
	Zero     PatternElement = 0
	One      PatternElement = 1
	Wildcard PatternElement = -1
)

// ParsePatternElement accepts 0, 1, "0", "1" and "*".
func ParsePatternElement(v any) (PatternElement, error) {
	switch t := v.(type) {
	case int:
		return patternFromInt(int64(t))
	case int64:
		return patternFromInt(t)
	case float64:
		if t == float64(int64(t)) {
			return patternFromInt(int64(t))
		}
	case bool:
		if t {
			return One, nil
		}
		return Zero, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "*" {
			return Wildcard, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return patternFromInt(n)
		}
	}
	return 0, fmt.Errorf("%w: scoring pattern element %v must be 0, 1 or \"*\"", ErrConfig, v)
}

func patternFromInt(n int64) (PatternElement, error) {
	switch n {
	case 0:
		return Zero, nil
	case 1:
		return One, nil
	}
	return 0, fmt.Errorf("%w: scoring pattern element %d must be 0, 1 or \"*\"", ErrConfig, n)
}

func (e PatternElement) String() string {
	if e == Wildcard {
		return "*"
	}
	return strconv.Itoa(int(e))
}

// ScoringCriteria decides, row by row, whether the characteristic outputs of
// a Component match its scoring pattern. Wildcard positions are ignored.
type ScoringCriteria struct {
	pattern           []PatternElement
	isSuccessPattern  bool
	matchingPattern   []int8
	wildcardPositions []int
}

// NewScoringCriteria derives the matching pattern and wildcard positions from
// pattern. isSuccessPattern only selects the label of the score column; it
// does not invert matching.
func NewScoringCriteria(pattern []PatternElement, isSuccessPattern bool) *ScoringCriteria {
	sc := &ScoringCriteria{
		pattern:          append([]PatternElement(nil), pattern...),
		isSuccessPattern: isSuccessPattern,
		matchingPattern:  make([]int8, 0, len(pattern)),
	}
	for i, e := range pattern {
		if e == Wildcard {
			sc.wildcardPositions = append(sc.wildcardPositions, i)
			continue
		}
		sc.matchingPattern = append(sc.matchingPattern, int8(e))
	}
	return sc
}

// Pattern returns the scoring pattern, wildcards included.
func (sc *ScoringCriteria) Pattern() []PatternElement { return sc.pattern }

// MatchingPattern returns the pattern with wildcard elements removed.
func (sc *ScoringCriteria) MatchingPattern() []int8 { return sc.matchingPattern }

// WildcardPositions returns the indices of wildcard elements in the pattern.
func (sc *ScoringCriteria) WildcardPositions() []int { return sc.wildcardPositions }

// IsSuccessPattern reports whether the pattern describes success.
func (sc *ScoringCriteria) IsSuccessPattern() bool { return sc.isSuccessPattern }

// Match reports whether row, with wildcard positions removed, equals the
// matching pattern.
func (sc *ScoringCriteria) Match(row []int8) bool {
	if len(row)-len(sc.wildcardPositions) != len(sc.matchingPattern) {
		return false
	}
	k, w := 0, 0
	for i, v := range row {
		if w < len(sc.wildcardPositions) && sc.wildcardPositions[w] == i {
			w++
			continue
		}
		if v != sc.matchingPattern[k] {
			return false
		}
		k++
	}
	return true
}

// Score writes the match result of every row into the column that follows
// the characteristic columns.
func (sc *ScoringCriteria) Score(m *Matrix) {
	c := len(sc.pattern)
	for i := 0; i < m.rows; i++ {
		row := m.Row(i)
		row[c] = boolCell(sc.Match(row[:c]))
	}
}

// Name labels the score column.
func (sc *ScoringCriteria) Name() string {
	if sc.isSuccessPattern {
		return "success"
	}
	return "failure"
}
