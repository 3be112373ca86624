package flows

import (
	"fmt"
	"math"
)

// Characteristic kinds as they appear in configuration documents.
const (
	KindTiming       = "timing"
	KindMagnitude    = "magnitude"
	KindDuration     = "duration"
	KindRateOfChange = "rate_of_change"
	KindFrequency    = "frequency"
)

// maxRateOfChange caps the relative change between consecutive days so that
// vanishingly small predecessors do not yield near-infinite ratios.
const maxRateOfChange = 100

// Characteristic is one per-day boolean test over an Input.
//
// ordinal is the 1-based position of the characteristic inside its
// Component. It is also the number of previously filled columns plus one,
// so characteristics that depend on earlier results read columns
// [0, ordinal-1) of m.
type Characteristic interface {
	Kind() string
	Evaluate(in *Input, m *Matrix, ordinal int) []int8
}

// dependent is implemented by characteristics that read earlier columns and
// need their row pattern checked against their position.
type dependent interface {
	validatePosition(ordinal int) error
}

// Timing marks days whose day of water year falls in [Start, End). End may
// exceed 365 to express windows that wrap the year.
type Timing struct {
	Start int
	End   int
}

func (Timing) Kind() string { return KindTiming }

func (c Timing) Evaluate(in *Input, _ *Matrix, _ int) []int8 {
	out := make([]int8, in.Len())
	for i, day := range in.dsowy {
		out[i] = boolCell(c.Start <= day && day < c.End)
	}
	return out
}

// Magnitude compares the (optionally moving-averaged) flow to a threshold.
type Magnitude struct {
	MANPeriods int
	Threshold  float64
	Op         Comparator
}

func (Magnitude) Kind() string { return KindMagnitude }

func (c Magnitude) Evaluate(in *Input, _ *Matrix, _ int) []int8 {
	flows := movingAverage(in.flows, c.MANPeriods)
	out := make([]int8, len(flows))
	for i, f := range flows {
		out[i] = boolCell(c.Op.Compare(f, c.Threshold))
	}
	return out
}

// Duration marks runs of consecutive days on which the earlier columns of a
// row equal RowPattern, provided Op(run length, NPeriods) holds when the run
// is broken. A nil RowPattern means "all earlier columns are 1".
//
// A run still open at the final row is never closed.
type Duration struct {
	NPeriods   int
	RowPattern []int8
	Op         Comparator
}

func (Duration) Kind() string { return KindDuration }

func (c Duration) Evaluate(in *Input, m *Matrix, ordinal int) []int8 {
	pattern := c.pattern(ordinal)
	out := make([]int8, in.Len())
	n := 0
	for i := range out {
		if m.rowPrefixEquals(i, pattern) {
			n++
			continue
		}
		if c.Op.Compare(float64(n), float64(c.NPeriods)) {
			for k := i - n; k < i; k++ {
				out[k] = 1
			}
		}
		n = 0
	}
	return out
}

func (c Duration) pattern(ordinal int) []int8 {
	if c.RowPattern != nil {
		return c.RowPattern
	}
	p := make([]int8, max(ordinal-1, 0))
	for i := range p {
		p[i] = 1
	}
	return p
}

func (c Duration) validatePosition(ordinal int) error {
	if c.RowPattern != nil && len(c.RowPattern) != ordinal-1 {
		return fmt.Errorf("%w: duration row pattern has %d elements but %d characteristics precede it",
			ErrConfig, len(c.RowPattern), ordinal-1)
	}
	return nil
}

// RateOfChange compares the relative day-over-day change of the (optionally
// moving-averaged) flow to ThresholdFactor. The first day has no predecessor
// and is always 0.
type RateOfChange struct {
	MANPeriods      int
	ThresholdFactor float64
	Op              Comparator
}

func (RateOfChange) Kind() string { return KindRateOfChange }

func (c RateOfChange) Evaluate(in *Input, _ *Matrix, _ int) []int8 {
	flows := movingAverage(in.flows, c.MANPeriods)
	out := make([]int8, len(flows))
	for i := 1; i < len(flows); i++ {
		out[i] = boolCell(c.Op.Compare(relativeChange(flows[i-1], flows[i]), c.ThresholdFactor))
	}
	return out
}

func relativeChange(prev, cur float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 1
	}
	return math.Min((cur-prev)/prev, maxRateOfChange)
}

// Frequency marks every day of a water year in which days matching
// RowPattern occurred, summed over the trailing NYears water years,
// satisfy Op(sum, NTimes).
//
// Water years are delimited by days whose day of water year is exactly 1.
// Days before the first such boundary form their own partial year, and a
// series that skips day 1 merges the years on either side of the gap. The
// last year is closed before the final day is counted, so a match on the
// final day never contributes.
type Frequency struct {
	NTimes     int
	NYears     int
	RowPattern []int8
	Op         Comparator
}

func (Frequency) Kind() string { return KindFrequency }

func (c Frequency) Evaluate(in *Input, m *Matrix, _ int) []int8 {
	rows := in.Len()
	out := make([]int8, rows)
	if rows == 0 {
		return out
	}

	var occurrences []float64
	count := 0
	for i := 0; i < rows; i++ {
		if in.dsowy[i] == 1 || i == rows-1 {
			occurrences = append(occurrences, float64(count))
			count = 0
		}
		if m.rowPrefixEquals(i, c.RowPattern) {
			count++
		}
	}
	// A final day that opens a year still needs a segment to expand into.
	if in.dsowy[rows-1] == 1 {
		occurrences = append(occurrences, 0)
	}

	passed := make([]int8, len(occurrences))
	window := max(c.NYears, 1)
	sum := 0.0
	for k, v := range occurrences {
		sum += v
		if k >= window {
			sum -= occurrences[k-window]
		}
		passed[k] = boolCell(c.Op.Compare(sum, float64(c.NTimes)))
	}

	year := 0
	for i := 0; i < rows; i++ {
		if in.dsowy[i] == 1 {
			year++
		}
		out[i] = passed[year]
	}
	return out
}

func (c Frequency) validatePosition(ordinal int) error {
	if len(c.RowPattern) != ordinal-1 {
		return fmt.Errorf("%w: frequency row pattern has %d elements but %d characteristics precede it",
			ErrConfig, len(c.RowPattern), ordinal-1)
	}
	return nil
}
