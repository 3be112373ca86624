package flows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	// Sep 29 and 30 fall in water year 2022, Oct 1 onward in 2023.
	in := dailyInput(t, day(2022, time.September, 29), []float64{5, 0, 5, 5}, 274)
	c, err := NewComponent("wet", []NamedCharacteristic{
		{Name: KindMagnitude, Characteristic: Magnitude{MANPeriods: 1, Threshold: 1, Op: Greater}},
	}, NewScoringCriteria([]PatternElement{One}, true))
	require.NoError(t, err)

	s, err := Summarize(in, c.Evaluate(in))
	require.NoError(t, err)
	assert.Equal(t, "wet", s.Component)
	assert.Equal(t, "success", s.Label)
	assert.Equal(t, 4, s.Days)
	assert.Equal(t, 3, s.Matched)
	assert.InDelta(t, 0.75, s.Fraction, 1e-12)
	assert.Equal(t, map[int]int{2022: 1, 2023: 2}, s.ByWaterYear)
}

func TestConvertFlows(t *testing.T) {
	got, err := ConvertFlows([]float64{86_400_000, 0}, LitersPerDay)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0}, got, 1e-12)

	got, err = ConvertFlows([]float64{3}, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, got)

	_, err = ConvertFlows([]float64{3}, "cfs")
	assert.ErrorIs(t, err, ErrConfig)
}
