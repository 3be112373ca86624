package flows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// dailyInput builds an Input of consecutive days beginning at first.
func dailyInput(t *testing.T, first time.Time, flows []float64, start int) *Input {
	t.Helper()
	dates := make([]time.Time, len(flows))
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i)
	}
	in, err := NewInput(dates, flows, start)
	require.NoError(t, err)
	return in
}

// zeros returns n zero flows.
func zeros(n int) []float64 { return make([]float64, n) }

// matrixWithColumn returns a rows x cols matrix whose first column is col.
func matrixWithColumn(col []int8, cols int) *Matrix {
	m := NewMatrix(len(col), cols)
	m.SetCol(0, col)
	return m
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
