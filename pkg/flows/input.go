package flows

import (
	"fmt"
	"time"

	"github.com/chrissnell/functionalflows/pkg/waterday"
)

// Input holds an aligned daily series of dates and flows together with the
// derived day-of-water-year index. It is immutable once constructed.
type Input struct {
	dates            []time.Time
	flows            []float64
	startOfWaterYear int
	dsowy            []int
}

// NewInput copies dates and flows and computes the day of water year for
// every date. Dates are expected in ascending order; they are not sorted.
func NewInput(dates []time.Time, flows []float64, startOfWaterYear int) (*Input, error) {
	if len(dates) != len(flows) {
		return nil, fmt.Errorf("%w: %d dates but %d flows", ErrData, len(dates), len(flows))
	}
	dsowy, err := waterday.Series(dates, startOfWaterYear)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	in := &Input{
		dates:            make([]time.Time, len(dates)),
		flows:            make([]float64, len(flows)),
		startOfWaterYear: startOfWaterYear,
		dsowy:            dsowy,
	}
	copy(in.dates, dates)
	copy(in.flows, flows)
	return in, nil
}

// Len is the number of time steps.
func (in *Input) Len() int { return len(in.flows) }

// Dates returns the date column. Callers must not modify it.
func (in *Input) Dates() []time.Time { return in.dates }

// Flows returns the flow column. Callers must not modify it.
func (in *Input) Flows() []float64 { return in.flows }

// DSOWY returns the day-of-water-year column. Callers must not modify it.
func (in *Input) DSOWY() []int { return in.dsowy }

// StartOfWaterYear is the configured first day of the water year.
func (in *Input) StartOfWaterYear() int { return in.startOfWaterYear }
