package flows

import "fmt"

const (
	secondsPerDay   = 24 * 60 * 60
	litersPerCubicM = 1000
)

// LitersToCubicMeters converts a volume in liters to cubic meters.
func LitersToCubicMeters(liters float64) float64 {
	return liters / litersPerCubicM
}

// LitersPerDayToCubicMetersPerSecond converts a discharge in L/day to m³/s.
func LitersPerDayToCubicMetersPerSecond(lpd float64) float64 {
	return LitersToCubicMeters(lpd) / secondsPerDay
}

// FlowUnits names a discharge unit accepted for input series.
type FlowUnits string

const (
	CubicMetersPerSecond FlowUnits = "cms"
	LitersPerDay         FlowUnits = "lpd"
)

// ConvertFlows returns a copy of flows converted from units to m³/s.
// Unknown units are rejected with ErrConfig.
func ConvertFlows(flows []float64, units FlowUnits) ([]float64, error) {
	out := make([]float64, len(flows))
	switch units {
	case "", CubicMetersPerSecond:
		copy(out, flows)
	case LitersPerDay:
		for i, f := range flows {
			out[i] = LitersPerDayToCubicMetersPerSecond(f)
		}
	default:
		return nil, fmt.Errorf("%w: unknown flow units %q (use cms or lpd)", ErrConfig, units)
	}
	return out, nil
}
