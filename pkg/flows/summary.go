package flows

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/functionalflows/pkg/waterday"
)

// Summary condenses the score column of an Output.
type Summary struct {
	Component string `json:"component"`
	Label     string `json:"label"`
	Days      int    `json:"days"`
	Matched   int    `json:"matched"`
	// Fraction is Matched/Days, or 0 for an empty series.
	Fraction float64 `json:"fraction"`
	// ByWaterYear counts matched days per water-year label.
	ByWaterYear map[int]int `json:"by_water_year"`
}

// Summarize counts the days on which the component's score column is 1,
// overall and per water year.
func Summarize(in *Input, o *Output) (Summary, error) {
	if o.Rows() != in.Len() {
		return Summary{}, fmt.Errorf("output for %s has %d rows but input has %d", o.ComponentName, o.Rows(), in.Len())
	}

	score := o.ScoreColumn()
	values := make([]float64, len(score))
	byYear := make(map[int]int)
	for i, v := range score {
		values[i] = float64(v)
		if v == 1 {
			wy, err := waterday.WaterYear(in.dates[i], in.startOfWaterYear)
			if err != nil {
				return Summary{}, err
			}
			byYear[wy]++
		}
	}

	s := Summary{
		Component:   o.ComponentName,
		Label:       o.CharacteristicNames[len(o.CharacteristicNames)-1],
		Days:        len(score),
		Matched:     int(floats.Sum(values)),
		ByWaterYear: byYear,
	}
	if s.Days > 0 {
		s.Fraction = float64(s.Matched) / float64(s.Days)
	}
	return s, nil
}
