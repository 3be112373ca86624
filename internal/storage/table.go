package storage

import (
	"fmt"
	"strconv"

	"github.com/chrissnell/functionalflows/pkg/flows"
)

// DateLayout formats dates in every sink.
const DateLayout = "2006-01-02"

// Leading columns taken from the input series.
const (
	ColumnDate           = "date"
	ColumnFlow           = "flow"
	ColumnDayOfWaterYear = "day_of_water_year"
)

// Table joins an Input with component outputs by row position.
type Table struct {
	Input   *flows.Input
	Outputs []*flows.Output
}

// NewTable checks that every output has one row per time step.
func NewTable(in *flows.Input, outputs []*flows.Output) (*Table, error) {
	for _, o := range outputs {
		if o.Rows() != in.Len() {
			return nil, fmt.Errorf("component %s has %d rows but the input has %d", o.ComponentName, o.Rows(), in.Len())
		}
	}
	return &Table{Input: in, Outputs: outputs}, nil
}

// Rows is the number of time steps.
func (t *Table) Rows() int { return t.Input.Len() }

// Header returns every column name in order.
func (t *Table) Header() []string {
	header := []string{ColumnDate, ColumnFlow, ColumnDayOfWaterYear}
	for _, o := range t.Outputs {
		header = append(header, o.Columns()...)
	}
	return header
}

// Record formats row i as strings, matching Header.
func (t *Table) Record(i int) []string {
	rec := []string{
		t.Input.Dates()[i].Format(DateLayout),
		strconv.FormatFloat(t.Input.Flows()[i], 'g', -1, 64),
		strconv.Itoa(t.Input.DSOWY()[i]),
	}
	for _, o := range t.Outputs {
		for _, v := range o.Data.Row(i) {
			rec = append(rec, strconv.Itoa(int(v)))
		}
	}
	return rec
}

// Document is the column-oriented form of a Table used by the JSON and
// MessagePack encodings.
type Document struct {
	StartOfWaterYear int               `json:"start_of_water_year"`
	Dates            []string          `json:"dates"`
	Flows            []float64         `json:"flows"`
	DayOfWaterYear   []int             `json:"day_of_water_year"`
	Components       []ComponentResult `json:"components"`
	Summaries        []flows.Summary   `json:"summaries,omitempty"`
}

// ComponentResult holds one component's output columns.
type ComponentResult struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Values  [][]int8 `json:"values"`
}

// Document converts the table. Summaries are included when withSummaries
// is set.
func (t *Table) Document(withSummaries bool) (*Document, error) {
	doc := &Document{
		StartOfWaterYear: t.Input.StartOfWaterYear(),
		Dates:            make([]string, t.Rows()),
		Flows:            t.Input.Flows(),
		DayOfWaterYear:   t.Input.DSOWY(),
		Components:       make([]ComponentResult, 0, len(t.Outputs)),
	}
	for i, d := range t.Input.Dates() {
		doc.Dates[i] = d.Format(DateLayout)
	}

	for _, o := range t.Outputs {
		cols := o.Columns()
		values := make([][]int8, len(cols))
		for j := range cols {
			values[j] = o.Data.Col(j)
		}
		doc.Components = append(doc.Components, ComponentResult{Name: o.ComponentName, Columns: cols, Values: values})

		if withSummaries {
			s, err := flows.Summarize(t.Input, o)
			if err != nil {
				return nil, err
			}
			doc.Summaries = append(doc.Summaries, s)
		}
	}
	return doc, nil
}
