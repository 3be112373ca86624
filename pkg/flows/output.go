package flows

// Output is the result of evaluating one Component: the characteristic
// names followed by the score column name, and the filled matrix.
type Output struct {
	ComponentName       string
	CharacteristicNames []string
	Data                *Matrix
}

// Columns returns the qualified column names, "<component>_<name>".
func (o *Output) Columns() []string {
	cols := make([]string, len(o.CharacteristicNames))
	for i, n := range o.CharacteristicNames {
		cols[i] = o.ComponentName + "_" + n
	}
	return cols
}

// Rows is the number of time steps in the output.
func (o *Output) Rows() int {
	rows, _ := o.Data.Dims()
	return rows
}

// ScoreColumn returns a copy of the trailing success/failure column.
func (o *Output) ScoreColumn() []int8 {
	_, cols := o.Data.Dims()
	return o.Data.Col(cols - 1)
}
