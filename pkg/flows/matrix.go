package flows

// Matrix is a dense row-major grid of 0/1 cells. A Component allocates one
// per evaluation and threads it through every characteristic so that later
// characteristics can read the columns already written.
type Matrix struct {
	rows, cols int
	data       []int8
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]int8, rows*cols)}
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

// At returns the cell at row i, column j.
func (m *Matrix) At(i, j int) int8 { return m.data[i*m.cols+j] }

// Set writes v into row i, column j.
func (m *Matrix) Set(i, j int, v int8) { m.data[i*m.cols+j] = v }

// Row returns a view of row i. Writes through the view modify the matrix.
func (m *Matrix) Row(i int) []int8 { return m.data[i*m.cols : (i+1)*m.cols] }

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []int8 {
	out := make([]int8, m.rows)
	for i := range out {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// SetCol writes v into column j. len(v) must equal the row count.
func (m *Matrix) SetCol(j int, v []int8) {
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+j] = v[i]
	}
}

// rowPrefixEquals reports whether the first len(pattern) cells of row i
// equal pattern.
func (m *Matrix) rowPrefixEquals(i int, pattern []int8) bool {
	if len(pattern) > m.cols {
		return false
	}
	row := m.Row(i)
	for k, v := range pattern {
		if row[k] != v {
			return false
		}
	}
	return true
}

func boolCell(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
