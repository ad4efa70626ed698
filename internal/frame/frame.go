package frame

import (
	"fmt"
	"math"
	"sort"
)

// Frame is an in-memory table of float64 columns with a header.
// Categorical keys (gesture class, subject id) are carried as numeric codes
// in their own columns, so the whole table shares one representation.
// Missing values are NaN.
type Frame struct {
	names []string
	index map[string]int
	data  [][]float64
}

// New creates a Frame from a header and row-major data.
// Every row must have exactly one value per named column.
func New(names []string, data [][]float64) (*Frame, error) {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	for i, row := range data {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(names))
		}
	}
	return &Frame{
		names: names,
		index: index,
		data:  data,
	}, nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	return len(f.data)
}

// Cols returns the number of columns.
func (f *Frame) Cols() int {
	return len(f.names)
}

// Names returns the column names in table order.
func (f *Frame) Names() []string {
	return f.names
}

// Row returns the i-th row. The slice is shared, not a copy.
func (f *Frame) Row(i int) []float64 {
	return f.data[i]
}

// Column returns the index of the named column.
func (f *Frame) Column(name string) (int, error) {
	i, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("no column %q", name)
	}
	return i, nil
}

// Matrix extracts a copy of the given columns as a row-major matrix.
func (f *Frame) Matrix(cols []string) ([][]float64, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, err := f.Column(c)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	m := make([][]float64, len(f.data))
	for r, row := range f.data {
		m[r] = make([]float64, len(idx))
		for i, j := range idx {
			m[r][i] = row[j]
		}
	}
	return m, nil
}

// Labels extracts the named column as a label vector.
func (f *Frame) Labels(col string) ([]float64, error) {
	j, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	labels := make([]float64, len(f.data))
	for r, row := range f.data {
		labels[r] = row[j]
	}
	return labels, nil
}

// Missing counts the NaN cells across the given columns,
// or across the whole table when no columns are given.
func (f *Frame) Missing(cols ...string) (int, error) {
	if len(cols) == 0 {
		cols = f.names
	}
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, err := f.Column(c)
		if err != nil {
			return 0, err
		}
		idx[i] = j
	}
	n := 0
	for _, row := range f.data {
		for _, j := range idx {
			if math.IsNaN(row[j]) {
				n++
			}
		}
	}
	return n, nil
}

// group is a partition member: the key value and the original row positions.
type group struct {
	key  float64
	rows []int
}

// groups partitions the rows by the values of the key column,
// returned in ascending key order so iteration is deterministic.
func (f *Frame) groups(key string) ([]group, error) {
	j, err := f.Column(key)
	if err != nil {
		return nil, err
	}
	byKey := make(map[float64][]int)
	for r, row := range f.data {
		k := row[j]
		if math.IsNaN(k) {
			return nil, fmt.Errorf("row %d has a missing value in grouping column %q", r, key)
		}
		byKey[k] = append(byKey[k], r)
	}
	out := make([]group, 0, len(byKey))
	for k, rows := range byKey {
		out = append(out, group{key: k, rows: rows})
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].key < out[b].key
	})
	return out, nil
}
