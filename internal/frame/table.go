// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package frame implements the tabular join-and-feature pipeline: an
// immutable column-oriented Table, keyed aggregation, left-join chains with
// null filling, and labeled binning of numeric columns.
//
// Every operation returns a new Table and leaves its inputs untouched, so
// tables may be shared across goroutines once built.
package frame

import (
	"fmt"
)

// Column is a named sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Len returns the number of cells.
func (c Column) Len() int { return len(c.Values) }

// Floats returns the numeric cells of c and, per row, whether the cell was
// numeric. Null and string cells yield 0 with ok=false.
func (c Column) Floats() (vals []float64, ok []bool) {
	vals = make([]float64, len(c.Values))
	ok = make([]bool, len(c.Values))
	for i, v := range c.Values {
		vals[i], ok[i] = v.Float()
	}
	return vals, ok
}

// NumberColumn builds a numeric column.
func NumberColumn(name string, vals ...float64) Column {
	out := make([]Value, len(vals))
	for i, f := range vals {
		out[i] = Number(f)
	}
	return Column{Name: name, Values: out}
}

// StringColumn builds a string column.
func StringColumn(name string, vals ...string) Column {
	out := make([]Value, len(vals))
	for i, s := range vals {
		out[i] = String(s)
	}
	return Column{Name: name, Values: out}
}

// Table is an immutable, ordered set of equal-length columns.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. All columns must share one length and
// have distinct names.
func New(name string, columns ...Column) (*Table, error) {
	t := &Table{
		name:    name,
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("table %s: %w: %q", name, ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("table %s: %w: %q has %d rows, want %d", name, ErrShapeMismatch, c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// FromRows builds a table from a header and row-major cells. Short rows are
// padded with nulls and long rows are truncated.
func FromRows(name string, header []string, rows [][]Value) (*Table, error) {
	cols := make([]Column, len(header))
	for j, h := range header {
		cols[j] = Column{Name: h, Values: make([]Value, len(rows))}
	}
	for i, row := range rows {
		for j := range header {
			if j < len(row) {
				cols[j].Values[i] = row[j]
			}
		}
	}
	return New(name, cols...)
}

// Empty returns a zero-row table with the given column names.
func Empty(name string, columns ...string) *Table {
	cols := make([]Column, len(columns))
	for i, c := range columns {
		cols[i] = Column{Name: c, Values: []Value{}}
	}
	t, err := New(name, cols...)
	if err != nil {
		// only reachable with duplicate names, which callers control
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.columns) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, fmt.Errorf("table %s: %w: %q", t.name, ErrMissingColumn, name)
	}
	return t.columns[i], nil
}

// RequireColumns fails with ErrMissingColumn if any name is absent.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return fmt.Errorf("table %s: %w: %q", t.name, ErrMissingColumn, n)
		}
	}
	return nil
}

// Cell returns the value at row i of the named column.
func (t *Table) Cell(i int, name string) Value {
	j, ok := t.index[name]
	if !ok || i < 0 || i >= t.rows {
		return Null()
	}
	return t.columns[j].Values[i]
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Rows returns all rows in row-major order.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Select returns a table holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(t.name, cols...)
}

// WithColumn returns a table with c appended, or replacing a column of the same name.
func (t *Table) WithColumn(c Column) (*Table, error) {
	if c.Len() != t.rows && len(t.columns) > 0 {
		return nil, fmt.Errorf("table %s: %w: %q has %d rows, want %d", t.name, ErrShapeMismatch, c.Name, c.Len(), t.rows)
	}
	cols := make([]Column, len(t.columns), len(t.columns)+1)
	copy(cols, t.columns)
	if i, ok := t.index[c.Name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(t.name, cols...)
}

// Filter returns the rows for which keep returns true, in order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n >= t.rows {
		return t
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.take(idx)
}

// DropNulls removes rows where any of the named columns is not numeric.
// With no names, every column is checked for null.
func (t *Table) DropNulls(names ...string) (*Table, error) {
	if err := t.RequireColumns(names...); err != nil {
		return nil, err
	}
	return t.Filter(func(i int) bool {
		if len(names) == 0 {
			for _, c := range t.columns {
				if c.Values[i].IsNull() {
					return false
				}
			}
			return true
		}
		for _, n := range names {
			if _, ok := t.Cell(i, n).Float(); !ok {
				return false
			}
		}
		return true
	}), nil
}

// take builds a table from the given row indexes. Indexes may repeat.
func (t *Table) take(idx []int) *Table {
	cols := make([]Column, len(t.columns))
	for j, c := range t.columns {
		vals := make([]Value, len(idx))
		for k, i := range idx {
			vals[k] = c.Values[i]
		}
		cols[j] = Column{Name: c.Name, Values: vals}
	}
	out, _ := New(t.name, cols...) //nolint:errcheck // shape and names are inherited
	return out
}
