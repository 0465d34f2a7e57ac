// Package table implements small immutable column oriented data table used
// as input for styling: typed series, column expressions and loaders.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when columns have different lengths.
	ErrShape = errors.New("columns have different lengths")
	// ErrDuplicateColumn is returned when column names are not unique.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrColumnNotFound is returned when referenced column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrEmptyExpr is returned when zero value expression is evaluated.
	ErrEmptyExpr = errors.New("empty expression")
)

// Table is an ordered set of equally long, uniquely named series.
type Table struct {
	columns []*Series
	index   map[string]int
	height  int
}

// New creates a table from series.
func New(series ...*Series) (*Table, error) {
	t := &Table{index: make(map[string]int, len(series))}
	for i, s := range series {
		if i == 0 {
			t.height = s.Len()
		} else if s.Len() != t.height {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrShape, s.Name(), s.Len(), t.height)
		}
		if _, ok := t.index[s.Name()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, s.Name())
		}
		t.index[s.Name()] = i
		t.columns = append(t.columns, s)
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(series ...*Series) *Table {
	t, err := New(series...)
	if err != nil {
		panic(err)
	}
	return t
}

// Height returns number of rows.
func (t *Table) Height() int { return t.height }

// Width returns number of columns.
func (t *Table) Width() int { return len(t.columns) }

// ColumnNames returns names of columns in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, s := range t.columns {
		names[i] = s.Name()
	}
	return names
}

// Index returns position of the named column.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Column returns named column.
func (t *Table) Column(name string) (*Series, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.columns[i], nil
}

// ColumnAt returns column at position i.
func (t *Table) ColumnAt(i int) *Series {
	return t.columns[i]
}

// Columns returns all columns in order.
func (t *Table) Columns() []*Series {
	return append([]*Series(nil), t.columns...)
}

// Clone returns a copy of the table. Series are immutable and shared.
func (t *Table) Clone() *Table {
	c := &Table{columns: t.Columns(), index: make(map[string]int, len(t.index)), height: t.height}
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}

// Select evaluates expression against the table. Result is always a float
// series named after the expression.
func (t *Table) Select(e Expr) (*Series, error) {
	s, err := e.evaluate(t)
	if err != nil {
		return nil, err
	}
	return s.Cast().Rename(e.Name()), nil
}
