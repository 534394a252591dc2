// Package dataframe is the in-memory tabular representation shared by the
// join executor and the csv commands: ordered columns, ordered rows,
// nullable string cells.
package dataframe

import (
	"fmt"
	"strings"
)

// Value is one cell. CSV has no null literal; an empty field loads as
// null and a null writes back as an empty field.
type Value struct {
	Null bool
	S    string
}

func StringValue(s string) Value {
	return Value{S: s}
}

func NullValue() Value {
	return Value{Null: true}
}

func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	return v.S
}

type Frame struct {
	Name    string
	Columns []string
	Rows    [][]Value
}

// New creates an empty frame; column names must be unique.
func New(nam string, cols []string) (*Frame, error) {
	seen := map[string]bool{}
	for _, col := range cols {
		if seen[col] {
			return nil, fmt.Errorf("dataframe: %s: duplicate column %s", nam, col)
		}
		seen[col] = true
	}
	return &Frame{Name: nam, Columns: cols}, nil
}

func (f *Frame) ColumnNum(col string) (int, bool) {
	for cdx, nam := range f.Columns {
		if nam == col {
			return cdx, true
		}
	}
	return 0, false
}

func (f *Frame) Append(row []Value) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("dataframe: %s: row has %d values, frame has %d columns", f.Name,
			len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// Qualify returns a frame with every column renamed to table.column using
// the frame's own name, so frames from different tables can be joined
// without column name collisions.
func (f *Frame) Qualify() *Frame {
	cols := make([]string, 0, len(f.Columns))
	for _, col := range f.Columns {
		if strings.ContainsRune(col, '.') {
			cols = append(cols, col)
		} else {
			cols = append(cols, f.Name+"."+col)
		}
	}
	return &Frame{Name: f.Name, Columns: cols, Rows: f.Rows}
}

func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	} else if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return &Frame{Name: f.Name, Columns: f.Columns, Rows: f.Rows[:n]}
}

func (f *Frame) Tail(n int) *Frame {
	if n < 0 {
		n = 0
	} else if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return &Frame{Name: f.Name, Columns: f.Columns, Rows: f.Rows[len(f.Rows)-n:]}
}

// Select keeps only the named columns, in the order given.
func (f *Frame) Select(cols []string) (*Frame, error) {
	nums := make([]int, 0, len(cols))
	for _, col := range cols {
		cdx, found := f.ColumnNum(col)
		if !found {
			return nil, fmt.Errorf("dataframe: %s: no column %s", f.Name, col)
		}
		nums = append(nums, cdx)
	}

	nf, err := New(f.Name, cols)
	if err != nil {
		return nil, err
	}
	for _, row := range f.Rows {
		nrow := make([]Value, 0, len(nums))
		for _, cdx := range nums {
			nrow = append(nrow, row[cdx])
		}
		nf.Rows = append(nf.Rows, nrow)
	}
	return nf, nil
}

// Drop removes the named columns, keeping the order of the rest.
func (f *Frame) Drop(cols []string) (*Frame, error) {
	drop := map[string]bool{}
	for _, col := range cols {
		if _, found := f.ColumnNum(col); !found {
			return nil, fmt.Errorf("dataframe: %s: no column %s", f.Name, col)
		}
		drop[col] = true
	}

	var keep []string
	for _, col := range f.Columns {
		if !drop[col] {
			keep = append(keep, col)
		}
	}
	return f.Select(keep)
}

// Concat appends the rows of each frame in turn. Frames must have the
// same number of columns; the first frame's header wins.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("dataframe: nothing to concatenate")
	}

	nf := &Frame{Name: frames[0].Name, Columns: frames[0].Columns}
	for _, f := range frames {
		if len(f.Columns) != len(nf.Columns) {
			return nil, fmt.Errorf("dataframe: %s has %d columns, %s has %d", nf.Name,
				len(nf.Columns), f.Name, len(f.Columns))
		}
		nf.Rows = append(nf.Rows, f.Rows...)
	}
	return nf, nil
}
