package schema

import (
	"fmt"
	"strings"
)

type ColumnType int

const (
	UnknownType ColumnType = iota
	BoolType
	IntegerType
	FloatType
	StringType
	BytesType
)

func (ct ColumnType) String() string {
	switch ct {
	case UnknownType:
		return "UNKNOWN"
	case BoolType:
		return "BOOL"
	case IntegerType:
		return "INT"
	case FloatType:
		return "DOUBLE"
	case StringType:
		return "TEXT"
	case BytesType:
		return "BYTES"
	default:
		panic(fmt.Sprintf("unexpected column type: %d", ct))
	}
}

// Comparable reports whether values of the two declared types may be
// compared for equality after normalization. Unknown is comparable with
// everything: a declaration the parser did not recognize must not block a
// join that string comparison can decide.
func (ct ColumnType) Comparable(oct ColumnType) bool {
	if ct == UnknownType || oct == UnknownType || ct == oct {
		return true
	}
	if ct == IntegerType && oct == FloatType {
		return true
	}
	if ct == FloatType && oct == IntegerType {
		return true
	}
	return false
}

type Column struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	PrimaryKey bool       `json:"primary_key"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

func (tbl Table) Column(nam string) (Column, bool) {
	for _, col := range tbl.Columns {
		if col.Name == nam {
			return col, true
		}
	}
	return Column{}, false
}

func (tbl Table) PrimaryKey() (Column, bool) {
	for _, col := range tbl.Columns {
		if col.PrimaryKey {
			return col, true
		}
	}
	return Column{}, false
}

func (tbl Table) ColumnNames() []string {
	nams := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		nams = append(nams, col.Name)
	}
	return nams
}

func (tbl Table) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s (", tbl.Name)
	for i, col := range tbl.Columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s %s", col.Name, col.Type)
		if col.PrimaryKey {
			buf.WriteString(" PRIMARY KEY")
		}
	}
	buf.WriteRune(')')
	return buf.String()
}

// ForeignKey is a raw declaration as parsed: a column of Table references
// RefColumn of RefTable. RefColumn may be empty when the declaration
// omitted it; the graph builder resolves it to the referenced table's
// primary key.
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

func (fk ForeignKey) String() string {
	if fk.RefColumn == "" {
		return fmt.Sprintf("%s.%s -> %s", fk.Table, fk.Column, fk.RefTable)
	}
	return fmt.Sprintf("%s.%s -> %s.%s", fk.Table, fk.Column, fk.RefTable, fk.RefColumn)
}
