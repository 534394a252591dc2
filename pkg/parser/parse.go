package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/MaxwellKnight/csvg/pkg/schema"
)

// Schema is the relationship-relevant content of a schema file: the
// declared tables, the foreign keys between them, and warnings for
// whatever could not be understood. A warning never aborts parsing; one
// bad statement costs only itself.
type Schema struct {
	Tables      []schema.Table
	ForeignKeys []schema.ForeignKey
	Warnings    []string
}

func (sch *Schema) Table(nam string) (schema.Table, bool) {
	for _, tbl := range sch.Tables {
		if tbl.Name == nam {
			return tbl, true
		}
	}
	return schema.Table{}, false
}

// ParseSchema parses schema source text. It fails only when the input
// contains no recognizable table declaration at all.
func ParseSchema(rr io.RuneReader, fn string) (*Schema, error) {
	p := NewParser(rr, fn)

	var sch Schema
	declared := map[string]bool{}
	for {
		stmt, err := p.Parse()
		if err == io.EOF {
			break
		} else if err != nil {
			sch.Warnings = append(sch.Warnings, fmt.Sprintf("%s (statement skipped)", err))
			continue
		}

		switch stmt := stmt.(type) {
		case *CreateTable:
			if declared[stmt.Table] {
				sch.Warnings = append(sch.Warnings,
					fmt.Sprintf("parser: %s: duplicate declaration of table %s (first kept)",
						fn, stmt.Table))
				continue
			}
			declared[stmt.Table] = true
			sch.Tables = append(sch.Tables, schema.Table{Name: stmt.Table, Columns: stmt.Columns})
			sch.ForeignKeys = append(sch.ForeignKeys, stmt.ForeignKeys...)
		case *AlterTable:
			sch.ForeignKeys = append(sch.ForeignKeys, stmt.ForeignKeys...)
		default:
			panic(fmt.Sprintf("unexpected statement: %#v", stmt))
		}
	}

	if len(sch.Tables) == 0 {
		return nil, fmt.Errorf("parser: %s: no table declarations found", fn)
	}

	sch.resolveForeignKeys(fn)
	return &sch, nil
}

// ParseSchemaText is ParseSchema over in-memory schema source.
func ParseSchemaText(text string, fn string) (*Schema, error) {
	return ParseSchema(strings.NewReader(text), fn)
}

// resolveForeignKeys fills in referenced columns that declarations left
// out: REFERENCES t means the primary key of t. Declarations that cannot
// be resolved are dropped with a warning.
func (sch *Schema) resolveForeignKeys(fn string) {
	fks := sch.ForeignKeys[:0]
	for _, fk := range sch.ForeignKeys {
		if fk.RefColumn == "" {
			tbl, found := sch.Table(fk.RefTable)
			if !found {
				// The graph builder reports dangling references; keep the
				// declaration so it is counted there.
				fks = append(fks, fk)
				continue
			}
			pk, found := tbl.PrimaryKey()
			if !found {
				sch.Warnings = append(sch.Warnings,
					fmt.Sprintf("parser: %s: foreign key %s: table %s has no primary key",
						fn, fk, fk.RefTable))
				continue
			}
			fk.RefColumn = pk.Name
		}
		fks = append(fks, fk)
	}
	sch.ForeignKeys = fks
}
