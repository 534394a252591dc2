package parser

import (
	"fmt"
	"strings"

	"github.com/MaxwellKnight/csvg/pkg/schema"
)

type Stmt interface {
	String() string
}

type CreateTable struct {
	Table       string
	Columns     []schema.Column
	ForeignKeys []schema.ForeignKey
	IfNotExists bool
}

func (stmt *CreateTable) String() string {
	var buf strings.Builder
	buf.WriteString("CREATE TABLE")
	if stmt.IfNotExists {
		buf.WriteString(" IF NOT EXISTS")
	}
	fmt.Fprintf(&buf, " %s (", stmt.Table)
	for i, col := range stmt.Columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s %s", col.Name, col.Type)
		if col.PrimaryKey {
			buf.WriteString(" PRIMARY KEY")
		}
	}
	for _, fk := range stmt.ForeignKeys {
		fmt.Fprintf(&buf, ", FOREIGN KEY (%s) REFERENCES %s", fk.Column, fk.RefTable)
		if fk.RefColumn != "" {
			fmt.Fprintf(&buf, " (%s)", fk.RefColumn)
		}
	}
	buf.WriteRune(')')
	return buf.String()
}

type AlterTable struct {
	Table       string
	ForeignKeys []schema.ForeignKey
}

func (stmt *AlterTable) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "ALTER TABLE %s", stmt.Table)
	for i, fk := range stmt.ForeignKeys {
		if i > 0 {
			buf.WriteRune(',')
		}
		fmt.Fprintf(&buf, " ADD FOREIGN KEY (%s) REFERENCES %s", fk.Column, fk.RefTable)
		if fk.RefColumn != "" {
			fmt.Fprintf(&buf, " (%s)", fk.RefColumn)
		}
	}
	return buf.String()
}

var columnTypes = map[string]schema.ColumnType{
	"bigint":    schema.IntegerType,
	"bigserial": schema.IntegerType,
	"int":       schema.IntegerType,
	"int2":      schema.IntegerType,
	"int4":      schema.IntegerType,
	"int8":      schema.IntegerType,
	"integer":   schema.IntegerType,
	"serial":    schema.IntegerType,
	"smallint":  schema.IntegerType,
	"tinyint":   schema.IntegerType,

	"decimal":          schema.FloatType,
	"double":           schema.FloatType,
	"double precision": schema.FloatType,
	"float":            schema.FloatType,
	"money":            schema.FloatType,
	"numeric":          schema.FloatType,
	"real":             schema.FloatType,

	"bool":    schema.BoolType,
	"boolean": schema.BoolType,

	"char":              schema.StringType,
	"character":         schema.StringType,
	"character varying": schema.StringType,
	"citext":            schema.StringType,
	"date":              schema.StringType,
	"datetime":          schema.StringType,
	"json":              schema.StringType,
	"jsonb":             schema.StringType,
	"text":              schema.StringType,
	"time":              schema.StringType,
	"timestamp":         schema.StringType,
	"timestamptz":       schema.StringType,
	"uuid":              schema.StringType,
	"varchar":           schema.StringType,

	"binary":    schema.BytesType,
	"blob":      schema.BytesType,
	"bytea":     schema.BytesType,
	"varbinary": schema.BytesType,
}
