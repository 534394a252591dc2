// Package join executes a multi-table inner join along a computed path of
// foreign key relationships, one hash join per hop. Each hop consumes the
// previous hop's result, so execution is strictly sequential.
package join

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MaxwellKnight/csvg/pkg/dataframe"
	"github.com/MaxwellKnight/csvg/pkg/graph"
	"github.com/MaxwellKnight/csvg/pkg/schema"
)

// Loader fetches the CSV data backing a table. The executor owns nothing
// about where CSV files live.
type Loader func(table string) (*dataframe.Frame, error)

// TypeMismatchError reports a hop whose join columns have declared types
// that no normalization can compare.
type TypeMismatchError struct {
	LeftTable   string
	LeftColumn  string
	LeftType    schema.ColumnType
	RightTable  string
	RightColumn string
	RightType   schema.ColumnType
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf("join: type mismatch: %s.%s is %s but %s.%s is %s",
		err.LeftTable, err.LeftColumn, err.LeftType,
		err.RightTable, err.RightColumn, err.RightType)
}

type Executor struct {
	Graph *graph.Graph
	Load  Loader
	Info  func(msg string) // optional progress output
}

func (ex *Executor) info(format string, args ...interface{}) {
	if ex.Info != nil {
		ex.Info(fmt.Sprintf(format, args...))
	}
}

// Run joins src with every table along path, in order, and returns the
// merged frame. Every output column is qualified as table.column, so no
// two output columns collide whatever the per-table column names are.
func (ex *Executor) Run(src string, path graph.Path) (*dataframe.Frame, error) {
	f, err := ex.load(src)
	if err != nil {
		return nil, err
	}

	cur := src
	for _, st := range path {
		if st.FromTable() != cur {
			return nil, fmt.Errorf("join: step %s does not start at %s", st.Edge, cur)
		}

		key, err := ex.hopKey(st)
		if err != nil {
			return nil, err
		}

		next, err := ex.load(st.ToTable())
		if err != nil {
			return nil, err
		}

		ex.info("joining %s and %s on (%s, %s)", cur, st.ToTable(), st.FromColumn(),
			st.ToColumn())
		f, err = dataframe.Join(f, next,
			st.FromTable()+"."+st.FromColumn(), st.ToTable()+"."+st.ToColumn(),
			dataframe.InnerJoin, key)
		if err != nil {
			return nil, err
		}
		ex.info("rows after join: %d", len(f.Rows))

		cur = st.ToTable()
	}
	return f, nil
}

func (ex *Executor) load(tbl string) (*dataframe.Frame, error) {
	f, err := ex.Load(tbl)
	if err != nil {
		return nil, err
	}
	return f.Qualify(), nil
}

// hopKey checks the declared types of the hop's join columns and picks
// the normalization both sides go through before equality.
func (ex *Executor) hopKey(st graph.Step) (dataframe.KeyFunc, error) {
	lt := ex.columnType(st.FromTable(), st.FromColumn())
	rt := ex.columnType(st.ToTable(), st.ToColumn())

	if !lt.Comparable(rt) {
		return nil, &TypeMismatchError{
			LeftTable:   st.FromTable(),
			LeftColumn:  st.FromColumn(),
			LeftType:    lt,
			RightTable:  st.ToTable(),
			RightColumn: st.ToColumn(),
			RightType:   rt,
		}
	}
	return normalizeKey(lt, rt), nil
}

func (ex *Executor) columnType(tbl, col string) schema.ColumnType {
	t, found := ex.Graph.Table(tbl)
	if !found {
		return schema.UnknownType
	}
	c, found := t.Column(col)
	if !found {
		return schema.UnknownType
	}
	return c.Type
}

// normalizeKey normalizes join keys by declared type, so 007 and 7 join
// as integers and True and true join as booleans. A value that does not
// parse under its declared type falls back to exact string comparison
// instead of failing the hop.
func normalizeKey(lt, rt schema.ColumnType) dataframe.KeyFunc {
	numeric := lt == schema.IntegerType || lt == schema.FloatType ||
		rt == schema.IntegerType || rt == schema.FloatType
	boolean := lt == schema.BoolType || rt == schema.BoolType

	return func(v dataframe.Value) (string, bool) {
		s := strings.TrimSpace(v.S)
		if numeric {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return strconv.FormatInt(i, 10), true
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return strconv.FormatFloat(f, 'g', -1, 64), true
			}
		} else if boolean {
			return strings.ToLower(s), true
		}
		return s, true
	}
}
