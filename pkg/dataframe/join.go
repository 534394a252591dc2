package dataframe

import (
	"fmt"
	"strings"
)

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullJoin
)

func (jk JoinKind) String() string {
	switch jk {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case FullJoin:
		return "full"
	default:
		panic(fmt.Sprintf("unexpected join kind: %d", jk))
	}
}

func ParseJoinKind(s string) (JoinKind, error) {
	switch strings.ToLower(s) {
	case "inner":
		return InnerJoin, nil
	case "left":
		return LeftJoin, nil
	case "right":
		return RightJoin, nil
	case "full":
		return FullJoin, nil
	}
	return 0, fmt.Errorf("dataframe: unknown join kind: %s", s)
}

// KeyFunc maps a join column value to its lookup key. ok is false when
// the value takes no part in matching; nulls never match, whatever the
// key function does otherwise.
type KeyFunc func(v Value) (key string, ok bool)

// TrimKey is the default key: the value itself with surrounding space
// removed.
func TrimKey(v Value) (string, bool) {
	return strings.TrimSpace(v.S), true
}

// Join hash joins two frames on one column pair. The result has all of
// the left columns followed by all of the right columns, which therefore
// must not overlap (qualify frames first when they might). For an inner
// join the lookup is built on the smaller frame and the larger frame is
// scanned; rows keep the scanned side's order.
func Join(left, right *Frame, leftCol, rightCol string, kind JoinKind, key KeyFunc) (*Frame,
	error) {

	if key == nil {
		key = TrimKey
	}

	ldx, found := left.ColumnNum(leftCol)
	if !found {
		return nil, fmt.Errorf("dataframe: %s: no column %s", left.Name, leftCol)
	}
	rdx, found := right.ColumnNum(rightCol)
	if !found {
		return nil, fmt.Errorf("dataframe: %s: no column %s", right.Name, rightCol)
	}

	nf, err := New(left.Name, append(append([]string{}, left.Columns...), right.Columns...))
	if err != nil {
		return nil, fmt.Errorf("dataframe: join %s with %s: %w", left.Name, right.Name, err)
	}

	if kind == InnerJoin && len(left.Rows) < len(right.Rows) {
		// Build on the smaller side, probe with the larger.
		lookup := buildLookup(left.Rows, ldx, key)
		for _, rrow := range right.Rows {
			for _, lnum := range probeLookup(lookup, rrow[rdx], key) {
				nf.Rows = append(nf.Rows, joinRows(left.Rows[lnum], rrow))
			}
		}
		return nf, nil
	}

	lookup := buildLookup(right.Rows, rdx, key)
	matched := map[int]bool{}
	for _, lrow := range left.Rows {
		rnums := probeLookup(lookup, lrow[ldx], key)
		if len(rnums) == 0 {
			if kind == LeftJoin || kind == FullJoin {
				nf.Rows = append(nf.Rows, joinRows(lrow, nullRow(len(right.Columns))))
			}
			continue
		}
		for _, rnum := range rnums {
			matched[rnum] = true
			nf.Rows = append(nf.Rows, joinRows(lrow, right.Rows[rnum]))
		}
	}

	if kind == RightJoin || kind == FullJoin {
		for rnum, rrow := range right.Rows {
			if !matched[rnum] {
				nf.Rows = append(nf.Rows, joinRows(nullRow(len(left.Columns)), rrow))
			}
		}
	}
	return nf, nil
}

func buildLookup(rows [][]Value, cdx int, key KeyFunc) map[string][]int {
	lookup := map[string][]int{}
	for num, row := range rows {
		if row[cdx].Null {
			continue
		}
		if k, ok := key(row[cdx]); ok {
			lookup[k] = append(lookup[k], num)
		}
	}
	return lookup
}

func probeLookup(lookup map[string][]int, v Value, key KeyFunc) []int {
	if v.Null {
		return nil
	}
	k, ok := key(v)
	if !ok {
		return nil
	}
	return lookup[k]
}

func joinRows(lrow, rrow []Value) []Value {
	row := make([]Value, 0, len(lrow)+len(rrow))
	row = append(row, lrow...)
	return append(row, rrow...)
}

func nullRow(n int) []Value {
	row := make([]Value, n)
	for cdx := range row {
		row[cdx] = NullValue()
	}
	return row
}
