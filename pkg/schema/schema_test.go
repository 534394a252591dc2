package schema

import (
	"testing"
)

func TestComparable(t *testing.T) {
	cases := []struct {
		ct, oct    ColumnType
		comparable bool
	}{
		{IntegerType, IntegerType, true},
		{IntegerType, FloatType, true},
		{FloatType, IntegerType, true},
		{UnknownType, BoolType, true},
		{BytesType, UnknownType, true},
		{IntegerType, BoolType, false},
		{StringType, IntegerType, false},
		{BoolType, StringType, false},
	}

	for _, c := range cases {
		if c.ct.Comparable(c.oct) != c.comparable {
			t.Errorf("Comparable(%s, %s) got %v want %v", c.ct, c.oct, !c.comparable,
				c.comparable)
		}
		if c.ct.Comparable(c.oct) != c.oct.Comparable(c.ct) {
			t.Errorf("Comparable(%s, %s) is not symmetric", c.ct, c.oct)
		}
	}
}

func TestTable(t *testing.T) {
	tbl := Table{
		Name: "orders",
		Columns: []Column{
			{Name: "id", Type: IntegerType, PrimaryKey: true},
			{Name: "customer_id", Type: IntegerType},
			{Name: "total", Type: FloatType},
		},
	}

	col, found := tbl.Column("total")
	if !found || col.Type != FloatType {
		t.Errorf("Column(total) got %v %v", col, found)
	}
	if _, found = tbl.Column("no_such"); found {
		t.Error("Column(no_such) found")
	}

	pk, found := tbl.PrimaryKey()
	if !found || pk.Name != "id" {
		t.Errorf("PrimaryKey got %v %v", pk, found)
	}

	s := tbl.String()
	if s != "orders (id INT PRIMARY KEY, customer_id INT, total DOUBLE)" {
		t.Errorf("String got %q", s)
	}
}

func TestForeignKeyString(t *testing.T) {
	fk := ForeignKey{Table: "orders", Column: "customer_id", RefTable: "customers",
		RefColumn: "id"}
	if fk.String() != "orders.customer_id -> customers.id" {
		t.Errorf("String got %q", fk)
	}

	fk.RefColumn = ""
	if fk.String() != "orders.customer_id -> customers" {
		t.Errorf("String got %q", fk)
	}
}
