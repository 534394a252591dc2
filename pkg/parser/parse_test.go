package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/MaxwellKnight/csvg/pkg/schema"
)

const ordersSchema = `
CREATE TABLE customers (
	id INT PRIMARY KEY,
	name TEXT,
	email TEXT
);

CREATE TABLE orders (
	id INT PRIMARY KEY,
	customer_id INT REFERENCES customers (id),
	placed_at TIMESTAMP
);

CREATE TABLE items (
	id INT PRIMARY KEY,
	order_id INT,
	sku TEXT,
	FOREIGN KEY (order_id) REFERENCES orders (id)
);
`

func TestParseSchema(t *testing.T) {
	sch, err := ParseSchemaText(ordersSchema, "orders.sql")
	if err != nil {
		t.Fatalf("ParseSchemaText failed: %s", err)
	}
	if len(sch.Warnings) > 0 {
		t.Errorf("ParseSchemaText warnings: %v", sch.Warnings)
	}

	var tables []string
	for _, tbl := range sch.Tables {
		tables = append(tables, tbl.Name)
	}
	if !reflect.DeepEqual(tables, []string{"customers", "orders", "items"}) {
		t.Errorf("ParseSchemaText tables got %v", tables)
	}

	wantFKs := []schema.ForeignKey{
		{Table: "orders", Column: "customer_id", RefTable: "customers", RefColumn: "id"},
		{Table: "items", Column: "order_id", RefTable: "orders", RefColumn: "id"},
	}
	if !reflect.DeepEqual(sch.ForeignKeys, wantFKs) {
		t.Errorf("ParseSchemaText foreign keys got %v want %v", sch.ForeignKeys, wantFKs)
	}

	tbl, found := sch.Table("orders")
	if !found {
		t.Fatal("Table(orders) not found")
	}
	if pk, found := tbl.PrimaryKey(); !found || pk.Name != "id" {
		t.Errorf("PrimaryKey(orders) got %v %v", pk, found)
	}
}

func TestParseSchemaWarnings(t *testing.T) {
	s := `
create table broken (id int references);
create table customers (id int primary key);
create table customers (id int primary key, name text);
insert into customers values (1);
`
	sch, err := ParseSchemaText(s, "dup.sql")
	if err != nil {
		t.Fatalf("ParseSchemaText failed: %s", err)
	}

	if len(sch.Tables) != 1 || len(sch.Tables[0].Columns) != 1 {
		t.Errorf("ParseSchemaText tables got %v; want only the first customers", sch.Tables)
	}
	if len(sch.Warnings) != 2 {
		t.Errorf("ParseSchemaText warnings got %v want 2", sch.Warnings)
	}
	for _, w := range sch.Warnings {
		if !strings.Contains(w, "statement skipped") && !strings.Contains(w, "duplicate declaration") {
			t.Errorf("unexpected warning: %s", w)
		}
	}
}

func TestParseSchemaResolvesPrimaryKey(t *testing.T) {
	s := `
create table customers (id int primary key, name text);
create table logs (at timestamp, msg text);
create table orders (
	id int primary key,
	customer_id int references customers,
	log_at timestamp references logs,
	region_id int references regions
);
`
	sch, err := ParseSchemaText(s, "resolve.sql")
	if err != nil {
		t.Fatalf("ParseSchemaText failed: %s", err)
	}

	wantFKs := []schema.ForeignKey{
		// customers resolved to its primary key; logs has none and is
		// dropped with a warning; regions is unknown and kept for the
		// graph builder to report.
		{Table: "orders", Column: "customer_id", RefTable: "customers", RefColumn: "id"},
		{Table: "orders", Column: "region_id", RefTable: "regions"},
	}
	if !reflect.DeepEqual(sch.ForeignKeys, wantFKs) {
		t.Errorf("ParseSchemaText foreign keys got %v want %v", sch.ForeignKeys, wantFKs)
	}
	if len(sch.Warnings) != 1 || !strings.Contains(sch.Warnings[0], "no primary key") {
		t.Errorf("ParseSchemaText warnings got %v", sch.Warnings)
	}
}

func TestParseSchemaEmpty(t *testing.T) {
	for _, s := range []string{"", "insert into t values (1);", "-- only a comment"} {
		if _, err := ParseSchemaText(s, "empty.sql"); err == nil {
			t.Errorf("ParseSchemaText(%q) did not fail", s)
		}
	}
}
