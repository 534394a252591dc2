package graph

import (
	"reflect"
	"testing"

	"github.com/MaxwellKnight/csvg/pkg/schema"
)

func testTable(nam string, cols ...string) schema.Table {
	tbl := schema.Table{Name: nam}
	for _, col := range cols {
		tbl.Columns = append(tbl.Columns, schema.Column{Name: col, Type: schema.StringType})
	}
	return tbl
}

func orderTables() []schema.Table {
	return []schema.Table{
		testTable("customers", "id", "name"),
		testTable("orders", "id", "customer_id"),
		testTable("items", "id", "order_id"),
	}
}

func orderFKs() []schema.ForeignKey {
	return []schema.ForeignKey{
		{Table: "orders", Column: "customer_id", RefTable: "customers", RefColumn: "id"},
		{Table: "items", Column: "order_id", RefTable: "orders", RefColumn: "id"},
	}
}

func TestBuild(t *testing.T) {
	g, warnings := Build(orderTables(), orderFKs(), nil)
	if len(warnings) > 0 {
		t.Errorf("Build warnings: %v", warnings)
	}
	if g.NumTables() != 3 || g.NumEdges() != 2 {
		t.Errorf("Build got %d tables, %d edges; want 3, 2", g.NumTables(), g.NumEdges())
	}
	if !g.HasTable("orders") || g.HasTable("invoices") {
		t.Error("HasTable failed")
	}
	if !reflect.DeepEqual(g.TableNames(), []string{"customers", "items", "orders"}) {
		t.Errorf("TableNames got %v", g.TableNames())
	}

	want := []Edge{
		{From: "items", FromColumn: "order_id", To: "orders", ToColumn: "id", Weight: 1},
		{From: "orders", FromColumn: "customer_id", To: "customers", ToColumn: "id", Weight: 1},
	}
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("Edges got %v want %v", g.Edges(), want)
	}
}

func TestBuildDedup(t *testing.T) {
	fks := append(orderFKs(), orderFKs()...)
	g, warnings := Build(orderTables(), fks, nil)
	if len(warnings) > 0 {
		t.Errorf("Build warnings: %v", warnings)
	}
	if g.NumEdges() != 2 {
		t.Errorf("Build got %d edges; want duplicates collapsed to 2", g.NumEdges())
	}
}

func TestBuildDangling(t *testing.T) {
	fks := []schema.ForeignKey{
		{Table: "orders", Column: "customer_id", RefTable: "customers", RefColumn: "id"},
		{Table: "orders", Column: "region_id", RefTable: "regions", RefColumn: "id"},
		{Table: "orders", Column: "no_such", RefTable: "customers", RefColumn: "id"},
		{Table: "orders", Column: "customer_id", RefTable: "customers", RefColumn: "no_such"},
		{Table: "orders", Column: "customer_id", RefTable: "customers"},
		{Table: "invoices", Column: "order_id", RefTable: "orders", RefColumn: "id"},
	}
	g, warnings := Build(orderTables(), fks, nil)
	if g.NumEdges() != 1 {
		t.Errorf("Build got %d edges want 1", g.NumEdges())
	}
	if len(warnings) != 5 {
		t.Errorf("Build got %d warnings want 5: %v", len(warnings), warnings)
	}
}

func TestBuildWeights(t *testing.T) {
	weights := map[string]int{
		"orders.customer_id->customers.id": 5,
		"items.order_id->orders.id":        0, // non-positive declarations are ignored
	}
	g, _ := Build(orderTables(), orderFKs(), weights)

	want := []Edge{
		{From: "items", FromColumn: "order_id", To: "orders", ToColumn: "id", Weight: 1},
		{From: "orders", FromColumn: "customer_id", To: "customers", ToColumn: "id", Weight: 5},
	}
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("Edges got %v want %v", g.Edges(), want)
	}
}

func TestNew(t *testing.T) {
	edges := []Edge{
		{From: "orders", FromColumn: "customer_id", To: "customers", ToColumn: "id", Weight: 2},
		{From: "orders", FromColumn: "region_id", To: "regions", ToColumn: "id", Weight: 1},
	}
	g := New(orderTables(), edges)
	if g.NumTables() != 3 {
		t.Errorf("New got %d tables want 3", g.NumTables())
	}
	want := edges[:1]
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("Edges got %v want %v", g.Edges(), want)
	}
}
