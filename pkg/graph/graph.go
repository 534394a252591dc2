package graph

import (
	"fmt"
	"sort"

	"github.com/google/btree"

	"github.com/MaxwellKnight/csvg/pkg/schema"
)

// Edge is a foreign key relationship: From.FromColumn references
// To.ToColumn. Edges are undirected for path finding; the stored
// direction records which table declared the key.
type Edge struct {
	From       string `json:"from"`
	FromColumn string `json:"from_column"`
	To         string `json:"to"`
	ToColumn   string `json:"to_column"`
	Weight     int    `json:"weight"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", e.From, e.FromColumn, e.To, e.ToColumn)
}

// Key is the identity of an edge, and also the key used to declare a
// weight for it in the configuration.
func (e Edge) Key() string {
	return fmt.Sprintf("%s.%s->%s.%s", e.From, e.FromColumn, e.To, e.ToColumn)
}

// lessEdges is the canonical edge order: every tie-break in path finding
// and spanning tree construction resolves in this order, so identical
// input always produces identical output. Weight is not part of edge
// identity; inserting an existing edge again replaces it.
func lessEdges(e1, e2 Edge) bool {
	if e1.From != e2.From {
		return e1.From < e2.From
	}
	if e1.To != e2.To {
		return e1.To < e2.To
	}
	if e1.FromColumn != e2.FromColumn {
		return e1.FromColumn < e2.FromColumn
	}
	return e1.ToColumn < e2.ToColumn
}

// Graph is the relationship graph of a schema: tables keyed by name plus
// an ordered set of foreign key edges. Tables and edges reference each
// other by name only. A Graph is read-only once built.
type Graph struct {
	tables map[string]schema.Table
	edges  *btree.BTreeG[Edge]
}

// New assembles a graph from tables and edges, dropping edges with an
// endpoint not present in tables. Used by the cache to revive a
// serialized graph; Build is the schema-driven front end.
func New(tables []schema.Table, edges []Edge) *Graph {
	g := Graph{
		tables: map[string]schema.Table{},
		edges:  btree.NewG[Edge](8, lessEdges),
	}
	for _, tbl := range tables {
		g.tables[tbl.Name] = tbl
	}
	for _, e := range edges {
		if g.HasTable(e.From) && g.HasTable(e.To) {
			g.edges.ReplaceOrInsert(e)
		}
	}
	return &g
}

// Build produces the relationship graph for parsed schema facts. Foreign
// keys that cannot be anchored on both ends are dropped, each with a
// dangling reference warning; they never fail the build. Declared weights
// are looked up by edge key and default to 1.
func Build(tables []schema.Table, fks []schema.ForeignKey, weights map[string]int) (*Graph,
	[]string) {

	g := Graph{
		tables: map[string]schema.Table{},
		edges:  btree.NewG[Edge](8, lessEdges),
	}
	for _, tbl := range tables {
		g.tables[tbl.Name] = tbl
	}

	var warnings []string
	for _, fk := range fks {
		tbl, found := g.tables[fk.Table]
		if !found {
			warnings = append(warnings,
				fmt.Sprintf("graph: dangling reference: %s: table %s not declared", fk,
					fk.Table))
			continue
		}
		if _, found := tbl.Column(fk.Column); !found {
			warnings = append(warnings,
				fmt.Sprintf("graph: dangling reference: %s: table %s has no column %s", fk,
					fk.Table, fk.Column))
			continue
		}
		rtbl, found := g.tables[fk.RefTable]
		if !found {
			warnings = append(warnings,
				fmt.Sprintf("graph: dangling reference: %s: table %s not declared", fk,
					fk.RefTable))
			continue
		}
		if fk.RefColumn == "" {
			warnings = append(warnings,
				fmt.Sprintf("graph: dangling reference: %s: referenced column unknown", fk))
			continue
		}
		if _, found := rtbl.Column(fk.RefColumn); !found {
			warnings = append(warnings,
				fmt.Sprintf("graph: dangling reference: %s: table %s has no column %s", fk,
					fk.RefTable, fk.RefColumn))
			continue
		}

		e := Edge{
			From:       fk.Table,
			FromColumn: fk.Column,
			To:         fk.RefTable,
			ToColumn:   fk.RefColumn,
			Weight:     1,
		}
		if w, found := weights[e.Key()]; found && w > 0 {
			e.Weight = w
		}
		g.edges.ReplaceOrInsert(e)
	}

	return &g, warnings
}

func (g *Graph) HasTable(nam string) bool {
	_, found := g.tables[nam]
	return found
}

func (g *Graph) Table(nam string) (schema.Table, bool) {
	tbl, found := g.tables[nam]
	return tbl, found
}

func (g *Graph) NumTables() int {
	return len(g.tables)
}

func (g *Graph) NumEdges() int {
	return g.edges.Len()
}

// TableNames returns all table names in lexicographic order.
func (g *Graph) TableNames() []string {
	nams := make([]string, 0, len(g.tables))
	for nam := range g.tables {
		nams = append(nams, nam)
	}
	sort.Strings(nams)
	return nams
}

// Tables returns all tables ordered by name.
func (g *Graph) Tables() []schema.Table {
	tbls := make([]schema.Table, 0, len(g.tables))
	for _, nam := range g.TableNames() {
		tbls = append(tbls, g.tables[nam])
	}
	return tbls
}

// Edges returns all edges in canonical order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges.Len())
	g.edges.Ascend(func(e Edge) bool {
		edges = append(edges, e)
		return true
	})
	return edges
}
