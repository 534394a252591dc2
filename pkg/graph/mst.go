package graph

import (
	"sort"
)

// Tree is one component of a spanning forest: the tables it covers, in
// lexicographic order, and the chosen edges in canonical order.
type Tree struct {
	Tables []string
	Edges  []Edge
}

func (t Tree) Weight() int {
	w := 0
	for _, e := range t.Edges {
		w += e.Weight
	}
	return w
}

type unionFind struct {
	parent map[string]string
}

func newUnionFind(nams []string) *unionFind {
	uf := unionFind{parent: map[string]string{}}
	for _, nam := range nams {
		uf.parent[nam] = nam
	}
	return &uf
}

func (uf *unionFind) find(nam string) string {
	root := nam
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[nam] != root {
		uf.parent[nam], nam = root, uf.parent[nam]
	}
	return root
}

// union merges the two sets, keeping the lexicographically smaller root.
func (uf *unionFind) union(nam1, nam2 string) bool {
	r1, r2 := uf.find(nam1), uf.find(nam2)
	if r1 == r2 {
		return false
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	uf.parent[r2] = r1
	return true
}

// MinimumSpanningForest computes a minimum spanning tree per connected
// component (Kruskal): edges considered by ascending weight, canonical
// order within equal weight, cycle-forming edges rejected via union-find.
// Every table appears in exactly one tree; an unconnected table is a
// single node tree. Trees are ordered by their smallest table name.
func (g *Graph) MinimumSpanningForest() []Tree {
	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight < edges[j].Weight
	})

	uf := newUnionFind(g.TableNames())
	var chosen []Edge
	for _, e := range edges {
		if uf.union(e.From, e.To) {
			chosen = append(chosen, e)
		}
	}

	trees := map[string]*Tree{}
	for _, nam := range g.TableNames() {
		root := uf.find(nam)
		t := trees[root]
		if t == nil {
			t = &Tree{}
			trees[root] = t
		}
		t.Tables = append(t.Tables, nam)
	}
	for _, e := range chosen {
		t := trees[uf.find(e.From)]
		t.Edges = append(t.Edges, e)
	}

	roots := make([]string, 0, len(trees))
	for root := range trees {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	forest := make([]Tree, 0, len(roots))
	for _, root := range roots {
		t := trees[root]
		sort.SliceStable(t.Edges, func(i, j int) bool {
			return lessEdges(t.Edges[i], t.Edges[j])
		})
		forest = append(forest, *t)
	}
	return forest
}
