package graph

import (
	"fmt"
	"strings"
)

// Step is an edge traversed in a particular direction along a path.
type Step struct {
	Edge    Edge
	Reverse bool // traversed To -> From
}

func (st Step) FromTable() string {
	if st.Reverse {
		return st.Edge.To
	}
	return st.Edge.From
}

func (st Step) ToTable() string {
	if st.Reverse {
		return st.Edge.From
	}
	return st.Edge.To
}

func (st Step) FromColumn() string {
	if st.Reverse {
		return st.Edge.ToColumn
	}
	return st.Edge.FromColumn
}

func (st Step) ToColumn() string {
	if st.Reverse {
		return st.Edge.FromColumn
	}
	return st.Edge.ToColumn
}

// Path is a walk from a source table to a target table; each step starts
// at the table the previous step ended at.
type Path []Step

// Tables returns the tables visited, in order, including both endpoints.
func (path Path) Tables() []string {
	if len(path) == 0 {
		return nil
	}
	tbls := []string{path[0].FromTable()}
	for _, st := range path {
		tbls = append(tbls, st.ToTable())
	}
	return tbls
}

func (path Path) Weight() int {
	w := 0
	for _, st := range path {
		w += st.Edge.Weight
	}
	return w
}

func (path Path) String() string {
	return strings.Join(path.Tables(), " -> ")
}

// PathError reports that no path exists, either because a table is not in
// the graph or because the two tables are not connected.
type PathError struct {
	From    string
	To      string
	Missing string
}

func (err *PathError) Error() string {
	if err.Missing != "" {
		return fmt.Sprintf("graph: table %s not found", err.Missing)
	}
	return fmt.Sprintf("graph: no path between %s and %s", err.From, err.To)
}

type neighbor struct {
	table string
	step  Step
}

// neighbors returns the adjacency of every table with neighbor lists in
// canonical edge order.
func (g *Graph) neighbors() map[string][]neighbor {
	adj := map[string][]neighbor{}
	g.edges.Ascend(func(e Edge) bool {
		adj[e.From] = append(adj[e.From], neighbor{table: e.To, step: Step{Edge: e}})
		adj[e.To] = append(adj[e.To], neighbor{table: e.From, step: Step{Edge: e, Reverse: true}})
		return true
	})
	return adj
}

// ShortestPath computes the minimum total weight walk between two tables,
// treating every edge as undirected. Ties are broken by expanding tables
// in lexicographic order and neighbors in canonical edge order, so equal
// input always yields the same path. With uniform weights this is plain
// breadth-first order.
func (g *Graph) ShortestPath(from, to string) (Path, error) {
	if !g.HasTable(from) {
		return nil, &PathError{From: from, To: to, Missing: from}
	}
	if !g.HasTable(to) {
		return nil, &PathError{From: from, To: to, Missing: to}
	}
	if from == to {
		return Path{}, nil
	}

	adj := g.neighbors()
	dist := map[string]int{from: 0}
	prev := map[string]Step{}
	done := map[string]bool{}

	for {
		// Smallest tentative distance; table name breaks ties. The graphs
		// involved are schema sized, so linear selection beats carrying a
		// heap here.
		cur := ""
		for nam, d := range dist {
			if done[nam] {
				continue
			}
			if cur == "" || d < dist[cur] || (d == dist[cur] && nam < cur) {
				cur = nam
			}
		}
		if cur == "" {
			return nil, &PathError{From: from, To: to}
		}
		if cur == to {
			break
		}
		done[cur] = true

		for _, nb := range adj[cur] {
			nd := dist[cur] + nb.step.Edge.Weight
			if d, found := dist[nb.table]; !found || nd < d {
				dist[nb.table] = nd
				prev[nb.table] = nb.step
			}
		}
	}

	var path Path
	for cur := to; cur != from; {
		st := prev[cur]
		path = append(path, st)
		cur = st.FromTable()
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
