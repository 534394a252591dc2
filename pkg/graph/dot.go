package graph

import (
	"fmt"
	"strings"
)

// DOT renders the graph structure in Graphviz DOT form: one record node
// per table listing its columns, one labeled edge per relationship.
// Rendering the output to an image is left to the dot tool.
func (g *Graph) DOT() string {
	var buf strings.Builder
	buf.WriteString("graph G {\n")
	buf.WriteString("  node [shape=record, fontname=\"Arial\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  nodesep=1.0;\n")
	buf.WriteString("  rankdir=TB;\n")

	for _, tbl := range g.Tables() {
		fmt.Fprintf(&buf,
			"  %q [label=<{<b><font point-size='16' color='red'>%s</font></b>|%s}>];\n",
			tbl.Name, tbl.Name, strings.Join(tbl.ColumnNames(), "|"))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q [label=\"(%s, %s)\"];\n", e.From, e.To, e.FromColumn,
			e.ToColumn)
	}

	buf.WriteString("}\n")
	return buf.String()
}
