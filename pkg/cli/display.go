package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/MaxwellKnight/csvg/pkg/dataframe"
	"github.com/MaxwellKnight/csvg/pkg/graph"
)

// displayText prints every table with its columns, then the relationship
// edges, as boxed tables.
func displayText(g *graph.Graph) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Table", "Column", "Type", "Primary Key"})
	tw.SetAutoMergeCells(true)
	tw.SetRowLine(true)
	for _, tbl := range g.Tables() {
		for _, col := range tbl.Columns {
			pk := ""
			if col.PrimaryKey {
				pk = "yes"
			}
			tw.Append([]string{tbl.Name, col.Name, col.Type.String(), pk})
		}
	}
	tw.Render()

	if g.NumEdges() == 0 {
		fmt.Println("no relationships")
		return
	}

	tw = tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"From", "To", "Weight"})
	for _, e := range g.Edges() {
		tw.Append([]string{
			fmt.Sprintf("%s.%s", e.From, e.FromColumn),
			fmt.Sprintf("%s.%s", e.To, e.ToColumn),
			fmt.Sprintf("%d", e.Weight),
		})
	}
	tw.Render()
}

// renderFrame prints a frame as a boxed table for head and tail.
func renderFrame(f *dataframe.Frame) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader(f.Columns)
	for _, row := range f.Rows {
		rec := make([]string, len(row))
		for cdx, v := range row {
			if v.Null {
				rec[cdx] = ""
			} else {
				rec[cdx] = v.S
			}
		}
		tw.Append(rec)
	}
	tw.Render()
}
