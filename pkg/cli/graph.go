package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MaxwellKnight/csvg/pkg/cache"
	"github.com/MaxwellKnight/csvg/pkg/config"
	"github.com/MaxwellKnight/csvg/pkg/dataframe"
	"github.com/MaxwellKnight/csvg/pkg/graph"
	"github.com/MaxwellKnight/csvg/pkg/join"
	"github.com/MaxwellKnight/csvg/pkg/parser"
)

func projectDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	if err := config.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// buildGraph parses the schema file, builds the graph, and saves it to
// the cache. Parser and builder warnings never abort; they are all
// surfaced before returning.
func buildGraph(dir string, cfg config.Config, schemaPath string) (*graph.Graph, error) {
	buf, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	sch, err := parser.ParseSchemaText(string(buf), config.RelPath(schemaPath))
	if err != nil {
		return nil, err
	}
	printWarnings(sch.Warnings)

	g, warnings := graph.Build(sch.Tables, sch.ForeignKeys, cfg.Weights)
	printWarnings(warnings)

	if err := cache.Save(dir, g, cache.Fingerprint(buf)); err != nil {
		return nil, err
	}
	printInfo(fmt.Sprintf("graph data cached in %s", config.RelPath(cache.Path(dir))))
	return g, nil
}

// loadGraph returns the cached graph when its fingerprint still matches
// the schema on disk, rebuilding and re-saving transparently otherwise.
// Staleness is repaired, never reported as an error.
func loadGraph(dir string, cfg config.Config, regenerate bool) (*graph.Graph, error) {
	schemaPath, found := config.FindSchema(".")
	if !found {
		return nil, errors.New("no SQL schema found in the current directory")
	}

	if !regenerate {
		buf, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}

		g, err := cache.Load(dir, cache.Fingerprint(buf))
		if err == nil {
			return g, nil
		}
		var cerr *cache.CorruptError
		if errors.As(err, &cerr) {
			printWarnings([]string{cerr.Error()})
		} else if !errors.Is(err, cache.ErrMiss) {
			return nil, err
		}
		printInfo("generating new graph data")
	}

	return buildGraph(dir, cfg, schemaPath)
}

func newGraphCommand() *cobra.Command {
	var regenerate bool

	cmd := &cobra.Command{
		Use:     "graph",
		Aliases: []string{"G"},
		Short:   "Perform graph operations on SQL schemas",
	}
	cmd.PersistentFlags().BoolVarP(&regenerate, "regenerate", "r", false,
		"force regeneration of the graph")

	cmd.AddCommand(newGraphCreateCommand())
	cmd.AddCommand(newGraphShortestPathCommand(&regenerate))
	cmd.AddCommand(newGraphMSTCommand(&regenerate))
	cmd.AddCommand(newGraphJoinCommand(&regenerate))
	cmd.AddCommand(newGraphDisplayCommand(&regenerate))
	return cmd
}

func newGraphCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create [schema-file]",
		Short: "Create a graph from a SQL schema",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.Read(dir)
			if err != nil {
				return err
			}

			var schemaPath string
			if len(args) > 0 {
				schemaPath = args[0]
			} else {
				var found bool
				schemaPath, found = config.FindSchema(".")
				if !found {
					return errors.New("no SQL schema found in the current directory")
				}
			}

			g, err := buildGraph(dir, cfg, schemaPath)
			if err != nil {
				return err
			}
			fmt.Printf("graph created: %d tables, %d relationships\n", g.NumTables(),
				g.NumEdges())
			return nil
		},
	}
}

func newGraphShortestPathCommand(regenerate *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "shortest-path <from> <to>",
		Aliases: []string{"sp", "shortest"},
		Short:   "Find the shortest path between two tables",
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.Read(dir)
			if err != nil {
				return err
			}
			g, err := loadGraph(dir, cfg, *regenerate)
			if err != nil {
				return err
			}

			path, err := g.ShortestPath(args[0], args[1])
			if err != nil {
				return err
			}
			if len(path) == 0 {
				fmt.Printf("shortest path: %s\n", args[0])
				return nil
			}

			fmt.Printf("shortest path: %s\n", path)
			for _, st := range path {
				fmt.Printf("  %s.%s -> %s.%s (weight %d)\n", st.FromTable(), st.FromColumn(),
					st.ToTable(), st.ToColumn(), st.Edge.Weight)
			}
			return nil
		},
	}
}

func newGraphMSTCommand(regenerate *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "mst",
		Short: "Create a minimum spanning tree from the schema",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.Read(dir)
			if err != nil {
				return err
			}
			g, err := loadGraph(dir, cfg, *regenerate)
			if err != nil {
				return err
			}

			for i, tree := range g.MinimumSpanningForest() {
				fmt.Printf("tree %d (weight %d): %s\n", i+1, tree.Weight(),
					strings.Join(tree.Tables, ", "))
				for _, e := range tree.Edges {
					fmt.Printf("  %s.%s -> %s.%s (weight %d)\n", e.From, e.FromColumn, e.To,
						e.ToColumn, e.Weight)
				}
			}
			return nil
		},
	}
}

func newGraphJoinCommand(regenerate *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "join <left-table> <right-table>",
		Short: "Join the CSV data of two tables along their shortest path",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.Read(dir)
			if err != nil {
				return err
			}
			g, err := loadGraph(dir, cfg, *regenerate)
			if err != nil {
				return err
			}

			path, err := g.ShortestPath(args[0], args[1])
			if err != nil {
				return err
			}

			ex := join.Executor{
				Graph: g,
				Load: func(tbl string) (*dataframe.Frame, error) {
					return dataframe.Load(tbl, cfg.CSVPath(tbl))
				},
				Info: printInfo,
			}
			f, err := ex.Run(args[0], path)
			if err != nil {
				return err
			}

			if err := f.WriteFile(cfg.OutputFile); err != nil {
				return err
			}
			printInfo(fmt.Sprintf("wrote %d rows to %s", len(f.Rows), cfg.OutputFile))
			return nil
		},
	}
}

func newGraphDisplayCommand(regenerate *bool) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "display",
		Short: "Display the graph structure",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.Read(dir)
			if err != nil {
				return err
			}
			g, err := loadGraph(dir, cfg, *regenerate)
			if err != nil {
				return err
			}

			switch format {
			case "text":
				displayText(g)
			case "dot":
				if err := os.MkdirAll(cfg.OutputPath, 0o755); err != nil {
					return err
				}
				dotPath := filepath.Join(cfg.OutputPath, "graph.dot")
				if err := os.WriteFile(dotPath, []byte(g.DOT()), 0o644); err != nil {
					return err
				}
				fmt.Print(g.DOT())
				printInfo(fmt.Sprintf("DOT file saved to %s", config.RelPath(dotPath)))
			case "json":
				buf, err := json.MarshalIndent(struct {
					Tables interface{} `json:"tables"`
					Edges  interface{} `json:"edges"`
				}{g.Tables(), g.Edges()}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(buf))
			default:
				return &usageError{err: fmt.Errorf("unknown display format: %s", format)}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, dot, json)")
	return cmd
}
