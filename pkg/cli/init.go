package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaxwellKnight/csvg/pkg/config"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"I", "initialize"},
		Short:   "Initialize csvg configuration",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}

			if config.Exists(dir) && !force {
				fmt.Printf("config file already exists at %s; use --force to overwrite\n",
					config.RelPath(config.Path(dir)))
				return nil
			}

			if err := config.EnsureDir(dir); err != nil {
				return err
			}
			cfg := config.Default()
			if err := config.Write(dir, cfg); err != nil {
				return err
			}
			fmt.Printf("configuration file created at %s\n",
				config.RelPath(config.Path(dir)))

			if schemaPath, found := config.FindSchema("."); found {
				printInfo(fmt.Sprintf("found SQL schema: %s", config.RelPath(schemaPath)))
				if _, err := buildGraph(dir, cfg, schemaPath); err != nil {
					return fmt.Errorf("configuration created, but the schema could not be "+
						"processed: %w", err)
				}
				fmt.Println("SQL schema processed successfully")
			} else {
				fmt.Println("no SQL schema found in the current directory")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config")
	return cmd
}
