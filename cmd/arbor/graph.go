package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <app.yaml>",
		Short: "Export the module graph visualization",
		Long:  `Compiles the application document and outputs a Mermaid diagram (graph TD) of its module tree.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, root, err := compiler.New().CompileFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(root, nil))
			return err
		},
	}
}
