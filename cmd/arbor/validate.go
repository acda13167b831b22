package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <app.yaml>",
		Short: "Check the module graph for consistency",
		Long:  `Compiles the application document and reports structural problems: empty selectors, unknown scenes, detached handlers and duplicate names.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, root, err := compiler.New().CompileFile(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, issue := range validator.Inspect(root) {
				if issue.Severity == validator.SeverityWarning {
					fmt.Fprintf(out, "%s\n", issue)
				}
			}
			if err := validator.ValidateGraph(root); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintln(out, "Graph is valid! ✅")
			return nil
		},
	}
}
