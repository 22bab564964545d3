package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

var runCmd = &cobra.Command{
	Use:   "run [mode] [category] [term]",
	Short: "Run the pipeline through the positional selector",
	Long: `Selects a mode, a category and, for repository collection, a search term.
Each may be given by name or index; missing ones are prompted for on stdin.

Modes: 0 collect, 1 restore, 2 archive, 3 sync.
Categories: 0 repos, 1 workflows.`,
	Args: cobra.MaximumNArgs(3),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	sel := newSelector(stdin, cmd.ErrOrStderr())

	mode, err := resolveMode(sel, argAt(args, 0))
	if err != nil {
		return err
	}
	category, err := resolveCategory(sel, argAt(args, 1))
	if err != nil {
		return err
	}
	req := driving.RunRequest{Mode: mode, Category: category}
	if mode == domain.ModeCollect {
		if req.SearchTerm, err = resolveTerm(sel, category, argAt(args, 2)); err != nil {
			return err
		}
	}
	return runPipeline(cmd, req)
}
