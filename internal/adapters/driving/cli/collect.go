package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

var collectCmd = &cobra.Command{
	Use:   "collect [category] [search-term]",
	Short: "Collect a category, archive it and sync it into the store",
	Long: `Pages through the GitHub API until the category is exhausted, writing one
snapshot file per page (repos) or per repository (workflows). The snapshots
are then packed into an encrypted archive and loaded into the document store.

Category is "repos" (or 0) or "workflows" (or 1). The search term is the
GitHub user searched for and is only used by repos. Missing values are
prompted for on stdin.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	sel := newSelector(stdin, cmd.ErrOrStderr())

	category, err := resolveCategory(sel, argAt(args, 0))
	if err != nil {
		return err
	}
	term, err := resolveTerm(sel, category, argAt(args, 1))
	if err != nil {
		return err
	}

	return runPipeline(cmd, driving.RunRequest{
		Mode:       domain.ModeCollect,
		Category:   category,
		SearchTerm: term,
	})
}
