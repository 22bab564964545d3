package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync [category]",
	Short: "Load snapshots on disk into the document store",
	Long: `Loads every snapshot file of the category into the document store.
If the collection does not exist it is created from the snapshots.
Otherwise every document is upserted by its url.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	category, err := resolveCategory(newSelector(stdin, cmd.ErrOrStderr()), argAt(args, 0))
	if err != nil {
		return err
	}
	return runPipeline(cmd, driving.RunRequest{Mode: domain.ModeSync, Category: category})
}
