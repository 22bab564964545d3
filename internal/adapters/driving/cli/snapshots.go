package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [category]",
	Short: "List snapshot files on disk",
	Long:  `Lists the snapshot files of a category, or of every category when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	categories := domain.AllCategories()
	if len(args) > 0 {
		c, err := domain.ParseCategory(args[0])
		if err != nil {
			return err
		}
		categories = []domain.Category{c}
	}

	pipeline, closeFn, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck // listing never opens the store

	for _, c := range categories {
		infos, err := pipeline.Snapshots(cmd.Context(), c)
		if errors.Is(err, fs.ErrNotExist) {
			infos, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("list %s snapshots: %w", c, err)
		}
		if len(infos) == 0 {
			cmd.Printf("%s: no snapshots\n", c)
			continue
		}
		cmd.Print(renderSnapshots(c, infos))
	}
	return nil
}
