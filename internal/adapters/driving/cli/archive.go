package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Create or restore encrypted snapshot archives",
}

var archiveCreateCmd = &cobra.Command{
	Use:   "create [category]",
	Short: "Pack a category's snapshots into an encrypted archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  archiveRunE(domain.ModeArchive),
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore [category]",
	Short: "Restore a category's archive and sync it into the store",
	Long: `Decrypts and unpacks the category's archive over the snapshot directory,
then loads the restored snapshots into the document store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: archiveRunE(domain.ModeRestore),
}

func init() {
	archiveCmd.AddCommand(archiveCreateCmd)
	archiveCmd.AddCommand(archiveRestoreCmd)
	rootCmd.AddCommand(archiveCmd)
}

func archiveRunE(mode domain.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		category, err := resolveCategory(newSelector(stdin, cmd.ErrOrStderr()), argAt(args, 0))
		if err != nil {
			return err
		}
		return runPipeline(cmd, driving.RunRequest{Mode: mode, Category: category})
	}
}
