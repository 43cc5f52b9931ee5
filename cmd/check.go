package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Akamitori/qcvault/internal/archive"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validates the archive and reports every problem found",
	Long: `The check command runs a full load of the archive directory: every file
is parsed and validated against the schema, then deserialized, and the
collection is checked for duplicate titles. Per-file problems are logged
before the command fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := archiveDir(args)
		schema, err := loadSchema()
		if err != nil {
			return err
		}
		posts, err := archive.NewLoader().Load(dir, schema)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d posts from %s\n", len(posts), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
