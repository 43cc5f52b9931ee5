package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Akamitori/qcvault/internal/archive"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "Lists the archive's posts, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema()
		if err != nil {
			return err
		}
		posts, err := archive.NewLoader().Load(archiveDir(args), schema)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(posts.Summaries())
		}
		for _, s := range posts.Summaries() {
			fmt.Fprintf(out, "%s  %s  %s  (%d min)\n", s.Date, s.Title, s.Permalink, s.ReadMinutes)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print summaries as JSON")
	rootCmd.AddCommand(listCmd)
}
