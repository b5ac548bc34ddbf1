package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/storage"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		st := store.Stats()
		out := cmd.OutOrStdout()
		fprintf(out, "Data directory: %s\n", configFrom(cmd).DataDir)
		fprintf(out, "Notes: %d\n", st.Notes)
		fprintf(out, "Disk usage: %d bytes\n", st.DiskUsage)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
