package cmd

import (
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/codec"
	"github.com/ssargent/notedb/pkg/note"
	"github.com/ssargent/notedb/pkg/storage"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a stored note as JSON",
	Long: `Print a stored note in its NIP-01 JSON form.

Example:
  notedb get 5c83da77af1dec6d7289834998ad7aafbd9e2191396d75ec3cc27f5a77226f36`,
	Args: cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var out []byte
		err = store.View(id, func(n *note.Note) error {
			ev := codec.ToEvent(n.Bytes())
			ev.Content = n.Content()
			var merr error
			out, merr = json.MarshalIndent(ev, "", "  ")
			return merr
		})
		if err != nil {
			return err
		}

		fprintf(cmd.OutOrStdout(), "%s\n", out)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(getCmd)
}
