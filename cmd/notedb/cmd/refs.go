package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/note"
	"github.com/ssargent/notedb/pkg/storage"
)

// refsCmd represents the refs command
var refsCmd = &cobra.Command{
	Use:   "refs <id>",
	Short: "List the references of a note",
	Long: `List the tags of a note whose first field equals --key, in tag order.
Values stored as text rather than identifiers are marked.

Examples:
  notedb refs <id>
  notedb refs <id> --key p
  notedb refs <id> --first`,
	Args: cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("key")
		first, _ := cmd.Flags().GetBool("first")
		out := cmd.OutOrStdout()

		return store.View(id, func(n *note.Note) error {
			for ref := range n.References(key).All() {
				kind := "id"
				if !ref.Value.IsID() {
					kind = "text"
				}
				fprintf(out, "%s\t%s\t%s\n", ref.Key, kind, ref.Value.String())
				if first {
					break
				}
			}
			return nil
		})
	}),
}

func init() {
	rootCmd.AddCommand(refsCmd)
	refsCmd.Flags().StringP("key", "k", note.KeyEvent, "Tag key to match")
	refsCmd.Flags().Bool("first", false, "Stop after the first match")
}
