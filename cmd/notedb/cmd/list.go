package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/storage"
)

// repliesCmd represents the replies command
var repliesCmd = &cobra.Command{
	Use:   "replies <id>",
	Short: "List notes that reference a note in an e tag",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		_, err = printNotes(cmd.OutOrStdout(), store.Replies(id), limit)
		return err
	}),
}

// authorCmd represents the author command
var authorCmd = &cobra.Command{
	Use:   "author <pubkey>",
	Short: "List an author's notes, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		pubkey, err := parseID(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		_, err = printNotes(cmd.OutOrStdout(), store.ByAuthor(pubkey), limit)
		return err
	}),
}

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently stored notes",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		limit, _ := cmd.Flags().GetInt("limit")
		_, err := printNotes(cmd.OutOrStdout(), store.Recent(), limit)
		return err
	}),
}

func init() {
	for _, c := range []*cobra.Command{repliesCmd, authorCmd, recentCmd} {
		rootCmd.AddCommand(c)
		c.Flags().IntP("limit", "n", 20, "Maximum notes to list (0 for all)")
	}
}
