package cmd

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/storage"
)

// importResult counts the outcome of an import.
type importResult struct {
	Stored     int
	Duplicates int
	Rejected   int
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import events from a JSON lines file",
	Long: `Import nostr events, one JSON object per line. Lines that fail to decode or
exceed twice the decode buffer are counted and skipped; events already stored
are skipped too.

Examples:
  notedb import events.jsonl
  cat events.jsonl | notedb import -`,
	Args: cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to open import file")
			}
			defer f.Close()
			in = f
		}

		res, err := importEvents(store, in, 2*configFrom(cmd).Decode.BufferSize)
		if err != nil {
			return err
		}

		loggerFrom(cmd).Info("import finished",
			"stored", res.Stored, "duplicates", res.Duplicates, "rejected", res.Rejected)
		fprintf(cmd.OutOrStdout(), "stored %d, duplicates %d, rejected %d\n",
			res.Stored, res.Duplicates, res.Rejected)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importEvents stores every line of r. Lines longer than maxLine are
// counted as rejected and skipped.
func importEvents(store *storage.Store, r io.Reader, maxLine int) (importResult, error) {
	var res importResult

	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.Wrap(err, "failed to read events")
		}

		if !tooLong && len(line)+len(chunk) > maxLine {
			tooLong = true
			line = line[:0]
		}
		if !tooLong {
			line = append(line, chunk...)
		}
		if isPrefix {
			continue
		}

		if tooLong {
			res.Rejected++
		} else if err := res.put(store, bytes.TrimSpace(line)); err != nil {
			return res, err
		}
		line = line[:0]
		tooLong = false
	}
	return res, nil
}

func (res *importResult) put(store *storage.Store, line []byte) error {
	if len(line) == 0 {
		return nil
	}
	_, err := store.PutJSON(line)
	switch {
	case err == nil:
		res.Stored++
	case errors.Is(err, storage.ErrExists):
		res.Duplicates++
	case errors.Is(err, storage.ErrClosed):
		return err
	default:
		res.Rejected++
	}
	return nil
}
