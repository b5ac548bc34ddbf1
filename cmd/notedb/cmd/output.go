package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ssargent/notedb/pkg/note"
)

const previewLen = 60

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// parseID reads a 64 character hex id or pubkey.
func parseID(s string) ([32]byte, error) {
	var id [32]byte
	if len(s) != 2*len(id) {
		return id, errors.Errorf("%q is not %d hex characters", s, 2*len(id))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, errors.Wrapf(err, "%q is not hex", s)
	}
	return id, nil
}

// printNotes writes one summary line per note, stopping after limit notes
// when limit > 0.
func printNotes(w io.Writer, seq iter.Seq2[*note.Note, error], limit int) (int, error) {
	n := 0
	for nt, err := range seq {
		if err != nil {
			return n, err
		}
		printNote(w, nt)
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return n, nil
}

func printNote(w io.Writer, n *note.Note) {
	id := n.ID()
	kind := fmt.Sprint(n.Kind())
	if name, ok := n.KnownKind(); ok {
		kind = name
	}
	fprintf(w, "%s  %d  %-8s  %s\n", hex.EncodeToString(id[:]), n.CreatedAt(), kind, preview(n))
}

func preview(n *note.Note) string {
	if n.TooBig() {
		return fmt.Sprintf("[%d bytes]", n.ContentLen())
	}
	s := strings.Join(strings.Fields(n.Content()), " ")
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen-1]) + "…"
}
