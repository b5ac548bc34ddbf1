package storage

import (
	"iter"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/ssargent/notedb/pkg/note"
)

// Scans yield borrowed notes. Each note is valid only until the loop body
// returns; use note.OwnedCopy to keep one. Index entries whose note has been
// deleted are skipped. An error ends the scan after it is yielded.

// ByAuthor yields the notes signed by pubkey, newest first.
func (s *Store) ByAuthor(pubkey [32]byte) iter.Seq2[*note.Note, error] {
	prefix := append([]byte{prefixAuthor}, pubkey[:]...)
	return s.scan("by_author", prefix, true, trailingIndexID)
}

// ByKind yields the notes of one kind, newest first.
func (s *Store) ByKind(kind uint32) iter.Seq2[*note.Note, error] {
	return s.scan("by_kind", kindPrefix(kind), true, trailingIndexID)
}

// Replies yields the notes whose "e" tags reference id, ordered by their id.
func (s *Store) Replies(id [32]byte) iter.Seq2[*note.Note, error] {
	prefix := append([]byte{prefixReply}, id[:]...)
	return s.scan("replies", prefix, false, trailingIndexID)
}

// Recent yields notes in reverse arrival order.
func (s *Store) Recent() iter.Seq2[*note.Note, error] {
	return s.scan("recent", []byte{prefixArrival}, true, func(_, value []byte) []byte {
		return value
	})
}

func trailingIndexID(key, _ []byte) []byte {
	return trailingID(key)
}

func (s *Store) scan(op string, prefix []byte, reverse bool, idOf func(key, value []byte) []byte) iter.Seq2[*note.Note, error] {
	return func(yield func(*note.Note, error) bool) {
		if s.closed.Load() {
			yield(nil, ErrClosed)
			return
		}
		start := time.Now()
		var failed bool
		defer func() {
			s.metrics.RecordOperation(op, !failed, time.Since(start))
		}()

		it, err := s.db.NewIter(&pebble.IterOptions{
			LowerBound: prefix,
			UpperBound: prefixEnd(prefix),
		})
		if err != nil {
			failed = true
			yield(nil, errors.Wrap(err, "storage: "+op))
			return
		}
		defer it.Close()

		valid := it.First()
		advance := it.Next
		if reverse {
			valid = it.Last()
			advance = it.Prev
		}

		for ; valid; valid = advance() {
			id := idOf(it.Key(), it.Value())
			if len(id) != idLen {
				continue
			}
			cont := true
			_, err := s.view(id, func(n *note.Note) error {
				cont = yield(n, nil)
				return nil
			})
			if err != nil {
				failed = true
				yield(nil, err)
				return
			}
			if !cont {
				return
			}
		}
		if err := it.Error(); err != nil {
			failed = true
			yield(nil, errors.Wrap(err, "storage: "+op))
		}
	}
}

// Collect copies up to limit notes out of seq. limit <= 0 means no limit.
// The caller releases the returned notes.
func (s *Store) Collect(seq iter.Seq2[*note.Note, error], limit int) ([]*note.Note, error) {
	var out []*note.Note
	for n, err := range seq {
		if err != nil {
			for _, o := range out {
				o.Release()
			}
			return nil, err
		}
		out = append(out, note.OwnedCopy(s.alloc, n.Bytes()))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
