// Package storage keeps encoded notes in pebble and hands them out as
// borrowed views over pebble's own value buffers.
package storage

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/notedb/pkg/codec"
	"github.com/ssargent/notedb/pkg/logging"
	"github.com/ssargent/notedb/pkg/note"
)

var (
	ErrNotFound = errors.New("storage: note not found")
	ErrExists   = errors.New("storage: note already stored")
	ErrClosed   = errors.New("storage: store is closed")
)

// Options configures a Store.
type Options struct {
	Dir string
	// Sync makes every write durable before Put returns.
	Sync        bool
	CacheSizeMB int
	// BufferSize is the decode scratch size for PutJSON; 0 means
	// note.DefaultBufferSize.
	BufferSize int
	Allocator  note.Allocator
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// Stats holds statistics about the store
type Stats struct {
	Notes     int64  `json:"notes"`
	DiskUsage uint64 `json:"disk_usage_bytes"`
}

// Store is a pebble backed note store.
type Store struct {
	db      *pebble.DB
	wopts   *pebble.WriteOptions
	bufsize int
	alloc   note.Allocator
	log     *slog.Logger
	metrics *Metrics
	clock   *arrivalClock

	// mu serializes writers so the existence check and the batch commit
	// happen atomically.
	mu     sync.Mutex
	notes  atomic.Int64
	closed atomic.Bool
}

// Open opens or creates the store in opts.Dir.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("storage: data directory is required")
	}

	popts := &pebble.Options{}
	if opts.CacheSizeMB > 0 {
		cache := pebble.NewCache(int64(opts.CacheSizeMB) << 20)
		defer cache.Unref()
		popts.Cache = cache
	}

	db, err := pebble.Open(opts.Dir, popts)
	if err != nil {
		return nil, errors.Wrapf(err, "storage: open %s", opts.Dir)
	}

	s := &Store{
		db:      db,
		wopts:   pebble.NoSync,
		bufsize: opts.BufferSize,
		alloc:   opts.Allocator,
		log:     opts.Logger,
		metrics: NewMetrics(opts.Registerer),
	}
	if opts.Sync {
		s.wopts = pebble.Sync
	}
	if s.alloc == nil {
		s.alloc = note.DefaultAllocator
	}
	if s.log == nil {
		s.log = logging.Discard()
	}

	last, count, err := s.recover()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.clock = newArrivalClock(last)
	s.notes.Store(count)
	s.metrics.UpdateStats(s.Stats())

	s.log.Debug("store opened", "dir", opts.Dir, "notes", count)
	return s, nil
}

// recover finds the newest arrival key and counts stored notes.
func (s *Store) recover() (ksuid.KSUID, int64, error) {
	last := ksuid.Nil

	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixArrival},
		UpperBound: []byte{prefixArrival + 1},
	})
	if err != nil {
		return last, 0, errors.Wrap(err, "storage: scan arrivals")
	}
	if it.Last() {
		if k, err := ksuid.FromBytes(it.Key()[1:]); err == nil {
			last = k
		}
	}
	if err := it.Close(); err != nil {
		return last, 0, errors.Wrap(err, "storage: scan arrivals")
	}

	it, err = s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixNote},
		UpperBound: []byte{prefixNote + 1},
	})
	if err != nil {
		return last, 0, errors.Wrap(err, "storage: count notes")
	}
	var count int64
	for it.First(); it.Valid(); it.Next() {
		count++
	}
	if err := it.Close(); err != nil {
		return last, 0, errors.Wrap(err, "storage: count notes")
	}
	return last, count, nil
}

// Close shuts down the store. Calling it again is a no-op.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// Metrics returns the store's metrics.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// Put stores n and its index entries in one batch. It returns ErrExists if
// a note with the same id is already stored.
func (s *Store) Put(n *note.Note) (err error) {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation("put", err == nil || errors.Is(err, ErrExists), time.Since(start))
	}()

	if err := codec.Validate(n.Bytes()); err != nil {
		return errors.Wrap(err, "storage: put")
	}

	id := n.ID()
	key := noteKey(id[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	_, closer, err := s.db.Get(key)
	switch {
	case err == nil:
		closer.Close()
		return ErrExists
	case !errors.Is(err, pebble.ErrNotFound):
		return errors.Wrap(err, "storage: put")
	}

	arrival, err := s.clock.Next()
	if err != nil {
		return errors.Wrap(err, "storage: arrival key")
	}

	pubkey := n.Pubkey()
	b := s.db.NewBatch()
	defer b.Close()

	keys := [][]byte{
		authorKey(pubkey[:], n.CreatedAt(), id[:]),
		kindKey(n.Kind(), n.CreatedAt(), id[:]),
	}
	for ref := range n.ReferencedIDs().IDs() {
		keys = append(keys, replyKey(ref[:], id[:]))
	}

	if err := b.Set(key, n.Bytes(), nil); err != nil {
		return errors.Wrap(err, "storage: put")
	}
	if err := b.Set(arrivalKey(arrival), id[:], nil); err != nil {
		return errors.Wrap(err, "storage: put")
	}
	if err := b.Set(arrivalRefKey(id[:]), arrival.Bytes(), nil); err != nil {
		return errors.Wrap(err, "storage: put")
	}
	for _, k := range keys {
		if err := b.Set(k, nil, nil); err != nil {
			return errors.Wrap(err, "storage: put")
		}
	}
	if err := b.Commit(s.wopts); err != nil {
		return errors.Wrap(err, "storage: commit")
	}

	s.notes.Add(1)
	s.log.Debug("note stored", "id", hexID(id), "kind", n.Kind(), "tags", n.Tags().Count())
	return nil
}

// PutJSON decodes text and stores it, returning the note id. Decode errors
// match note.ErrDecode.
func (s *Store) PutJSON(text []byte) ([32]byte, error) {
	n, err := note.OwnedFromJSONWith(s.alloc, text, s.bufsize)
	if err != nil {
		s.metrics.RecordDecodeFailure()
		s.log.Warn("rejected event", "error", err)
		return [32]byte{}, err
	}
	defer n.Release()

	return n.ID(), s.Put(n)
}

// View calls fn with a borrowed note for id. The note and every view taken
// from it are only valid until fn returns.
func (s *Store) View(id [32]byte, fn func(*note.Note) error) (err error) {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation("view", err == nil || errors.Is(err, ErrNotFound), time.Since(start))
	}()

	found, err := s.view(id[:], fn)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *Store) view(id []byte, fn func(*note.Note) error) (bool, error) {
	val, closer, err := s.db.Get(noteKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "storage: get")
	}
	defer closer.Close()

	return true, fn(note.Borrowed(val))
}

// Get returns an owned copy of the note for id. The caller must Release it.
func (s *Store) Get(id [32]byte) (*note.Note, error) {
	var out *note.Note
	err := s.View(id, func(n *note.Note) error {
		out = note.OwnedCopy(s.alloc, n.Bytes())
		return nil
	})
	return out, err
}

// Has reports whether a note with id is stored.
func (s *Store) Has(id [32]byte) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	return s.view(id[:], func(*note.Note) error { return nil })
}

// Delete removes a note together with its index and arrival entries. A note
// stored again later arrives anew.
func (s *Store) Delete(id [32]byte) (err error) {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation("delete", err == nil, time.Since(start))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	defer b.Close()

	found, err := s.view(id[:], func(n *note.Note) error {
		pubkey := n.Pubkey()
		keys := [][]byte{
			noteKey(id[:]),
			authorKey(pubkey[:], n.CreatedAt(), id[:]),
			kindKey(n.Kind(), n.CreatedAt(), id[:]),
		}
		for ref := range n.ReferencedIDs().IDs() {
			keys = append(keys, replyKey(ref[:], id[:]))
		}
		arrival, err := s.arrivalOf(id[:])
		if err != nil {
			return err
		}
		if arrival != nil {
			keys = append(keys, arrivalRefKey(id[:]), append([]byte{prefixArrival}, arrival...))
		}
		for _, k := range keys {
			if err := b.Delete(k, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "storage: delete")
	}
	if !found {
		return ErrNotFound
	}
	if err := b.Commit(s.wopts); err != nil {
		return errors.Wrap(err, "storage: commit")
	}

	s.notes.Add(-1)
	s.log.Debug("note deleted", "id", hexID(id))
	return nil
}

// arrivalOf returns the arrival ksuid recorded for id, or nil if there is
// none.
func (s *Store) arrivalOf(id []byte) ([]byte, error) {
	val, closer, err := s.db.Get(arrivalRefKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

// Stats returns store statistics
func (s *Store) Stats() Stats {
	if s.closed.Load() {
		return Stats{}
	}
	st := Stats{
		Notes:     s.notes.Load(),
		DiskUsage: s.db.Metrics().DiskSpaceUsage(),
	}
	s.metrics.UpdateStats(st)
	return st
}
