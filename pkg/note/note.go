// Package note exposes typed, zero-copy views over encoded events.
//
// A Note is either owned, decoded by this package into memory it must give
// back exactly once, or borrowed, wrapping bytes that belong to a store
// (a pebble value, a mapped page) and must never be freed here.
//
// Tags, fields and references are views into the note's bytes. They are valid
// only while the note is: until the final Release of an owned note, or until
// the store's read window closes for a borrowed one. ID and Pubkey return
// copies and are always safe to keep.
package note

import (
	"errors"
	"sync/atomic"
	"unicode/utf8"

	"github.com/ssargent/notedb/pkg/codec"
)

// DefaultBufferSize is the scratch capacity used to decode one event.
const DefaultBufferSize = 2 << 18

// ErrDecode matches every error returned by the owned decode path.
var ErrDecode = errors.New("note: decode failed")

// DecodeError reports text that could not be decoded into a note.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "note: decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Note is a handle on one encoded event.
type Note struct {
	data  []byte
	owned bool
	size  int
	alloc Allocator
	refs  atomic.Int32
}

// OwnedFromJSON decodes text into a new owned note using DefaultAllocator.
// bufsize bounds the encoded size; 0 means DefaultBufferSize.
func OwnedFromJSON(text []byte, bufsize int) (*Note, error) {
	return OwnedFromJSONWith(DefaultAllocator, text, bufsize)
}

// OwnedFromJSONWith is OwnedFromJSON with an explicit allocator. The scratch
// buffer is trimmed to the exact encoded size on success and freed on
// failure.
func OwnedFromJSONWith(alloc Allocator, text []byte, bufsize int) (*Note, error) {
	if bufsize <= 0 {
		bufsize = DefaultBufferSize
	}
	scratch := alloc.Alloc(bufsize)
	n, err := codec.FromJSON(text, scratch)
	if err != nil {
		alloc.Free(scratch)
		return nil, &DecodeError{Err: err}
	}
	return newOwned(alloc, alloc.Realloc(scratch, n)), nil
}

// OwnedCopy copies encoded bytes into a new owned note. Use it to keep a
// borrowed note past its store's read window.
func OwnedCopy(alloc Allocator, data []byte) *Note {
	buf := alloc.Alloc(len(data))
	copy(buf, data)
	return newOwned(alloc, buf)
}

// Borrowed wraps bytes owned by someone else. The note never frees them and
// is valid only as long as the owner keeps them alive and unchanged.
func Borrowed(data []byte) *Note {
	return &Note{data: data}
}

func newOwned(alloc Allocator, data []byte) *Note {
	n := &Note{data: data, owned: true, size: len(data), alloc: alloc}
	n.refs.Store(1)
	return n
}

// Owned reports whether the note frees its bytes on final Release.
func (n *Note) Owned() bool { return n.owned }

// Size is the encoded size of an owned note and 0 for a borrowed one.
func (n *Note) Size() int { return n.size }

// Retain adds a reference to an owned note. Each Retain needs a matching
// Release. It is a no-op on borrowed notes.
func (n *Note) Retain() *Note {
	if n.owned {
		n.refs.Add(1)
	}
	return n
}

// Release drops a reference. When the last reference of an owned note goes,
// its bytes go back to the allocator, exactly once; extra calls do nothing.
// Borrowed notes are never freed.
//
// No accessor may be called after the final Release.
func (n *Note) Release() {
	if !n.owned {
		return
	}
	for {
		r := n.refs.Load()
		if r <= 0 {
			return
		}
		if n.refs.CompareAndSwap(r, r-1) {
			if r == 1 {
				data := n.data
				n.data = nil
				n.alloc.Free(data)
			}
			return
		}
	}
}

// Bytes returns the encoded event. The slice aliases the note's memory.
func (n *Note) Bytes() []byte { return n.data }

// ID returns a copy of the event id.
func (n *Note) ID() [32]byte {
	return [32]byte(codec.ID(n.data))
}

// Pubkey returns a copy of the author key.
func (n *Note) Pubkey() [32]byte {
	return [32]byte(codec.Pubkey(n.data))
}

func (n *Note) CreatedAt() uint32 { return codec.CreatedAt(n.data) }

func (n *Note) Kind() uint32 { return codec.Kind(n.data) }

// Content returns the content as a string, or "" when the bytes are not
// valid UTF-8. Third-party content is often malformed; that is not an error.
func (n *Note) Content() string {
	raw := codec.Content(n.data)
	if !utf8.Valid(raw) {
		return ""
	}
	return string(raw)
}

// ContentRaw returns the content bytes. The slice aliases the note's memory.
func (n *Note) ContentRaw() []byte { return codec.Content(n.data) }

// ContentLen is the raw content length, whether or not it decodes.
func (n *Note) ContentLen() uint32 { return codec.ContentLen(n.data) }

// MarshalJSON returns the NIP-01 text form.
func (n *Note) MarshalJSON() ([]byte, error) {
	return codec.MarshalEvent(n.data)
}
