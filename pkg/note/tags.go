package note

import (
	"iter"

	"github.com/ssargent/notedb/pkg/codec"
)

// Field is one element of a tag: a 32 byte identifier or a text string.
type Field = codec.Field

// Tags is the lazy sequence of a note's tags. Each call to All starts a new
// walk over the bytes; nothing is cached.
type Tags struct {
	data []byte
}

// Tags returns the note's tag sequence.
func (n *Note) Tags() Tags {
	return Tags{data: n.data}
}

// Count is the number of tags recorded at encode time.
func (t Tags) Count() int {
	return codec.TagCount(t.data)
}

// All yields the tags in encoded order.
func (t Tags) All() iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		off := codec.TagsStart
		for i := 0; i < t.Count(); i++ {
			if !yield(Tag{data: t.data, off: off}) {
				return
			}
			off = codec.NextTag(t.data, off)
		}
	}
}

// Tag is a view of one tag.
type Tag struct {
	data []byte
	off  int
}

// Count is the number of fields in the tag.
func (t Tag) Count() int {
	return codec.TagFieldCount(t.data, t.off)
}

// Field returns field i. It panics if i is out of range, like a slice index.
func (t Tag) Field(i int) Field {
	if i < 0 || i >= t.Count() {
		panic("note: tag field index out of range")
	}
	return codec.TagField(t.data, t.off, i)
}

// Fields yields the fields in order.
func (t Tag) Fields() iter.Seq[Field] {
	return func(yield func(Field) bool) {
		for i := 0; i < t.Count(); i++ {
			if !yield(codec.TagField(t.data, t.off, i)) {
				return
			}
		}
	}
}

// Strings copies the tag into its text form.
func (t Tag) Strings() []string {
	out := make([]string, 0, t.Count())
	for f := range t.Fields() {
		out = append(out, f.String())
	}
	return out
}
