package note

import (
	"iter"
)

const (
	KeyEvent  = "e"
	KeyPubkey = "p"
)

// Reference is a tag whose first field matched a selector key. Value is the
// tag's second field exactly as stored; check Value.Kind or use ID before
// treating it as an identifier.
type Reference struct {
	Key   string
	Value Field
}

// ID returns the referenced identifier. ok is false when the value was
// stored as text.
func (r Reference) ID() ([32]byte, bool) {
	return r.Value.ID()
}

// References is a lazy, filtered view over a tag sequence.
type References struct {
	tags iter.Seq[Tag]
	key  string
}

// References returns the tags whose first field is key. Any key is allowed;
// one that never appears gives an empty view.
func (n *Note) References(key string) References {
	return filterReferences(n.Tags().All(), key)
}

// ReferencedIDs is References("e").
func (n *Note) ReferencedIDs() References {
	return n.References(KeyEvent)
}

// ReferencedPubkeys is References("p").
func (n *Note) ReferencedPubkeys() References {
	return n.References(KeyPubkey)
}

func filterReferences(tags iter.Seq[Tag], key string) References {
	return References{tags: tags, key: key}
}

// All yields one Reference per matching tag, in tag order. Tags with fewer
// than two fields are skipped.
func (r References) All() iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		for tag := range r.tags {
			if tag.Count() < 2 {
				continue
			}
			k := tag.Field(0)
			if k.IsID() || !k.Equal(r.key) {
				continue
			}
			if !yield(Reference{Key: r.key, Value: tag.Field(1)}) {
				return
			}
		}
	}
}

// IDs yields the identifiers of references stored as identifiers and skips
// text values.
func (r References) IDs() iter.Seq[[32]byte] {
	return func(yield func([32]byte) bool) {
		for ref := range r.All() {
			id, ok := ref.ID()
			if !ok {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// First returns the first reference without walking the rest of the tags.
func (r References) First() (Reference, bool) {
	for ref := range r.All() {
		return ref, true
	}
	return Reference{}, false
}

// Count walks the whole view.
func (r References) Count() int {
	n := 0
	for range r.All() {
		n++
	}
	return n
}
