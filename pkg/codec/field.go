package codec

import (
	"bytes"
	"encoding/hex"
)

// FieldKind discriminates the two kinds of tag field.
type FieldKind uint8

const (
	FieldString FieldKind = iota
	FieldID
)

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "string"
	case FieldID:
		return "id"
	default:
		return "unknown"
	}
}

// Field is one element of a tag, a view into the encoded event.
type Field struct {
	kind FieldKind
	b    []byte
}

func (f Field) Kind() FieldKind { return f.kind }

func (f Field) IsID() bool { return f.kind == FieldID }

// Bytes returns the raw payload: 32 bytes for an identifier, the UTF-8 text
// otherwise. The slice aliases the event bytes.
func (f Field) Bytes() []byte { return f.b }

// String returns the text of a string field, or the lowercase hex form of an
// identifier field, which is how it appeared in the JSON text.
func (f Field) String() string {
	if f.kind == FieldID {
		return hex.EncodeToString(f.b)
	}
	return string(f.b)
}

// ID returns a copy of the identifier. ok is false for string fields.
func (f Field) ID() (id [IDSize]byte, ok bool) {
	if f.kind != FieldID || len(f.b) != IDSize {
		return id, false
	}
	copy(id[:], f.b)
	return id, true
}

// Equal reports whether the field matches s as it would appear in JSON.
func (f Field) Equal(s string) bool {
	if f.kind != FieldID {
		return string(f.b) == s
	}
	if len(s) != 2*IDSize {
		return false
	}
	var id [IDSize]byte
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return false
	}
	return bytes.Equal(id[:], f.b)
}
