package codec

import (
	"encoding/binary"
	"errors"
)

const (
	// IDSize is the size of an event id, a pubkey and a packed tag identifier.
	IDSize = 32
	// SigSize is the size of a schnorr signature.
	SigSize = 64
	// HeaderSize is the fixed part of an encoded event.
	HeaderSize = 156
	// TagsStart is the offset of the first tag.
	TagsStart = HeaderSize

	offID         = 0
	offPubkey     = 32
	offSig        = 64
	offCreatedAt  = 128
	offKind       = 132
	offStrings    = 136
	offStringsLen = 140
	offContent    = 144
	offContentLen = 148
	offTagCount   = 152

	tagHeaderSize = 4
	fieldRefSize  = 4

	packedID  = uint32(1) << 31
	refOffset = packedID - 1

	maxTags   = 1<<16 - 1
	maxFields = 1<<16 - 1
)

var (
	ErrBufferTooSmall = errors.New("codec: buffer too small")
	ErrInvalidJSON    = errors.New("codec: invalid json")
	ErrInvalidField   = errors.New("codec: invalid field")
	ErrCorrupt        = errors.New("codec: corrupt event")
	ErrNoTag          = errors.New("codec: no open tag")
)

var le = binary.LittleEndian

// ID returns the event id. The slice aliases data.
func ID(data []byte) []byte {
	return data[offID : offID+IDSize]
}

// Pubkey returns the author key. The slice aliases data.
func Pubkey(data []byte) []byte {
	return data[offPubkey : offPubkey+IDSize]
}

// Sig returns the signature bytes. The slice aliases data.
func Sig(data []byte) []byte {
	return data[offSig : offSig+SigSize]
}

func CreatedAt(data []byte) uint32 {
	return le.Uint32(data[offCreatedAt:])
}

func Kind(data []byte) uint32 {
	return le.Uint32(data[offKind:])
}

// ContentLen returns the raw content length in bytes.
func ContentLen(data []byte) uint32 {
	return le.Uint32(data[offContentLen:])
}

// Content returns the raw content bytes. The slice aliases data.
func Content(data []byte) []byte {
	start := stringsOff(data) + int(le.Uint32(data[offContent:]))
	return data[start : start+int(ContentLen(data))]
}

// TagCount returns the number of tags recorded when the event was encoded.
func TagCount(data []byte) int {
	return int(le.Uint16(data[offTagCount:]))
}

// TagFieldCount returns the number of fields of the tag starting at off.
func TagFieldCount(data []byte, off int) int {
	return int(le.Uint16(data[off:]))
}

// NextTag returns the offset of the tag following the one at off.
func NextTag(data []byte, off int) int {
	return off + tagHeaderSize + fieldRefSize*TagFieldCount(data, off)
}

// TagField returns field i of the tag starting at off.
func TagField(data []byte, off, i int) Field {
	ref := le.Uint32(data[off+tagHeaderSize+fieldRefSize*i:])
	base := stringsOff(data) + int(ref&refOffset)
	if ref&packedID != 0 {
		return Field{kind: FieldID, b: data[base : base+IDSize]}
	}
	l, n := binary.Uvarint(data[base:])
	start := base + n
	return Field{kind: FieldString, b: data[start : start+int(l)]}
}

func stringsOff(data []byte) int {
	return int(le.Uint32(data[offStrings:]))
}
