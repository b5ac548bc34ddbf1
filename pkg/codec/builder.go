package codec

import (
	"encoding/binary"
	"encoding/hex"
)

// Builder encodes an event into a caller supplied buffer.
//
// Tags grow forward from TagsStart and strings grow backward from the end of
// the buffer; the buffer is full only when the two meet. While building, a
// string reference holds its distance from the end of the buffer. Finish
// rewrites every reference relative to the start of the strings region and
// moves the region down so it directly follows the last tag.
type Builder struct {
	buf []byte

	tagsEnd int
	strLow  int

	tagCount  int
	curTag    int
	curFields int

	hasContent bool
	err        error
}

// NewBuilder returns a builder writing into buf. Errors are sticky: once a
// call fails, every later call and Finish return the same error.
func NewBuilder(buf []byte) *Builder {
	b := &Builder{buf: buf, curTag: -1}
	if len(buf) < HeaderSize+1 {
		b.err = ErrBufferTooSmall
		return b
	}
	clear(buf[:HeaderSize])
	b.tagsEnd = TagsStart
	b.strLow = len(buf)
	return b
}

func (b *Builder) SetID(id []byte) error {
	return b.setFixed(offID, id, IDSize)
}

func (b *Builder) SetPubkey(pubkey []byte) error {
	return b.setFixed(offPubkey, pubkey, IDSize)
}

func (b *Builder) SetSig(sig []byte) error {
	return b.setFixed(offSig, sig, SigSize)
}

func (b *Builder) SetCreatedAt(ts uint32) {
	if b.err == nil {
		le.PutUint32(b.buf[offCreatedAt:], ts)
	}
}

func (b *Builder) SetKind(kind uint32) {
	if b.err == nil {
		le.PutUint32(b.buf[offKind:], kind)
	}
}

// SetContent stores the content bytes. It may be called once.
func (b *Builder) SetContent(content []byte) error {
	if b.err != nil {
		return b.err
	}
	if b.hasContent {
		return b.fail(ErrInvalidField)
	}
	if uint64(len(content)) > uint64(^uint32(0)) {
		return b.fail(ErrInvalidField)
	}
	at, err := b.reserve(len(content) + 1)
	if err != nil {
		return b.fail(err)
	}
	copy(b.buf[at:], content)
	b.buf[at+len(content)] = 0
	le.PutUint32(b.buf[offContent:], b.distance(at))
	le.PutUint32(b.buf[offContentLen:], uint32(len(content)))
	b.hasContent = true
	return nil
}

// NewTag opens a new, empty tag. Fields are appended with PushTagString.
func (b *Builder) NewTag() error {
	if b.err != nil {
		return b.err
	}
	if b.tagCount == maxTags {
		return b.fail(ErrInvalidField)
	}
	if b.tagsEnd+tagHeaderSize > b.strLow {
		return b.fail(ErrBufferTooSmall)
	}
	le.PutUint32(b.buf[b.tagsEnd:], 0)
	b.curTag = b.tagsEnd
	b.curFields = 0
	b.tagsEnd += tagHeaderSize
	b.tagCount++
	return nil
}

// PushTagString appends a field to the open tag. Fields after the first that
// are 64 lowercase hex characters are packed as 32 byte identifiers.
func (b *Builder) PushTagString(s []byte) error {
	if b.err != nil {
		return b.err
	}
	if b.curTag < 0 {
		return b.fail(ErrNoTag)
	}
	if b.curFields == maxFields {
		return b.fail(ErrInvalidField)
	}
	// Claim the ref slot first so the string cannot take it.
	b.tagsEnd += fieldRefSize
	if b.tagsEnd > b.strLow {
		return b.fail(ErrBufferTooSmall)
	}

	var ref uint32
	var err error
	if b.curFields > 0 && isLowerHexID(s) {
		ref, err = b.pushID(s)
	} else {
		ref, err = b.pushString(s)
	}
	if err != nil {
		return b.fail(err)
	}

	le.PutUint32(b.buf[b.tagsEnd-fieldRefSize:], ref)
	b.curFields++
	le.PutUint16(b.buf[b.curTag:], uint16(b.curFields))
	return nil
}

// AddTag opens a tag and pushes every field.
func (b *Builder) AddTag(fields ...string) error {
	if err := b.NewTag(); err != nil {
		return err
	}
	for _, f := range fields {
		if err := b.PushTagString([]byte(f)); err != nil {
			return err
		}
	}
	return nil
}

// Finish compacts the buffer and returns the encoded length. The event is
// buf[:n].
func (b *Builder) Finish() (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if !b.hasContent {
		if err := b.SetContent(nil); err != nil {
			return 0, err
		}
	}
	strLen := uint32(len(b.buf) - b.strLow)

	off := TagsStart
	for i := 0; i < b.tagCount; i++ {
		fields := TagFieldCount(b.buf, off)
		for j := 0; j < fields; j++ {
			at := off + tagHeaderSize + fieldRefSize*j
			ref := le.Uint32(b.buf[at:])
			le.PutUint32(b.buf[at:], (strLen-(ref&refOffset))|(ref&packedID))
		}
		off = NextTag(b.buf, off)
	}
	le.PutUint32(b.buf[offContent:], strLen-le.Uint32(b.buf[offContent:]))
	copy(b.buf[b.tagsEnd:], b.buf[b.strLow:])

	le.PutUint32(b.buf[offStrings:], uint32(b.tagsEnd))
	le.PutUint32(b.buf[offStringsLen:], uint32(strLen))
	le.PutUint16(b.buf[offTagCount:], uint16(b.tagCount))
	le.PutUint16(b.buf[offTagCount+2:], 0)

	return b.tagsEnd + int(strLen), nil
}

func (b *Builder) setFixed(off int, v []byte, size int) error {
	if b.err != nil {
		return b.err
	}
	if len(v) != size {
		return b.fail(ErrInvalidField)
	}
	copy(b.buf[off:off+size], v)
	return nil
}

// reserve claims size bytes at the low end of the strings region and
// returns their offset.
func (b *Builder) reserve(size int) (int, error) {
	if size > b.strLow-b.tagsEnd {
		return 0, ErrBufferTooSmall
	}
	if uint64(len(b.buf)-b.strLow+size) > uint64(refOffset) {
		return 0, ErrBufferTooSmall
	}
	b.strLow -= size
	return b.strLow, nil
}

// distance is the position of at counted back from the end of the buffer.
func (b *Builder) distance(at int) uint32 {
	return uint32(len(b.buf) - at)
}

func (b *Builder) pushString(s []byte) (uint32, error) {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
	at, err := b.reserve(n + len(s))
	if err != nil {
		return 0, err
	}
	copy(b.buf[at:], lenBuf[:n])
	copy(b.buf[at+n:], s)
	return b.distance(at), nil
}

func (b *Builder) pushID(s []byte) (uint32, error) {
	var id [IDSize]byte
	if _, err := hex.Decode(id[:], s); err != nil {
		return 0, ErrInvalidField
	}
	at, err := b.reserve(IDSize)
	if err != nil {
		return 0, err
	}
	copy(b.buf[at:], id[:])
	return b.distance(at) | packedID, nil
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return b.err
}

func isLowerHexID(s []byte) bool {
	if len(s) != 2*IDSize {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
