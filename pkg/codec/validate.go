package codec

import (
	"encoding/binary"
	"fmt"
)

// Validate walks every offset in data and reports ErrCorrupt if any of them
// points outside the event. Bytes that pass are safe for all readers.
func Validate(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}

	so := uint64(le.Uint32(data[offStrings:]))
	sl := uint64(le.Uint32(data[offStringsLen:]))
	if so < TagsStart || so+sl > uint64(len(data)) {
		return fmt.Errorf("%w: strings region [%d,+%d) outside %d bytes", ErrCorrupt, so, sl, len(data))
	}
	strs := data[so : so+sl]

	co := uint64(le.Uint32(data[offContent:]))
	cl := uint64(ContentLen(data))
	if co+cl > sl {
		return fmt.Errorf("%w: content outside strings region", ErrCorrupt)
	}

	off := uint64(TagsStart)
	for i := 0; i < TagCount(data); i++ {
		if off+tagHeaderSize > so {
			return fmt.Errorf("%w: tag %d header outside tag region", ErrCorrupt, i)
		}
		fields := uint64(le.Uint16(data[off:]))
		if off+tagHeaderSize+fieldRefSize*fields > so {
			return fmt.Errorf("%w: tag %d fields outside tag region", ErrCorrupt, i)
		}
		for j := uint64(0); j < fields; j++ {
			ref := le.Uint32(data[off+tagHeaderSize+fieldRefSize*j:])
			if err := validateRef(strs, ref); err != nil {
				return fmt.Errorf("%w: tag %d field %d: %v", ErrCorrupt, i, j, err)
			}
		}
		off += tagHeaderSize + fieldRefSize*fields
	}
	return nil
}

func validateRef(strs []byte, ref uint32) error {
	o := uint64(ref & refOffset)
	if ref&packedID != 0 {
		if o+IDSize > uint64(len(strs)) {
			return fmt.Errorf("identifier at %d overruns", o)
		}
		return nil
	}
	if o >= uint64(len(strs)) {
		return fmt.Errorf("string at %d overruns", o)
	}
	l, n := binary.Uvarint(strs[o:])
	if n <= 0 {
		return fmt.Errorf("bad string length at %d", o)
	}
	if o+uint64(n)+l > uint64(len(strs)) || l > uint64(len(strs)) {
		return fmt.Errorf("string at %d of length %d overruns", o, l)
	}
	return nil
}
