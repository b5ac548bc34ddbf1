// Package codec implements the compact binary layout NoteDB uses for events.
//
// An event ("note") is a signed, timestamped, tagged document. The codec turns
// the NIP-01 JSON text form into a single contiguous byte slice that can be
// read in place, without deserialization, either from memory this process
// owns or from pages handed out by the storage engine.
//
// # Layout
//
// All integers are little-endian.
//
//	offset  size  field
//	0       32    id
//	32      32    pubkey
//	64      64    sig
//	128     4     created_at
//	132     4     kind
//	136     4     strings_off  (absolute offset of the strings region)
//	140     4     strings_len
//	144     4     content      (offset into the strings region)
//	148     4     content_len
//	152     2     tag_count
//	154     2     reserved
//	156     ...   tags
//
// Each tag is a 4 byte header followed by one 4 byte reference per field:
//
//	[field_count(2)][reserved(2)][ref(4)]...
//
// A reference with bit 31 set points at a packed 32 byte identifier. Otherwise
// it points at a text string stored as a uvarint length followed by the bytes.
// Reference offsets are relative to the start of the strings region, so the
// region can be moved as a block. Content is stored raw and followed by a NUL.
//
// # Usage
//
//	buf := make([]byte, 1<<16)
//	n, err := codec.FromJSON(text, buf)
//	if err != nil {
//	    return err
//	}
//	data := buf[:n]
//	fmt.Println(codec.Kind(data), string(codec.Content(data)))
//
// The readers (ID, Pubkey, Content, TagField, ...) return slices that alias
// the input. They assume data has passed Validate or was produced by Builder;
// reading corrupt bytes may panic.
//
// # Thread Safety
//
// Readers are pure functions over immutable bytes and are safe for concurrent
// use. A Builder must not be shared between goroutines.
package codec
