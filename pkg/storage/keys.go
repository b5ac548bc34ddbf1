package storage

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/segmentio/ksuid"
)

// Key layout. Every key starts with a one byte prefix followed by fixed width
// fields, so prefix scans need no separators. Integers are big-endian so
// byte order is numeric order.
//
//	n id                       -> encoded note
//	s ksuid                    -> id (arrival order)
//	r id                       -> ksuid (arrival entry of a stored note)
//	a pubkey created_at id     -> empty (author index)
//	k kind created_at id       -> empty (kind index)
//	e referenced_id id         -> empty (reply index)
const (
	prefixNote    byte = 'n'
	prefixArrival byte = 's'
	prefixArrRef  byte = 'r'
	prefixAuthor  byte = 'a'
	prefixKind    byte = 'k'
	prefixReply   byte = 'e'
)

const idLen = 32

func noteKey(id []byte) []byte {
	return append([]byte{prefixNote}, id...)
}

func arrivalKey(k ksuid.KSUID) []byte {
	return append([]byte{prefixArrival}, k.Bytes()...)
}

func arrivalRefKey(id []byte) []byte {
	return append([]byte{prefixArrRef}, id...)
}

func authorKey(pubkey []byte, createdAt uint32, id []byte) []byte {
	k := make([]byte, 0, 1+idLen+4+idLen)
	k = append(k, prefixAuthor)
	k = append(k, pubkey...)
	k = binary.BigEndian.AppendUint32(k, createdAt)
	return append(k, id...)
}

func kindPrefix(kind uint32) []byte {
	return binary.BigEndian.AppendUint32([]byte{prefixKind}, kind)
}

func kindKey(kind, createdAt uint32, id []byte) []byte {
	k := kindPrefix(kind)
	k = binary.BigEndian.AppendUint32(k, createdAt)
	return append(k, id...)
}

func replyKey(ref, id []byte) []byte {
	k := make([]byte, 0, 1+2*idLen)
	k = append(k, prefixReply)
	k = append(k, ref...)
	return append(k, id...)
}

// trailingID returns the note id that ends every index key.
func trailingID(key []byte) []byte {
	return key[len(key)-idLen:]
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func hexID(id [32]byte) string {
	return hex.EncodeToString(id[:])
}
