package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/buger/jsonparser"
)

const (
	seenID = 1 << iota
	seenPubkey
	seenCreatedAt
	seenKind
	seenContent

	seenRequired = seenID | seenPubkey | seenCreatedAt | seenKind | seenContent
)

// FromJSON parses a NIP-01 event into buf and returns the encoded length.
// On error the contents of buf are unspecified and n is 0.
//
// id and pubkey must be 64 hex characters, sig (optional) 128. Unknown keys
// are ignored.
func FromJSON(text, buf []byte) (n int, err error) {
	b := NewBuilder(buf)
	var seen int

	err = jsonparser.ObjectEach(text, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		switch string(key) {
		case "id":
			seen |= seenID
			return decodeHexField(b.SetID, value, dt, IDSize, "id")
		case "pubkey":
			seen |= seenPubkey
			return decodeHexField(b.SetPubkey, value, dt, IDSize, "pubkey")
		case "sig":
			return decodeHexField(b.SetSig, value, dt, SigSize, "sig")
		case "created_at":
			seen |= seenCreatedAt
			v, err := parseUint32(value, dt, "created_at")
			if err != nil {
				return err
			}
			b.SetCreatedAt(v)
		case "kind":
			seen |= seenKind
			v, err := parseUint32(value, dt, "kind")
			if err != nil {
				return err
			}
			b.SetKind(v)
		case "content":
			seen |= seenContent
			s, err := unescape(value, dt, "content")
			if err != nil {
				return err
			}
			return b.SetContent(s)
		case "tags":
			if dt == jsonparser.Null {
				return nil
			}
			return decodeTags(b, value, dt)
		}
		return nil
	})
	if err != nil {
		return 0, wrapJSONError(err)
	}
	if seen&seenRequired != seenRequired {
		return 0, fmt.Errorf("%w: missing required key", ErrInvalidField)
	}
	return b.Finish()
}

func decodeTags(b *Builder, value []byte, dt jsonparser.ValueType) error {
	if dt != jsonparser.Array {
		return fmt.Errorf("%w: tags must be an array", ErrInvalidField)
	}
	var cbErr error
	_, err := jsonparser.ArrayEach(value, func(tag []byte, dt jsonparser.ValueType, _ int, err error) {
		if cbErr != nil {
			return
		}
		if err != nil {
			cbErr = err
			return
		}
		if dt != jsonparser.Array {
			cbErr = fmt.Errorf("%w: tag must be an array", ErrInvalidField)
			return
		}
		if cbErr = b.NewTag(); cbErr != nil {
			return
		}
		_, err = jsonparser.ArrayEach(tag, func(f []byte, dt jsonparser.ValueType, _ int, err error) {
			if cbErr != nil {
				return
			}
			if err != nil {
				cbErr = err
				return
			}
			s, err := unescape(f, dt, "tag field")
			if err != nil {
				cbErr = err
				return
			}
			cbErr = b.PushTagString(s)
		})
		if cbErr == nil && err != nil {
			cbErr = err
		}
	})
	if cbErr != nil {
		return cbErr
	}
	return err
}

func decodeHexField(set func([]byte) error, value []byte, dt jsonparser.ValueType, size int, name string) error {
	if dt != jsonparser.String || len(value) != 2*size {
		return fmt.Errorf("%w: %s must be %d hex characters", ErrInvalidField, name, 2*size)
	}
	var tmp [SigSize]byte
	if _, err := hex.Decode(tmp[:size], value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return set(tmp[:size])
}

func parseUint32(value []byte, dt jsonparser.ValueType, name string) (uint32, error) {
	if dt != jsonparser.Number {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidField, name)
	}
	v, err := jsonparser.ParseInt(value)
	if err != nil || v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidField, name)
	}
	return uint32(v), nil
}

func unescape(value []byte, dt jsonparser.ValueType, name string) ([]byte, error) {
	if dt != jsonparser.String {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidField, name)
	}
	// Unescape returns value itself when there is nothing to unescape.
	s, err := jsonparser.Unescape(value, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, name, err)
	}
	return s, nil
}

// wrapJSONError keeps codec errors as they are and files everything the
// parser reports under ErrInvalidJSON.
func wrapJSONError(err error) error {
	for _, known := range []error{ErrBufferTooSmall, ErrInvalidField, ErrInvalidJSON, ErrNoTag} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}
