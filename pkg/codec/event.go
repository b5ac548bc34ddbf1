package codec

import (
	"bytes"
	"encoding/hex"

	json "github.com/goccy/go-json"
)

// Event is the NIP-01 text form of an encoded event.
type Event struct {
	ID        string     `json:"id"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt uint32     `json:"created_at"`
	Kind      uint32     `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig,omitempty"`
}

var zeroSig [SigSize]byte

// ToEvent materializes data into an Event. Every field is copied. Sig is
// left empty when the event was encoded without one.
func ToEvent(data []byte) Event {
	ev := Event{
		ID:        hex.EncodeToString(ID(data)),
		Pubkey:    hex.EncodeToString(Pubkey(data)),
		CreatedAt: CreatedAt(data),
		Kind:      Kind(data),
		Tags:      make([][]string, 0, TagCount(data)),
		Content:   string(Content(data)),
	}
	if sig := Sig(data); !bytes.Equal(sig, zeroSig[:]) {
		ev.Sig = hex.EncodeToString(sig)
	}
	off := TagsStart
	for i := 0; i < TagCount(data); i++ {
		n := TagFieldCount(data, off)
		tag := make([]string, n)
		for j := range tag {
			tag[j] = TagField(data, off, j).String()
		}
		ev.Tags = append(ev.Tags, tag)
		off = NextTag(data, off)
	}
	return ev
}

// MarshalEvent returns the JSON text of data.
func MarshalEvent(data []byte) ([]byte, error) {
	return json.Marshal(ToEvent(data))
}

// Encode is the inverse of ToEvent: it builds ev into buf.
func Encode(ev Event, buf []byte) (int, error) {
	text, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}
	return FromJSON(text, buf)
}
