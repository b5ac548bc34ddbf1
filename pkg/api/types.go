package api

import (
	"iter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssargent/notedb/pkg/codec"
	"github.com/ssargent/notedb/pkg/note"
	"github.com/ssargent/notedb/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NoteResponse is a note in NIP-01 form plus derived fields
type NoteResponse struct {
	codec.Event
	KindName string `json:"kind_name,omitempty"`
	TooBig   bool   `json:"too_big,omitempty"`
}

// ReferenceResponse is one tag matched by a reference query
type ReferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	IsID  bool   `json:"is_id"`
}

// CreatedResponse is returned after a note is stored
type CreatedResponse struct {
	ID string `json:"id"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
	// MaxBodyBytes bounds POST bodies; 0 means 1 MiB.
	MaxBodyBytes int64
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NoteStore is the part of the store the API reads and writes
type NoteStore interface {
	View(id [32]byte, fn func(*note.Note) error) error
	PutJSON(text []byte) ([32]byte, error)
	Replies(id [32]byte) iter.Seq2[*note.Note, error]
	ByAuthor(pubkey [32]byte) iter.Seq2[*note.Note, error]
	Recent() iter.Seq2[*note.Note, error]
	Stats() storage.Stats
}

var _ NoteStore = (*storage.Store)(nil)

// newNoteResponse copies n out of its read window
func newNoteResponse(n *note.Note) NoteResponse {
	resp := NoteResponse{Event: codec.ToEvent(n.Bytes()), TooBig: n.TooBig()}
	resp.Content = n.Content()
	resp.KindName, _ = n.KnownKind()
	return resp
}
