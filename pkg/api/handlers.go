package api

import (
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/ssargent/notedb/pkg/codec"
	"github.com/ssargent/notedb/pkg/note"
	"github.com/ssargent/notedb/pkg/storage"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Server holds the API server state
type Server struct {
	store   NoteStore
	config  ServerConfig
	metrics *Metrics
	log     *slog.Logger
}

// NewServer creates a new API server
func NewServer(store NoteStore, config ServerConfig, metrics *Metrics, log *slog.Logger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 1 << 20
	}
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleGetNote godoc
//
//	@Summary		Get a note
//	@Description	Get a stored note by its hex id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id (64 hex characters)"
//	@Success		200	{object}	NoteResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/notes/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var resp NoteResponse
	err := s.store.View(id, func(n *note.Note) error {
		resp = newNoteResponse(n)
		return nil
	})
	if err != nil {
		s.sendStoreError(w, err)
		return
	}
	sendSuccess(w, resp)
}

// handleRefs godoc
//
//	@Summary		List references
//	@Description	List the tags of a note whose first field equals key
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Param			key	query		string	false	"Tag key (default e)"
//	@Success		200	{array}		ReferenceResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/notes/{id}/refs [get]
//	@Security		ApiKeyAuth
func (s *Server) handleRefs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		key = note.KeyEvent
	}

	refs := []ReferenceResponse{}
	err := s.store.View(id, func(n *note.Note) error {
		for ref := range n.References(key).All() {
			refs = append(refs, ReferenceResponse{
				Key:   ref.Key,
				Value: ref.Value.String(),
				IsID:  ref.Value.IsID(),
			})
		}
		return nil
	})
	if err != nil {
		s.sendStoreError(w, err)
		return
	}
	sendSuccess(w, refs)
}

// handleReplies godoc
//
//	@Summary		List replies
//	@Description	List notes whose e tags reference the note
//	@Tags			notes
//	@Produce		json
//	@Param			id		path		string	true	"Note id"
//	@Param			limit	query		int		false	"Maximum notes"
//	@Success		200		{array}		NoteResponse
//	@Failure		400		{object}	APIResponse
//	@Router			/notes/{id}/replies [get]
//	@Security		ApiKeyAuth
func (s *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.sendNotes(w, r, s.store.Replies(id))
}

// handleAuthorNotes godoc
//
//	@Summary		List an author's notes
//	@Description	List notes signed by pubkey, newest first
//	@Tags			notes
//	@Produce		json
//	@Param			pubkey	path		string	true	"Author key"
//	@Param			limit	query		int		false	"Maximum notes"
//	@Success		200		{array}		NoteResponse
//	@Failure		400		{object}	APIResponse
//	@Router			/authors/{pubkey}/notes [get]
//	@Security		ApiKeyAuth
func (s *Server) handleAuthorNotes(w http.ResponseWriter, r *http.Request) {
	pubkey, ok := pathID(w, r, "pubkey")
	if !ok {
		return
	}
	s.sendNotes(w, r, s.store.ByAuthor(pubkey))
}

// handleRecent godoc
//
//	@Summary		List recent notes
//	@Description	List notes in reverse arrival order
//	@Tags			notes
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum notes"
//	@Success		200		{array}		NoteResponse
//	@Router			/notes [get]
//	@Security		ApiKeyAuth
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	s.sendNotes(w, r, s.store.Recent())
}

// handlePostNote godoc
//
//	@Summary		Store a note
//	@Description	Decode a NIP-01 event and store it
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Event"
//	@Success		201		{object}	CreatedResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Failure		413		{object}	APIResponse
//	@Router			/notes [post]
//	@Security		ApiKeyAuth
func (s *Server) handlePostNote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	id, err := s.store.PutJSON(body)
	switch {
	case err == nil:
		sendCreated(w, CreatedResponse{ID: hex.EncodeToString(id[:])})
	case errors.Is(err, storage.ErrExists):
		sendError(w, "Note already stored", http.StatusConflict)
	case errors.Is(err, note.ErrDecode), errors.Is(err, codec.ErrCorrupt):
		sendError(w, err.Error(), http.StatusBadRequest)
	default:
		s.sendStoreError(w, err)
	}
}

// handleStats godoc
//
//	@Summary		Store statistics
//	@Tags			diagnostics
//	@Produce		json
//	@Success		200	{object}	storage.Stats
//	@Router			/stats [get]
//	@Security		ApiKeyAuth
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, s.store.Stats())
}

// sendNotes copies up to ?limit notes out of seq and sends them
func (s *Server) sendNotes(w http.ResponseWriter, r *http.Request, seq iter.Seq2[*note.Note, error]) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	notes := []NoteResponse{}
	for n, err := range seq {
		if err != nil {
			s.sendStoreError(w, err)
			return
		}
		notes = append(notes, newNoteResponse(n))
		if len(notes) >= limit {
			break
		}
	}
	sendSuccess(w, notes)
}

func (s *Server) sendStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		sendError(w, "Note not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrClosed):
		sendError(w, "Store is closed", http.StatusServiceUnavailable)
	default:
		s.log.Error("store error", "error", err)
		sendError(w, "Internal error", http.StatusInternalServerError)
	}
}

// pathID parses a 64 character hex URL parameter
func pathID(w http.ResponseWriter, r *http.Request, name string) ([32]byte, bool) {
	var id [32]byte
	raw := chi.URLParam(r, name)
	if len(raw) != 2*len(id) {
		sendError(w, fmt.Sprintf("%s must be %d hex characters", name, 2*len(id)), http.StatusBadRequest)
		return id, false
	}
	if _, err := hex.Decode(id[:], []byte(raw)); err != nil {
		sendError(w, fmt.Sprintf("%s is not valid hex", name), http.StatusBadRequest)
		return id, false
	}
	return id, true
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.Errorf("invalid limit %q", raw)
	}
	return min(n, maxLimit), nil
}

// startMetricsUpdater refreshes the store gauges until done is closed
func (s *Server) startMetricsUpdater(done <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.store.Stats()
		}
	}
}
