package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"groundchat/internal/domain"
	"groundchat/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler is the HTTP API layer for the conversation store.
type Handler struct {
	service Service
}

// NewHandler creates a new handler.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes attaches all chat-related endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/sessions", h.handleCreateSession)

	r.Route("/chat/sessions/{id}", func(r chi.Router) {
		r.Get("/messages", h.handleGetHistory)
		r.Post("/messages", h.handleSubmit)
		r.Get("/transcript", h.handleGetTranscript)
		r.Delete("/", h.handleEndSession)
	})
}

// --- DTOs ---

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type submitRequest struct {
	Text  string        `json:"text"`
	Image *domain.Image `json:"image,omitempty"`
}

// handleCreateSession starts an empty conversation for the page.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.CreateSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create session")
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id.String()})
}

// handleGetHistory returns the conversation as JSON.
func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not fetch history")
		return
	}
	if history == nil {
		history = []domain.Message{}
	}

	writeJSON(w, http.StatusOK, history)
}

// handleSubmit runs one exchange for the session.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Image != nil && req.Image.Base64 == "" {
		req.Image = nil
	}

	// Once started, the exchange runs to completion even if the page goes away.
	ctx := context.WithoutCancel(r.Context())

	reply, err := h.service.Submit(ctx, id, req.Text, req.Image)
	if err != nil {
		writeServiceError(w, err, "Could not submit message")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// handleGetTranscript renders the conversation as an HTML fragment.
func (h *Handler) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not fetch history")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.RenderTranscript(w, history); err != nil {
		log.Printf("could not render transcript for session %s: %v", id, err)
	}
}

// handleEndSession discards the conversation.
func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.EndSession(r.Context(), id); err != nil {
		writeServiceError(w, err, "Could not end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionID parses the {id} path parameter, writing a 400 when it is malformed.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps store errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrEmptySubmission):
		// Nothing was appended and nothing was sent.
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "Invalid image data")
	case errors.Is(err, ErrExchangeInFlight):
		writeError(w, http.StatusConflict, "Still waiting for the previous reply")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// writeJSON is a helper function for sending json responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for sending a standardized json error.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
