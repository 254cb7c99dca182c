package exchange

import (
	"encoding/json"
	"net/http"

	"groundchat/internal/domain"

	"github.com/go-chi/chi/v5"
)

// Handler is the http api layer for the stateless exchange endpoint.
type Handler struct {
	service Service
}

// NewHandler creates a new handler injecting the service.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes attaches the exchange endpoint to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// The caller owns the history and sends all of it with every turn.
	r.Post("/exchange", h.handleExchange)
}

// --- DTOs ---

// exchangeRequest is the DTO for what the client sends.
type exchangeRequest struct {
	History []domain.Message `json:"history"`
	Text    string           `json:"text"`
	Image   *domain.Image    `json:"image,omitempty"`
}

// --- Handlers ---

// handleExchange runs one exchange and returns the normalized result.
func (h *Handler) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Text == "" && req.Image == nil {
		writeError(w, http.StatusBadRequest, "Text or image is required")
		return
	}

	result := h.service.Exchange(r.Context(), req.History, req.Text, req.Image)
	if result.Failed() {
		writeJSON(w, http.StatusBadGateway, result)
		return
	}

	writeJSON(w, http.StatusOK, result)
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
