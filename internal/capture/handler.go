package capture

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxFrameBytes caps the size of an uploaded frame.
const maxFrameBytes = 10 << 20

// Handler is the HTTP API layer for frame capture.
type Handler struct{}

// NewHandler creates a new capture handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches the capture endpoint to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// The page posts the frame it drew from the camera, or the error it got.
	r.Post("/capture", h.handleCapture)
}

// handleCapture normalizes an uploaded frame into a base64 JPEG.
// Multipart fields: "frame" (image file, optional) and "device_error" (DOMException name, optional).
func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFrameBytes)
	if err := r.ParseMultipartForm(maxFrameBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid capture payload")
		return
	}

	var data []byte
	file, _, err := r.FormFile("frame")
	switch {
	case err == nil:
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Could not read frame")
			return
		}
	case errors.Is(err, http.ErrMissingFile):
		// No frame; the device error (if any) decides the outcome.
	default:
		writeError(w, http.StatusBadRequest, "Invalid capture payload")
		return
	}

	img, err := Capture(r.Context(), NewUploadDevice(data, r.FormValue("device_error")))
	if err != nil {
		log.Printf("capture failed: %v", err)
		writeError(w, http.StatusUnprocessableEntity, UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, img)
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
