// Package web serves the chat page and renders conversation transcripts.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"groundchat/internal/domain"
	"groundchat/internal/format"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var staticFiles embed.FS

//go:embed transcript.html.tmpl
var transcriptSource string

var transcriptTemplate = template.Must(template.New("transcript").Funcs(template.FuncMap{
	"format":  format.HTML,
	"dataURL": dataURL,
}).Parse(transcriptSource))

// dataURL builds an inline image URL. Only image types are let through.
func dataURL(part domain.InlineDataPart) template.URL {
	if !strings.HasPrefix(part.MimeType, "image/") || strings.ContainsAny(part.MimeType, ";,\"' ") {
		return ""
	}
	return template.URL("data:" + part.MimeType + ";base64," + part.Data)
}

// RenderTranscript writes the HTML fragment for a conversation.
func RenderTranscript(w io.Writer, messages []domain.Message) error {
	return transcriptTemplate.Execute(w, messages)
}

// Handler serves the page and its assets.
type Handler struct {
	files  fs.FS
	assets http.Handler
}

// NewHandler creates the page handler.
func NewHandler() *Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return &Handler{files: sub, assets: http.FileServer(http.FS(sub))}
}

// RegisterRoutes attaches the page routes to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", h.assets))
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.files, "index.html")
}
