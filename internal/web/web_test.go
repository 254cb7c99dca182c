package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"groundchat/internal/domain"

	"github.com/go-chi/chi/v5"
)

func TestRenderTranscript(t *testing.T) {
	messages := []domain.Message{
		domain.NewUserMessage("<script>x</script> what is this?", &domain.Image{Base64: "AAAA", MimeType: "image/jpeg"}),
		domain.NewModelMessage("It is **a cat**.", []domain.Source{{URI: "https://cats.example/a", Title: "Cats"}}),
	}

	var buf bytes.Buffer
	if err := RenderTranscript(&buf, messages); err != nil {
		t.Fatalf("RenderTranscript() returned unexpected error: %v", err)
	}
	out := buf.String()

	wants := []string{
		`class="bubble user"`,
		`class="bubble model"`,
		`&lt;script&gt;x&lt;/script&gt; what is this?`,
		`src="data:image/jpeg;base64,AAAA"`,
		`<strong>a cat</strong>`,
		`<a href="https://cats.example/a" target="_blank" rel="noopener noreferrer">Cats</a>`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("transcript is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("transcript contains unescaped markup:\n%s", out)
	}
}

func TestRenderTranscript_RejectsNonImageData(t *testing.T) {
	messages := []domain.Message{
		domain.NewUserMessage("", &domain.Image{Base64: "AAAA", MimeType: "text/html"}),
	}

	var buf bytes.Buffer
	if err := RenderTranscript(&buf, messages); err != nil {
		t.Fatalf("RenderTranscript() returned unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "data:text/html") {
		t.Errorf("non-image data URL was rendered:\n%s", buf.String())
	}
}

func TestHandleIndex(t *testing.T) {
	r := chi.NewRouter()
	NewHandler().RegisterRoutes(r)

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `<script src="/static/app.js"></script>`) {
		t.Errorf("index page was not served")
	}

	req = httptest.NewRequest("GET", "/static/app.js", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d for app.js, got %d", http.StatusOK, rr.Code)
	}
}

func TestAppScript_ReleasesStreamBeforeReacquiring(t *testing.T) {
	data, err := staticFiles.ReadFile("static/app.js")
	if err != nil {
		t.Fatalf("could not read app.js: %v", err)
	}
	src := string(data)

	click := strings.Index(src, "getElementById('camera').addEventListener")
	if click < 0 {
		t.Fatal("camera click handler not found")
	}
	handler := src[click:]
	stop := strings.Index(handler, "stopStream();")
	acquire := strings.Index(handler, "getUserMedia(")
	if stop < 0 || acquire < 0 || stop > acquire {
		t.Errorf("camera handler must stop the open stream before requesting a new one")
	}
}
