package chat

import (
	"errors"
	"fmt"
	"sync"

	"groundchat/internal/domain"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrSessionNotFound is returned for an unknown or ended session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptySubmission is returned when there is no text and no image. Nothing is appended.
	ErrEmptySubmission = errors.New("nothing to submit")
	// ErrExchangeInFlight is returned while the session is still awaiting a reply.
	ErrExchangeInFlight = errors.New("an exchange is already in flight for this session")
	// ErrInvalidImage is returned when the attached image is not valid base64. Nothing is appended.
	ErrInvalidImage = errors.New("invalid image data")
)

// Reply is the outcome of one submission.
type Reply struct {
	// Message is the model message appended to the history.
	Message domain.Message `json:"message"`
	// Error is the raw exchange error, for transient display. Empty on success.
	Error string `json:"error,omitempty"`
}

// errorReplyText wraps an exchange error for the chat bubble.
func errorReplyText(raw string) string {
	return fmt.Sprintf("Sorry, I couldn't get an answer: %s", raw)
}

// session is one browser tab's conversation. The history only grows.
type session struct {
	mu      sync.Mutex
	history []domain.Message

	// inflight has a single slot; holding it means the session is awaiting a reply.
	inflight *semaphore.Weighted
}

func newSession() *session {
	return &session{
		inflight: semaphore.NewWeighted(1),
	}
}

// append adds msg and returns a copy of the history as it was before the append.
func (s *session) append(msg domain.Message) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := make([]domain.Message, len(s.history))
	copy(prior, s.history)
	s.history = append(s.history, msg)
	return prior
}

// snapshot returns a copy of the current history.
func (s *session) snapshot() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.history))
	copy(out, s.history)
	return out
}
