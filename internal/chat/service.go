package chat

//go:generate mockgen -destination=./service_mock_test.go -package=chat -source=service.go Service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"

	"groundchat/internal/domain"

	"github.com/google/uuid"
)

// Service defines the conversation store.
type Service interface {
	// Starts a new, empty conversation.
	CreateSession(ctx context.Context) (uuid.UUID, error)

	// Returns the conversation so far, oldest first.
	History(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error)

	// Appends the user message, runs one exchange and appends the model's reply.
	Submit(ctx context.Context, sessionID uuid.UUID, text string, image *domain.Image) (*Reply, error)

	// Discards a conversation.
	EndSession(ctx context.Context, sessionID uuid.UUID) error
}

// service is the concrete implementation of the Service interface.
type service struct {
	exchanger Exchanger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewService is the constructor for the conversation store.
func NewService(exchanger Exchanger) Service {
	return &service{
		exchanger: exchanger,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// CreateSession registers an empty session under a fresh id.
func (s *service) CreateSession(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = newSession()
	s.mu.Unlock()
	return id, nil
}

// History returns a copy of the session's messages.
func (s *service) History(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// Submit implements the idle -> awaiting-response -> idle cycle.
// The user message is appended before the exchange starts, so it stays in
// the history even when the exchange fails.
func (s *service) Submit(ctx context.Context, sessionID uuid.UUID, text string, image *domain.Image) (*Reply, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if text == "" && image == nil {
		return nil, ErrEmptySubmission
	}
	// A bad image would sit in the history and break every later exchange.
	if image != nil {
		if _, err := base64.StdEncoding.DecodeString(image.Base64); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}

	// Second submissions are rejected, never queued.
	if !sess.inflight.TryAcquire(1) {
		return nil, ErrExchangeInFlight
	}
	defer sess.inflight.Release(1)

	prior := sess.append(domain.NewUserMessage(text, image))

	result := s.exchanger.Exchange(ctx, prior, text, image)

	var reply Reply
	if result.Failed() {
		log.Printf("WARNING: exchange failed for session %s: %s", sessionID, result.Error)
		reply = Reply{
			Message: domain.NewModelMessage(errorReplyText(result.Error), nil),
			Error:   result.Error,
		}
	} else {
		reply = Reply{Message: domain.NewModelMessage(result.Text, result.Sources)}
	}

	sess.append(reply.Message)
	return &reply, nil
}

// EndSession drops the session and its history.
func (s *service) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *service) lookup(sessionID uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
