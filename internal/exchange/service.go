package exchange

//go:generate mockgen -destination=./service_mock_test.go -package=exchange -source=service.go Service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"groundchat/internal/domain"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var (
	// ErrEmptyTurn is reported when there is neither text nor an image to send.
	ErrEmptyTurn = errors.New("nothing to send: text and image are both empty")
	// ErrNoCandidates is reported when the provider answers without a candidate.
	ErrNoCandidates = errors.New("provider returned no candidates")
)

// Service defines the exchange adapter.
type Service interface {
	// Exchange sends the prior history plus one new user turn and normalizes the reply.
	// It never returns a Go error: every failure is folded into Result.Error.
	Exchange(ctx context.Context, history []domain.Message, text string, image *domain.Image) Result
}

// service is the concrete implementation of the Service interface.
type service struct {
	gemini Generator // client for the external Gemini API
	model  string
}

// NewService is the constructor for the exchange adapter.
func NewService(gemini Generator, model string) Service {
	if model == "" {
		model = DefaultModel
	}
	return &service{
		gemini: gemini,
		model:  model,
	}
}

// searchConfig enables web-search grounding on every request.
func searchConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
}

// Exchange implements the Service interface.
func (s *service) Exchange(ctx context.Context, history []domain.Message, text string, image *domain.Image) Result {
	if text == "" && image == nil {
		return failure(ErrEmptyTurn)
	}

	contents, err := buildContents(history, text, image)
	if err != nil {
		log.Printf("exchange: could not build request: %v", err)
		return failure(err)
	}

	resp, err := s.gemini.GenerateContent(ctx, s.model, contents, searchConfig())
	if err != nil {
		log.Printf("exchange: gemini call failed: %v", err)
		return failure(err)
	}

	result, err := normalize(resp)
	if err != nil {
		log.Printf("exchange: unusable gemini response: %v", err)
		return failure(err)
	}
	return result
}

// buildContents maps the history to provider turns and appends the new user
// turn: text first, then the image.
func buildContents(history []domain.Message, text string, image *domain.Image) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for i, msg := range history {
		parts := make([]*genai.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			part, err := toGenaiPart(p)
			if err != nil {
				return nil, fmt.Errorf("could not map history message %d: %w", i, err)
			}
			parts = append(parts, part)
		}
		contents = append(contents, &genai.Content{Role: string(msg.Role), Parts: parts})
	}

	turn := &genai.Content{Role: string(domain.RoleUser)}
	if text != "" {
		turn.Parts = append(turn.Parts, &genai.Part{Text: text})
	}
	if image != nil {
		part, err := toGenaiPart(domain.InlineDataPart{MimeType: image.MimeType, Data: image.Base64})
		if err != nil {
			return nil, fmt.Errorf("could not map image: %w", err)
		}
		turn.Parts = append(turn.Parts, part)
	}
	return append(contents, turn), nil
}

// toGenaiPart re-expresses one local part. An EmptyPart becomes an empty
// provider part.
func toGenaiPart(p domain.Part) (*genai.Part, error) {
	switch v := p.(type) {
	case domain.TextPart:
		return &genai.Part{Text: v.Text}, nil
	case domain.InlineDataPart:
		data, err := base64.StdEncoding.DecodeString(v.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 inline data: %w", err)
		}
		return &genai.Part{InlineData: &genai.Blob{MIMEType: v.MimeType, Data: data}}, nil
	default:
		return &genai.Part{}, nil
	}
}

// normalize flattens the first candidate into text plus deduplicated sources.
func normalize(resp *genai.GenerateContentResponse) (Result, error) {
	if resp == nil {
		return Result{}, ErrNoCandidates
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return Result{}, fmt.Errorf("prompt was blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return Result{}, ErrNoCandidates
	}

	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}

	var sources []domain.Source
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			sources = append(sources, domain.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}

	return Result{Text: sb.String(), Sources: DedupSources(sources)}, nil
}

// DedupSources drops citations without both a URI and a title, then keeps the
// first entry for each URI in first-seen order. Applying it twice gives the
// same result as applying it once.
func DedupSources(sources []domain.Source) []domain.Source {
	seen := make(map[string]bool, len(sources))
	var unique []domain.Source
	for _, src := range sources {
		if src.URI == "" || src.Title == "" {
			continue
		}
		if seen[src.URI] {
			continue
		}
		seen[src.URI] = true
		unique = append(unique, src)
	}
	return unique
}
