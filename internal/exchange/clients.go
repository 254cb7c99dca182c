package exchange

//go:generate mockgen -destination=./clients_mock_test.go -package=exchange -source=clients.go

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator defines the contract for the external client that talks to the Gemini API.
// *genai.Models satisfies it, so the real client is passed straight through.
type Generator interface {
	// GenerateContent sends the full turn sequence and returns the model's reply.
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiGenerator builds the real Gemini client for the given API key.
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}
	return client.Models, nil
}
