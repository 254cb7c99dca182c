package chat

//go:generate mockgen -destination=./clients_mock_test.go -package=chat -source=clients.go

import (
	"context"

	"groundchat/internal/domain"
	"groundchat/internal/exchange"
)

// Exchanger defines the contract for the adapter that talks to the model.
// exchange.Service satisfies it.
type Exchanger interface {
	// Exchange sends the prior history plus the new input and returns the normalized result.
	Exchange(ctx context.Context, history []domain.Message, text string, image *domain.Image) exchange.Result
}
