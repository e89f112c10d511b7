package repositories

import (
	"context"

	"tburn-scan.backend/internal/domain/entities"
)

// RegisteredTokenRepository defines durable storage for registered tokens.
// The contract address (lowercased) is the natural unique key.
type RegisteredTokenRepository interface {
	// Insert writes a token, silently keeping the existing row when one
	// already exists for the same contract address.
	Insert(ctx context.Context, token *entities.RegisteredToken) error
	// UpdateFields applies the persisted subset of a partial update to the
	// row identified by contract address. Cache-only fields are ignored.
	UpdateFields(ctx context.Context, contractAddress string, update *entities.TokenUpdate) error
	// GetAll returns every stored token ordered by deployment time, newest
	// first. Used to (re)build the in-memory cache.
	GetAll(ctx context.Context) ([]*entities.RegisteredToken, error)
}
