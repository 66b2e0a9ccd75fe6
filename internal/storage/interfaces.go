package storage

import (
	"context"

	"utxo-dex-relay/internal/domain"
)

// OrderParamsStore caches the parameters of maker orders keyed by the
// announcement event id. The event id commits to the parameters, so the
// cache is a derived index over relay history: a second Put for the
// same id carries identical data and must succeed without effect.
type OrderParamsStore interface {
	// Put records the parameters for an event id. Writing an id that
	// already exists is a no-op.
	Put(ctx context.Context, eventID string, params *domain.OrderParams) error

	// Get retrieves the parameters for an event id. Returns ErrNotFound
	// if the id has not been cached.
	Get(ctx context.Context, eventID string) (*domain.OrderParams, error)
}
