package postgres

import (
	"context"
	"fmt"
	"time"

	"utxo-dex-relay/internal/codec"
	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/observability"
	"utxo-dex-relay/internal/storage"
)

// OrderParamsStore implements storage.OrderParamsStore using PostgreSQL.
// Order arguments are stored in their canonical wire encoding so the
// database never needs a schema change when argument fields evolve.
type OrderParamsStore struct {
	pool *Pool
}

// NewOrderParamsStore creates a new OrderParamsStore.
func NewOrderParamsStore(pool *Pool) *OrderParamsStore {
	return &OrderParamsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OrderParamsStore = (*OrderParamsStore)(nil)

// Put records the parameters for an event id. The event id commits to
// the parameters, so a conflicting row is by construction identical and
// the insert simply does nothing.
func (s *OrderParamsStore) Put(ctx context.Context, eventID string, params *domain.OrderParams) error {
	if eventID == "" || params == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO order_params (event_id, taproot_pubkey_gen, order_args)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		eventID,
		params.TaprootPubkeyGen,
		codec.OrderArgsToHex(params.Args),
	)
	observability.RecordDBQuery("order_params_put", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("put order params: %w", err)
	}
	return nil
}

// Get retrieves the parameters for an event id. Returns ErrNotFound if
// the id has not been cached.
func (s *OrderParamsStore) Get(ctx context.Context, eventID string) (*domain.OrderParams, error) {
	query := `
		SELECT taproot_pubkey_gen, order_args
		FROM order_params
		WHERE event_id = $1
	`

	var taprootGen, argsHex string
	start := time.Now()
	err := s.pool.QueryRow(ctx, query, eventID).Scan(&taprootGen, &argsHex)
	queryErr := err
	if isNotFoundError(err) {
		queryErr = nil // a miss is an answer, not a query failure
	}
	observability.RecordDBQuery("order_params_get", time.Since(start).Seconds(), queryErr)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order params: %w", err)
	}

	args, err := codec.OrderArgsFromHex(argsHex)
	if err != nil {
		return nil, fmt.Errorf("decode stored order args for %s: %w", eventID, err)
	}

	return &domain.OrderParams{TaprootPubkeyGen: taprootGen, Args: args}, nil
}
