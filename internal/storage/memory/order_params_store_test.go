package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/storage"
)

func testParams() *domain.OrderParams {
	return &domain.OrderParams{
		TaprootPubkeyGen: strings.Repeat("ab", 32),
		Args: domain.OrderArgs{
			TakerFundingStartTime:     1_700_000_000,
			TakerFundingEndTime:       1_700_003_600,
			PrincipalCollateralAmount: 5_000_000,
			StrikePrice:               42_000,
		},
	}
}

func TestOrderParamsStore_PutAndGet(t *testing.T) {
	store := NewOrderParamsStore()
	ctx := context.Background()

	eventID := strings.Repeat("11", 32)
	params := testParams()

	if err := store.Put(ctx, eventID, params); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, eventID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TaprootPubkeyGen != params.TaprootPubkeyGen {
		t.Errorf("TaprootPubkeyGen mismatch: got %s, want %s", got.TaprootPubkeyGen, params.TaprootPubkeyGen)
	}
	if got.Args != params.Args {
		t.Errorf("Args mismatch: got %+v, want %+v", got.Args, params.Args)
	}
}

func TestOrderParamsStore_PutIsIdempotent(t *testing.T) {
	store := NewOrderParamsStore()
	ctx := context.Background()

	eventID := strings.Repeat("22", 32)

	if err := store.Put(ctx, eventID, testParams()); err != nil {
		t.Fatalf("First put failed: %v", err)
	}
	if err := store.Put(ctx, eventID, testParams()); err != nil {
		t.Errorf("Second put should be a no-op, got %v", err)
	}
}

func TestOrderParamsStore_NotFound(t *testing.T) {
	store := NewOrderParamsStore()
	ctx := context.Background()

	_, err := store.Get(ctx, strings.Repeat("33", 32))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOrderParamsStore_InvalidInput(t *testing.T) {
	store := NewOrderParamsStore()
	ctx := context.Background()

	if err := store.Put(ctx, "", testParams()); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty id, got %v", err)
	}
	if err := store.Put(ctx, strings.Repeat("44", 32), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil params, got %v", err)
	}
}

func TestOrderParamsStore_CopyOnWrite(t *testing.T) {
	store := NewOrderParamsStore()
	ctx := context.Background()

	eventID := strings.Repeat("55", 32)
	params := testParams()

	if err := store.Put(ctx, eventID, params); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Mutating the caller's copy must not affect the stored record.
	params.Args.StrikePrice = 99_999

	got, err := store.Get(ctx, eventID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Args.StrikePrice != 42_000 {
		t.Errorf("stored record mutated: strike = %d", got.Args.StrikePrice)
	}
}

func TestOrderParamsStore_ConcurrentAccess(t *testing.T) {
	store := NewOrderParamsStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			eventID := strings.Repeat("66", 32)
			_ = store.Put(ctx, eventID, testParams())
			_, _ = store.Get(ctx, eventID)
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, strings.Repeat("66", 32))
	if err != nil {
		t.Fatalf("Get after concurrent puts failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored params")
	}
}
