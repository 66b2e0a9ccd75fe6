// Package watcher runs the marketplace indexer: a long-lived
// subscription over the advertisement and action kinds that verifies
// every incoming event and primes the order params cache, so takers
// querying through the same store see decoded parameters without a
// relay round trip.
package watcher

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/events"
	"utxo-dex-relay/internal/observability"
	"utxo-dex-relay/internal/relay"
	"utxo-dex-relay/internal/storage"
	"utxo-dex-relay/internal/taproot"
)

// Watcher consumes the live event stream and maintains derived state.
type Watcher struct {
	transport     relay.Transport
	network       taproot.Params
	store         storage.OrderParamsStore
	statsInterval time.Duration
	logger        *log.Logger

	stats Stats
}

// Stats counts what the watcher has seen since it started.
type Stats struct {
	OrdersIndexed  atomic.Int64
	OptionsSeen    atomic.Int64
	SwapsSeen      atomic.Int64
	ActionsSeen    atomic.Int64
	EventsRejected atomic.Int64
}

// Options contains configuration for creating a Watcher.
type Options struct {
	Transport     relay.Transport
	Network       taproot.Params
	Store         storage.OrderParamsStore
	StatsInterval time.Duration
	Logger        *log.Logger
}

// New creates a watcher over the given transport.
func New(opts Options) *Watcher {
	statsInterval := opts.StatsInterval
	if statsInterval == 0 {
		statsInterval = 1 * time.Minute
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		transport:     opts.Transport,
		network:       opts.Network,
		store:         opts.Store,
		statsInterval: statsInterval,
		logger:        logger,
	}
}

// Run subscribes to all marketplace kinds and processes events until
// the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	sub, err := w.transport.Subscribe(ctx, nostr.Filter{
		Kinds: []int{
			events.KindMakerOrder,
			events.KindOptionCreated,
			events.KindSwapCreated,
			events.KindActionCompleted,
		},
	})
	if err != nil {
		return err
	}
	defer sub.Close()

	w.logger.Println("Watcher subscribed to marketplace kinds")

	ticker := time.NewTicker(w.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logStats()
			w.logger.Println("Watcher stopping...")
			return ctx.Err()

		case ev, ok := <-sub.Events:
			if !ok {
				return errors.New("event channel closed")
			}
			w.handleEvent(ctx, ev)

		case <-ticker.C:
			w.logStats()
		}
	}
}

// handleEvent dispatches a raw event by kind. Parse failures are
// counted and logged, never fatal: a hostile relay can inject garbage
// at will and the watcher has to outlive it.
func (w *Watcher) handleEvent(ctx context.Context, ev *nostr.Event) {
	switch ev.Kind {
	case events.KindMakerOrder:
		w.handleMakerOrder(ctx, ev)
	case events.KindOptionCreated:
		w.handleOptionCreated(ev)
	case events.KindSwapCreated:
		w.handleSwapCreated(ev)
	case events.KindActionCompleted:
		w.handleActionCompleted(ev)
	}
}

func (w *Watcher) handleMakerOrder(ctx context.Context, ev *nostr.Event) {
	order, err := events.ParseMakerOrder(ev, w.network)
	if err != nil {
		w.reject(ev, err)
		return
	}
	if order == nil {
		return
	}
	observability.RecordEventParsed(strconv.Itoa(ev.Kind))

	if w.store != nil {
		params := &domain.OrderParams{
			TaprootPubkeyGen: order.TaprootPubkeyGen,
			Args:             order.Args,
		}
		if err := w.store.Put(ctx, order.EventID, params); err != nil {
			w.logger.Printf("Error caching order params for %s: %v", order.EventID, err)
			return
		}
	}

	w.stats.OrdersIndexed.Add(1)
	w.logger.Printf("Order indexed: %s strike=%d principal=%d",
		order.EventID, order.Args.StrikePrice, order.Args.PrincipalCollateralAmount)
}

func (w *Watcher) handleOptionCreated(ev *nostr.Event) {
	option, err := events.ParseOptionCreated(ev, w.network)
	if err != nil {
		w.reject(ev, err)
		return
	}
	if option == nil {
		return
	}
	observability.RecordEventParsed(strconv.Itoa(ev.Kind))

	w.stats.OptionsSeen.Add(1)
	w.logger.Printf("Option advertised: %s collateral/contract=%d",
		option.EventID, option.Args.CollateralPerContract)
}

func (w *Watcher) handleSwapCreated(ev *nostr.Event) {
	swap, err := events.ParseSwapCreated(ev, w.network)
	if err != nil {
		w.reject(ev, err)
		return
	}
	if swap == nil {
		return
	}
	observability.RecordEventParsed(strconv.Itoa(ev.Kind))

	w.stats.SwapsSeen.Add(1)
	w.logger.Printf("Swap advertised: %s offers=%d asks=%d",
		swap.EventID, swap.Args.CollateralAmount, swap.Args.SettlementAmount)
}

func (w *Watcher) handleActionCompleted(ev *nostr.Event) {
	action, err := events.ParseActionCompleted(ev)
	if err != nil {
		w.reject(ev, err)
		return
	}
	if action == nil {
		return
	}
	observability.RecordEventParsed(strconv.Itoa(ev.Kind))

	w.stats.ActionsSeen.Add(1)
	w.logger.Printf("Action reported: %s on %s outpoint=%s",
		action.Action, action.OriginalEventID, action.Outpoint)
}

// reject counts a dropped event, distinguishing taproot commitment
// mismatches (a deliberate lie) from the usual relay noise.
func (w *Watcher) reject(ev *nostr.Event, err error) {
	w.stats.EventsRejected.Add(1)
	if errors.Is(err, taproot.ErrMismatch) {
		observability.RecordTaprootFailure(strconv.Itoa(ev.Kind))
		w.logger.Printf("Dropping event %s: commitment mismatch", ev.ID)
		return
	}
	observability.RecordParseReject(strconv.Itoa(ev.Kind), "invalid")
	w.logger.Printf("Dropping event %s: %v", ev.ID, err)
}

func (w *Watcher) logStats() {
	w.logger.Printf("Watcher stats: orders=%d options=%d swaps=%d actions=%d rejected=%d",
		w.stats.OrdersIndexed.Load(), w.stats.OptionsSeen.Load(),
		w.stats.SwapsSeen.Load(), w.stats.ActionsSeen.Load(),
		w.stats.EventsRejected.Load())
}
