// Package stub provides an in-memory relay transport for testing.
package stub

import (
	"context"
	"sync"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/relay"
)

// Relay implements relay.Transport against an in-memory event store.
// Subscriptions replay matching stored events, signal end of stored
// events, then receive live events as they are published.
type Relay struct {
	mu     sync.Mutex
	stored []*nostr.Event
	subs   []*stubSub
	closed bool

	// SubscribeCount and PublishCount record how often each operation
	// ran, for asserting cache behavior in tests.
	SubscribeCount int
	PublishCount   int

	// RejectPublish, when set, makes every publish fail with its value.
	RejectPublish error
}

type stubSub struct {
	filter nostr.Filter
	events chan *nostr.Event
	closed bool
}

// NewRelay creates an empty stub relay.
func NewRelay() *Relay {
	return &Relay{}
}

var _ relay.Transport = (*Relay)(nil)

// AddEvent seeds a stored event without counting as a publish.
func (r *Relay) AddEvent(ev *nostr.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, ev)
}

// Events returns a snapshot of all stored events.
func (r *Relay) Events() []*nostr.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*nostr.Event, len(r.stored))
	copy(out, r.stored)
	return out
}

// Subscribe replays stored events matching the filter, signals EOSE,
// and keeps the subscription open for live publishes.
func (r *Relay) Subscribe(_ context.Context, filter nostr.Filter) (*relay.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, relay.ErrClosed
	}

	r.SubscribeCount++

	var matching []*nostr.Event
	for _, ev := range r.stored {
		if filter.Matches(ev) {
			matching = append(matching, ev)
		}
	}

	sub := &stubSub{
		filter: filter,
		events: make(chan *nostr.Event, len(matching)+64),
	}
	for _, ev := range matching {
		sub.events <- ev
	}

	eose := make(chan struct{})
	close(eose)

	r.subs = append(r.subs, sub)

	return relay.NewSubscription(sub.events, eose, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		sub.closed = true
	}), nil
}

// Publish stores the event and fans it out to matching live
// subscriptions.
func (r *Relay) Publish(_ context.Context, ev *nostr.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return relay.ErrClosed
	}
	if r.RejectPublish != nil {
		return r.RejectPublish
	}

	r.PublishCount++
	r.stored = append(r.stored, ev)

	for _, sub := range r.subs {
		if sub.closed || !sub.filter.Matches(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			// Test subscriber stopped draining; drop rather than block.
		}
	}
	return nil
}

// Close marks the relay closed; further operations fail.
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
