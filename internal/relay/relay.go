// Package relay speaks the marketplace's pub/sub wire protocol. The
// relay is untrusted: it stores and forwards signed events but can
// drop, delay, or replay them, so every guarantee the package offers is
// about transport, never about event authenticity. Callers verify
// events through the events package after receiving them.
package relay

import (
	"context"
	"sync"

	"github.com/nbd-wtf/go-nostr"
)

// Transport carries subscription frames to and from a relay.
type Transport interface {
	// Subscribe opens a subscription for events matching the filter.
	// The relay first replays stored events, signals end-of-stored-events,
	// then streams live events until the subscription is closed.
	Subscribe(ctx context.Context, filter nostr.Filter) (*Subscription, error)

	// Publish sends a signed event and waits for the relay to accept it.
	Publish(ctx context.Context, ev *nostr.Event) error

	// Close closes the connection and every open subscription.
	Close() error
}

// Subscription is one open filter on a relay.
type Subscription struct {
	// Events delivers matching events. Closed when the subscription ends.
	Events <-chan *nostr.Event

	// EOSE is closed once the relay has replayed all stored events and
	// switched to live delivery.
	EOSE <-chan struct{}

	closeOnce sync.Once
	closeFn   func()
}

// NewSubscription wires a subscription around its channels. closeFn is
// invoked exactly once, on the first Close.
func NewSubscription(events <-chan *nostr.Event, eose <-chan struct{}, closeFn func()) *Subscription {
	return &Subscription{Events: events, EOSE: eose, closeFn: closeFn}
}

// Close unsubscribes from the relay. Safe to call multiple times.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeFn()
		}
	})
}
