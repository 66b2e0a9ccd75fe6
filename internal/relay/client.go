package relay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/observability"
)

// Client is a read-only relay client. It turns the subscription
// transport into request/response: subscribe, collect stored events,
// unsubscribe.
type Client struct {
	transport Transport
	timeout   time.Duration
}

// NewClient creates a read-only client over the given transport.
func NewClient(transport Transport, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &Client{transport: transport, timeout: timeout}
}

// RequestAndCollect subscribes with the filter and accumulates events
// until the relay signals end of stored events or the collect window
// expires. A timeout returns the events gathered so far, not an error:
// an untrusted relay that goes quiet mid-replay yields a partial view,
// and callers treat relay data as a hint to verify anyway. Events are
// deduplicated by id since relays may replay.
func (c *Client) RequestAndCollect(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	start := time.Now()

	sub, err := c.transport.Subscribe(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Close()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	seen := make(map[string]bool)
	var collected []*nostr.Event
	reachedEOSE := false

collect:
	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				break collect
			}
			if ev == nil || seen[ev.ID] {
				continue
			}
			seen[ev.ID] = true
			collected = append(collected, ev)
		case <-sub.EOSE:
			reachedEOSE = true
			break collect
		case <-timer.C:
			break collect
		case <-ctx.Done():
			observability.RecordRequest("collect", time.Since(start).Seconds(), false, time.Now().Unix())
			return nil, ctx.Err()
		}
	}

	// Drain events that arrived in the same frame batch as the EOSE
	// signal; select ordering is random, so stored events may still be
	// buffered.
	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok || ev == nil {
				observability.RecordRequest("collect", time.Since(start).Seconds(), reachedEOSE, time.Now().Unix())
				return collected, nil
			}
			if !seen[ev.ID] {
				seen[ev.ID] = true
				collected = append(collected, ev)
			}
		default:
			observability.RecordRequest("collect", time.Since(start).Seconds(), reachedEOSE, time.Now().Unix())
			return collected, nil
		}
	}
}

// RequestOne collects events for the filter and requires that exactly
// one distinct event matched. Returns ErrNoEventsFound or
// ErrNotOnlyOneEventFound otherwise.
func (c *Client) RequestOne(ctx context.Context, filter nostr.Filter) (*nostr.Event, error) {
	events, err := c.RequestAndCollect(ctx, filter)
	if err != nil {
		return nil, err
	}

	switch len(events) {
	case 0:
		return nil, ErrNoEventsFound
	case 1:
		return events[0], nil
	default:
		return nil, fmt.Errorf("%w: %d events", ErrNotOnlyOneEventFound, len(events))
	}
}

// PublishingClient extends Client with the ability to sign and publish
// events.
type PublishingClient struct {
	*Client
	signer Signer
}

// NewPublishingClient creates a client that can publish with the given
// signer.
func NewPublishingClient(transport Transport, timeout time.Duration, signer Signer) *PublishingClient {
	return &PublishingClient{
		Client: NewClient(transport, timeout),
		signer: signer,
	}
}

// PublicKey returns the publishing identity's hex public key.
func (c *PublishingClient) PublicKey() string {
	if c.signer == nil {
		return ""
	}
	return c.signer.PublicKey()
}

// Publish builds an event of the given kind, stamps the creation time,
// signs it, and sends it to the relay. Returns the event id assigned by
// signing.
func (c *PublishingClient) Publish(ctx context.Context, kind int, content string, tags nostr.Tags) (string, error) {
	if c.signer == nil {
		return "", ErrMissingSigner
	}

	ev := nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Now(),
		Tags:      tags,
		Content:   content,
	}

	if err := c.signer.SignEvent(&ev); err != nil {
		return "", err
	}

	start := time.Now()
	if err := c.transport.Publish(ctx, &ev); err != nil {
		return "", fmt.Errorf("publish kind %d: %w", kind, err)
	}
	observability.DefaultMetrics.PublishLatency.Observe(time.Since(start).Seconds())
	observability.RecordEventPublished(strconv.Itoa(kind))

	return ev.ID, nil
}
