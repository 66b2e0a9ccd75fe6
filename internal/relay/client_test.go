package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
)

// fakeTransport replays a scripted set of events for every subscription.
type fakeTransport struct {
	events     []*nostr.Event
	signalEOSE bool
	published  []*nostr.Event
	publishErr error
}

func (f *fakeTransport) Subscribe(_ context.Context, filter nostr.Filter) (*Subscription, error) {
	ch := make(chan *nostr.Event, len(f.events)+1)
	for _, ev := range f.events {
		if filter.Matches(ev) {
			ch <- ev
		}
	}

	eose := make(chan struct{})
	if f.signalEOSE {
		close(eose)
	}

	return NewSubscription(ch, eose, nil), nil
}

func (f *fakeTransport) Publish(_ context.Context, ev *nostr.Event) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, ev)
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func signedEvent(t *testing.T, kind int, content string) *nostr.Event {
	t.Helper()

	ev := nostr.Event{Kind: kind, CreatedAt: nostr.Now(), Content: content}
	if err := ev.Sign(nostr.GeneratePrivateKey()); err != nil {
		t.Fatalf("sign: %v", err)
	}
	return &ev
}

func TestRequestAndCollect_StopsAtEOSE(t *testing.T) {
	a := signedEvent(t, 9901, "a")
	b := signedEvent(t, 9901, "b")
	transport := &fakeTransport{events: []*nostr.Event{a, b}, signalEOSE: true}

	client := NewClient(transport, time.Second)

	got, err := client.RequestAndCollect(context.Background(), nostr.Filter{Kinds: []int{9901}})
	if err != nil {
		t.Fatalf("RequestAndCollect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestRequestAndCollect_FiltersKinds(t *testing.T) {
	order := signedEvent(t, 9901, "order")
	reply := signedEvent(t, 9902, "reply")
	transport := &fakeTransport{events: []*nostr.Event{order, reply}, signalEOSE: true}

	client := NewClient(transport, time.Second)

	got, err := client.RequestAndCollect(context.Background(), nostr.Filter{Kinds: []int{9902}})
	if err != nil {
		t.Fatalf("RequestAndCollect: %v", err)
	}
	if len(got) != 1 || got[0].ID != reply.ID {
		t.Fatalf("expected only the reply, got %d events", len(got))
	}
}

func TestRequestAndCollect_TimeoutReturnsPartial(t *testing.T) {
	// No EOSE: the relay went quiet after replaying one event. The
	// window expiring must surface the partial result, not an error.
	ev := signedEvent(t, 9901, "partial")
	transport := &fakeTransport{events: []*nostr.Event{ev}, signalEOSE: false}

	client := NewClient(transport, 50*time.Millisecond)

	start := time.Now()
	got, err := client.RequestAndCollect(context.Background(), nostr.Filter{Kinds: []int{9901}})
	if err != nil {
		t.Fatalf("RequestAndCollect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected partial result of 1 event, got %d", len(got))
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned before the collect window expired: %v", elapsed)
	}
}

func TestRequestAndCollect_DeduplicatesByID(t *testing.T) {
	ev := signedEvent(t, 9901, "dup")
	transport := &fakeTransport{events: []*nostr.Event{ev, ev, ev}, signalEOSE: true}

	client := NewClient(transport, time.Second)

	got, err := client.RequestAndCollect(context.Background(), nostr.Filter{Kinds: []int{9901}})
	if err != nil {
		t.Fatalf("RequestAndCollect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 distinct event, got %d", len(got))
	}
}

func TestRequestAndCollect_ContextCancelled(t *testing.T) {
	transport := &fakeTransport{signalEOSE: false}
	client := NewClient(transport, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.RequestAndCollect(ctx, nostr.Filter{Kinds: []int{9901}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRequestOne_Cardinality(t *testing.T) {
	one := signedEvent(t, 9901, "one")
	two := signedEvent(t, 9901, "two")

	tests := []struct {
		name    string
		events  []*nostr.Event
		wantErr error
	}{
		{"none", nil, ErrNoEventsFound},
		{"exactly one", []*nostr.Event{one}, nil},
		{"duplicates of one", []*nostr.Event{one, one}, nil},
		{"two distinct", []*nostr.Event{one, two}, ErrNotOnlyOneEventFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{events: tt.events, signalEOSE: true}
			client := NewClient(transport, time.Second)

			got, err := client.RequestOne(context.Background(), nostr.Filter{Kinds: []int{9901}})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RequestOne: %v", err)
			}
			if got.ID != one.ID {
				t.Errorf("expected event %s, got %s", one.ID, got.ID)
			}
		})
	}
}

func TestPublish_SignsAndStamps(t *testing.T) {
	transport := &fakeTransport{}
	signer, err := GenerateLocalSigner()
	if err != nil {
		t.Fatalf("GenerateLocalSigner: %v", err)
	}

	client := NewPublishingClient(transport, time.Second, signer)

	id, err := client.Publish(context.Background(), 9901, "hello", nostr.Tags{{"p", signer.PublicKey()}})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if id == "" {
		t.Fatal("expected event id")
	}
	if len(transport.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(transport.published))
	}

	ev := transport.published[0]
	if ev.ID != id {
		t.Errorf("returned id %s does not match published %s", id, ev.ID)
	}
	if ev.PubKey != signer.PublicKey() {
		t.Errorf("event attributed to %s, want %s", ev.PubKey, signer.PublicKey())
	}
	if ev.CreatedAt == 0 {
		t.Error("CreatedAt not stamped")
	}
	if ok, err := ev.CheckSignature(); !ok || err != nil {
		t.Errorf("published event signature invalid: %v", err)
	}
}

func TestPublish_WithoutSigner(t *testing.T) {
	client := NewPublishingClient(&fakeTransport{}, time.Second, nil)

	_, err := client.Publish(context.Background(), 9901, "hello", nil)
	if !errors.Is(err, ErrMissingSigner) {
		t.Errorf("expected ErrMissingSigner, got %v", err)
	}
}
