package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/observability"
)

// WSConfig configures WebSocket transport behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// PublishTimeout is how long Publish waits for the relay's acknowledgement.
	PublishTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		PublishTimeout:    15 * time.Second,
	}
}

// wsSub is the server-facing state of one subscription.
type wsSub struct {
	filter   nostr.Filter
	events   chan *nostr.Event
	eose     chan struct{}
	eoseOnce sync.Once
}

func (s *wsSub) signalEOSE() {
	s.eoseOnce.Do(func() { close(s.eose) })
}

// okResult is the relay's verdict on a published event.
type okResult struct {
	accepted bool
	reason   string
}

// WSTransport implements Transport over a single relay connection
// using gorilla/websocket.
type WSTransport struct {
	url    string
	config WSConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool
	subSeq atomic.Uint64

	// subscriptions keyed by client-chosen subscription id. The id is
	// reused verbatim on resubscription after reconnect, so no remap is
	// needed.
	subs   map[string]*wsSub
	subsMu sync.RWMutex

	// pendingOKs maps published event id to the channel waiting for the
	// relay's acknowledgement.
	pendingOKs   map[string]chan okResult
	pendingOKsMu sync.Mutex

	// done signals shutdown
	done chan struct{}
	wg   sync.WaitGroup

	// reconnecting indicates reconnection in progress
	reconnecting atomic.Bool
}

// NewWSTransport connects to the relay at url.
func NewWSTransport(ctx context.Context, url string, config *WSConfig) (*WSTransport, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	t := &WSTransport{
		url:        url,
		config:     cfg,
		subs:       make(map[string]*wsSub),
		pendingOKs: make(map[string]chan okResult),
		done:       make(chan struct{}),
	}

	if err := t.connect(ctx); err != nil {
		return nil, err
	}

	t.wg.Add(1)
	go t.readLoop()

	t.wg.Add(1)
	go t.pingLoop()

	return t, nil
}

var _ Transport = (*WSTransport)(nil)

// connect establishes the WebSocket connection.
func (t *WSTransport) connect(ctx context.Context) error {
	t.connMu.Lock()
	defer t.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", t.url, err)
	}

	t.conn = conn
	return nil
}

// Subscribe opens a subscription for events matching the filter.
func (t *WSTransport) Subscribe(ctx context.Context, filter nostr.Filter) (*Subscription, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subID := "sub-" + strconv.FormatUint(t.subSeq.Add(1), 10)

	sub := &wsSub{
		filter: filter,
		// Large buffer for backpressure; blocking send ensures no event loss.
		events: make(chan *nostr.Event, 4096),
		eose:   make(chan struct{}),
	}

	t.subsMu.Lock()
	t.subs[subID] = sub
	t.subsMu.Unlock()

	if err := t.writeFrame("REQ", subID, filter); err != nil {
		t.subsMu.Lock()
		delete(t.subs, subID)
		t.subsMu.Unlock()
		return nil, fmt.Errorf("write subscribe: %w", err)
	}

	observability.DefaultMetrics.OpenSubscriptions.Inc()

	return NewSubscription(sub.events, sub.eose, func() {
		t.unsubscribe(subID)
	}), nil
}

// unsubscribe tears down a subscription and notifies the relay.
func (t *WSTransport) unsubscribe(subID string) {
	t.subsMu.Lock()
	_, ok := t.subs[subID]
	if ok {
		delete(t.subs, subID)
	}
	t.subsMu.Unlock()

	if !ok {
		return
	}

	observability.DefaultMetrics.OpenSubscriptions.Dec()

	// The events channel stays open; dispatch stops once the sub is out
	// of the map. Closing it here would race with the reader.

	if !t.closed.Load() {
		// Best effort; the relay drops the subscription with the
		// connection anyway.
		_ = t.writeFrame("CLOSE", subID)
	}
}

// Publish sends a signed event and waits for the relay's OK frame.
func (t *WSTransport) Publish(ctx context.Context, ev *nostr.Event) error {
	if t.closed.Load() {
		return ErrClosed
	}

	confirmCh := make(chan okResult, 1)
	t.pendingOKsMu.Lock()
	t.pendingOKs[ev.ID] = confirmCh
	t.pendingOKsMu.Unlock()

	removePending := func() {
		t.pendingOKsMu.Lock()
		delete(t.pendingOKs, ev.ID)
		t.pendingOKsMu.Unlock()
	}

	if err := t.writeFrame("EVENT", ev); err != nil {
		removePending()
		return fmt.Errorf("write publish: %w", err)
	}

	select {
	case res, ok := <-confirmCh:
		if !ok {
			// Close drains pending confirmations by closing their
			// channels; the zero result is a shutdown, not a rejection.
			return ErrClosed
		}
		if !res.accepted {
			observability.DefaultMetrics.PublishErrors.Inc()
			return fmt.Errorf("%w: %s", ErrRejected, res.reason)
		}
		return nil
	case <-time.After(t.config.PublishTimeout):
		removePending()
		observability.DefaultMetrics.PublishErrors.Inc()
		return fmt.Errorf("publish timeout after %s", t.config.PublishTimeout)
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		removePending()
		return ctx.Err()
	}
}

// writeFrame marshals a protocol frame ["LABEL", args...] and writes it
// under the connection lock.
func (t *WSTransport) writeFrame(label string, args ...interface{}) error {
	frame := make([]interface{}, 0, len(args)+1)
	frame = append(frame, label)
	frame = append(frame, args...)

	t.connMu.Lock()
	defer t.connMu.Unlock()

	if t.conn == nil {
		return fmt.Errorf("not connected")
	}

	t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
	return t.conn.WriteJSON(frame)
}

// Close closes the connection and every open subscription.
func (t *WSTransport) Close() error {
	if t.closed.Swap(true) {
		return nil // Already closed
	}

	close(t.done)

	t.connMu.Lock()
	if t.conn != nil {
		t.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.conn.Close()
	}
	t.connMu.Unlock()

	t.subsMu.Lock()
	for id, sub := range t.subs {
		close(sub.events)
		delete(t.subs, id)
		observability.DefaultMetrics.OpenSubscriptions.Dec()
	}
	t.subsMu.Unlock()

	t.pendingOKsMu.Lock()
	for id, ch := range t.pendingOKs {
		close(ch)
		delete(t.pendingOKs, id)
	}
	t.pendingOKsMu.Unlock()

	t.wg.Wait()
	return nil
}

// readLoop reads frames from the relay and dispatches to subscribers.
func (t *WSTransport) readLoop() {
	defer t.wg.Done()

	reconnectDelay := t.config.ReconnectDelay

	for !t.closed.Load() {
		t.connMu.Lock()
		conn := t.conn
		t.connMu.Unlock()

		if conn == nil {
			select {
			case <-t.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if t.closed.Load() {
				return
			}

			// Connection error - attempt reconnect with exponential backoff
			if !t.reconnecting.Swap(true) {
				go t.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > t.config.MaxReconnectDelay {
				reconnectDelay = t.config.MaxReconnectDelay
			}

			select {
			case <-t.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = t.config.ReconnectDelay

		t.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (t *WSTransport) reconnect(delay time.Duration) {
	defer t.reconnecting.Store(false)

	if t.closed.Load() {
		return
	}

	select {
	case <-t.done:
		return
	case <-time.After(delay):
	}

	t.connMu.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := t.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	observability.DefaultMetrics.Reconnects.Inc()
	t.resubscribeAll()
}

// resubscribeAll reissues every open subscription after reconnect. Sub
// ids are client-chosen, so the relay replays stored events onto the
// same ids; subscribers see a fresh replay followed by a second EOSE
// signal, which the eoseOnce guard collapses.
func (t *WSTransport) resubscribeAll() {
	t.subsMu.RLock()
	filters := make(map[string]nostr.Filter, len(t.subs))
	for id, sub := range t.subs {
		filters[id] = sub.filter
	}
	t.subsMu.RUnlock()

	for id, filter := range filters {
		if err := t.writeFrame("REQ", id, filter); err != nil {
			// Failed to resubscribe; next read error triggers another
			// reconnect cycle.
			return
		}
	}
}

// handleMessage processes one incoming relay frame.
func (t *WSTransport) handleMessage(message []byte) {
	var frame []json.RawMessage
	if err := json.Unmarshal(message, &frame); err != nil || len(frame) == 0 {
		return
	}

	var label string
	if err := json.Unmarshal(frame[0], &label); err != nil {
		return
	}

	switch label {
	case "EVENT":
		if len(frame) < 3 {
			return
		}
		var subID string
		if err := json.Unmarshal(frame[1], &subID); err != nil {
			return
		}
		var ev nostr.Event
		if err := json.Unmarshal(frame[2], &ev); err != nil {
			return
		}
		t.dispatchEvent(subID, &ev)

	case "EOSE":
		if len(frame) < 2 {
			return
		}
		var subID string
		if err := json.Unmarshal(frame[1], &subID); err != nil {
			return
		}
		t.subsMu.RLock()
		sub, ok := t.subs[subID]
		t.subsMu.RUnlock()
		if ok {
			sub.signalEOSE()
		}

	case "OK":
		if len(frame) < 3 {
			return
		}
		var eventID string
		var accepted bool
		if err := json.Unmarshal(frame[1], &eventID); err != nil {
			return
		}
		if err := json.Unmarshal(frame[2], &accepted); err != nil {
			return
		}
		var reason string
		if len(frame) >= 4 {
			_ = json.Unmarshal(frame[3], &reason)
		}
		t.handleOK(eventID, okResult{accepted: accepted, reason: reason})

	case "CLOSED":
		if len(frame) < 2 {
			return
		}
		var subID string
		if err := json.Unmarshal(frame[1], &subID); err != nil {
			return
		}
		// Relay-side termination counts as end of stored events so a
		// collecting caller returns what it has instead of hanging.
		t.subsMu.RLock()
		sub, ok := t.subs[subID]
		t.subsMu.RUnlock()
		if ok {
			sub.signalEOSE()
		}
	}
}

// dispatchEvent routes an event frame to its subscriber.
func (t *WSTransport) dispatchEvent(subID string, ev *nostr.Event) {
	t.subsMu.RLock()
	sub, ok := t.subs[subID]
	t.subsMu.RUnlock()

	if !ok {
		return
	}

	observability.RecordEventFetched(strconv.Itoa(ev.Kind))

	// Block until we can send - never drop events
	select {
	case sub.events <- ev:
	case <-t.done:
	}
}

// handleOK resolves a pending publish acknowledgement.
func (t *WSTransport) handleOK(eventID string, res okResult) {
	t.pendingOKsMu.Lock()
	ch, ok := t.pendingOKs[eventID]
	if ok {
		delete(t.pendingOKs, eventID)
	}
	t.pendingOKsMu.Unlock()

	if ok {
		select {
		case ch <- res:
		default:
		}
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (t *WSTransport) pingLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.connMu.Lock()
			if t.conn != nil {
				t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
				if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			t.connMu.Unlock()
		}
	}
}
