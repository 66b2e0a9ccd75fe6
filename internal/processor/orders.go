package processor

import (
	"context"
	"fmt"
	"sort"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/events"
	"utxo-dex-relay/internal/filters"
	"utxo-dex-relay/internal/observability"
	"utxo-dex-relay/internal/relay"
	"utxo-dex-relay/internal/taproot"
)

// PlaceOrder publishes a maker order advertisement and returns its
// event id. The order's parameters are cached immediately since the
// publisher already knows them.
func (p *Processor) PlaceOrder(ctx context.Context, args domain.OrderArgs, outpoint domain.OutPoint, expiry uint64) (string, error) {
	if p.publisher == nil {
		return "", relay.ErrMissingSigner
	}

	tags := events.FormMakerOrderTags(args, p.params, outpoint, expiry, p.publisher.PublicKey())
	id, err := p.publisher.Publish(ctx, events.KindMakerOrder, events.MakerOrderContent, tags)
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}

	params := &domain.OrderParams{
		TaprootPubkeyGen: taproot.DeriveOrder(args, p.params),
		Args:             args,
	}
	if err := p.store.Put(ctx, id, params); err != nil {
		// The relay accepted the order; a cold cache only costs a
		// relay round trip later.
		p.logf("caching own order %s failed: %v", id, err)
	}

	return id, nil
}

// ListOrders fetches, verifies, and returns live maker orders in
// chronological order. Events that fail verification are dropped;
// expired orders are filtered out under the reader's clock.
func (p *Processor) ListOrders(ctx context.Context, q filters.ListQuery) ([]*events.MakerOrderEvent, error) {
	raw, err := p.reader.RequestAndCollect(ctx, filters.MakerOrdersBy(q))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var orders []*events.MakerOrderEvent
	for _, ev := range raw {
		order, err := events.ParseMakerOrder(ev, p.params)
		if err != nil {
			p.dropParseFailure(events.KindMakerOrder, ev.ID, err)
			continue
		}
		if order == nil {
			continue // foreign kind
		}
		p.recordParsed(events.KindMakerOrder)
		if !p.live(order.Expiry) {
			continue
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt < orders[j].CreatedAt
		}
		return orders[i].EventID < orders[j].EventID
	})

	return orders, nil
}

// OrderSummaries lists live orders reduced to their display view.
func (p *Processor) OrderSummaries(ctx context.Context, q filters.ListQuery) ([]events.OrderSummary, error) {
	orders, err := p.ListOrders(ctx, q)
	if err != nil {
		return nil, err
	}

	summaries := make([]events.OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, order.Summary())
	}
	return summaries, nil
}

// ReplyOrder publishes a taker reply referencing a maker order and
// returns the reply's event id.
func (p *Processor) ReplyOrder(ctx context.Context, sourceEventID string, reply events.OrderReply) (string, error) {
	if p.publisher == nil {
		return "", relay.ErrMissingSigner
	}

	tags := reply.FormTags(sourceEventID, p.publisher.PublicKey())
	id, err := p.publisher.Publish(ctx, events.KindOrderReply, reply.Content(), tags)
	if err != nil {
		return "", fmt.Errorf("reply to order %s: %w", sourceEventID, err)
	}
	return id, nil
}

// OrderReplies fetches the verified replies to a maker order in
// chronological order.
func (p *Processor) OrderReplies(ctx context.Context, orderEventID string) ([]*events.OrderReplyEvent, error) {
	raw, err := p.reader.RequestAndCollect(ctx, filters.RepliesTo(orderEventID))
	if err != nil {
		return nil, fmt.Errorf("replies to %s: %w", orderEventID, err)
	}

	var replies []*events.OrderReplyEvent
	for _, ev := range raw {
		reply, err := events.ParseOrderReply(ev)
		if err != nil {
			p.dropParseFailure(events.KindOrderReply, ev.ID, err)
			continue
		}
		if reply == nil {
			continue
		}
		p.recordParsed(events.KindOrderReply)
		replies = append(replies, reply)
	}

	sort.Slice(replies, func(i, j int) bool {
		if replies[i].CreatedAt != replies[j].CreatedAt {
			return replies[i].CreatedAt < replies[j].CreatedAt
		}
		return replies[i].EventID < replies[j].EventID
	})

	return replies, nil
}

// GetOrderByID fetches and verifies a single maker order. Requires
// exactly one distinct matching event; success backfills the parameter
// cache.
func (p *Processor) GetOrderByID(ctx context.Context, eventID string) (*events.MakerOrderEvent, error) {
	ev, err := p.reader.RequestOne(ctx, filters.EventByID(eventID))
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", eventID, err)
	}

	order, err := events.ParseMakerOrder(ev, p.params)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", eventID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("get order %s: event is not a maker order (kind %d)", eventID, ev.Kind)
	}
	p.recordParsed(events.KindMakerOrder)

	params := &domain.OrderParams{TaprootPubkeyGen: order.TaprootPubkeyGen, Args: order.Args}
	if err := p.store.Put(ctx, order.EventID, params); err != nil {
		p.logf("backfilling order params for %s failed: %v", order.EventID, err)
	}

	return order, nil
}

// GetOrderParams returns a maker order's parameters, serving from the
// cache when possible and falling back to the relay on a miss. The
// cache is derived state: a fallback fetch verifies the event in full
// before the result is cached or returned.
func (p *Processor) GetOrderParams(ctx context.Context, eventID string) (*domain.OrderParams, error) {
	params, err := p.store.Get(ctx, eventID)
	if err == nil {
		observability.RecordCacheHit()
		return params, nil
	}

	observability.RecordCacheMiss()

	order, err := p.GetOrderByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &domain.OrderParams{TaprootPubkeyGen: order.TaprootPubkeyGen, Args: order.Args}, nil
}
