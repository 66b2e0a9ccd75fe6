package events

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/codec"
	"utxo-dex-relay/internal/domain"
)

// ReplyType names a taker's response variant to a maker order.
type ReplyType string

const (
	// ReplyAccept takes the order as advertised; TxID is the taker's
	// funding transaction.
	ReplyAccept ReplyType = "accept"
	// ReplyCounter proposes amended arguments; carries the full
	// re-encoded set plus the taker's funding transaction.
	ReplyCounter ReplyType = "counter"
	// ReplyDecline turns the order down with a free-text reason.
	ReplyDecline ReplyType = "decline"
)

// OrderReply is the variant-specific payload of a reply event.
type OrderReply struct {
	Type        ReplyType
	TxID        domain.Txid       // accept, counter
	CounterArgs *domain.OrderArgs // counter only
	Reason      string            // decline only, travels in content
}

// Content returns the content string for a reply event of this variant.
func (r OrderReply) Content() string {
	if r.Type == ReplyDecline {
		return r.Reason
	}
	return TakerReplyContent
}

// FormTags builds the reply tag sequence referencing the maker order.
func (r OrderReply) FormTags(sourceEventID, authorPubkey string) nostr.Tags {
	tags := nostr.Tags{
		{TagPubkey, authorPubkey},
		{TagEvent, sourceEventID},
		{TagReplyType, string(r.Type)},
	}
	switch r.Type {
	case ReplyAccept:
		tags = append(tags, nostr.Tag{TagTxID, r.TxID.String()})
	case ReplyCounter:
		tags = append(tags, nostr.Tag{TagTxID, r.TxID.String()})
		if r.CounterArgs != nil {
			tags = append(tags, nostr.Tag{TagOrderArgs, codec.OrderArgsToHex(*r.CounterArgs)})
		}
	case ReplyDecline:
		// reason travels in content
	}
	return tags
}

// OrderReplyEvent is the typed projection of a kind-9902 event. It is
// meaningless without SourceEventID resolving to a maker order; an
// unresolvable reference makes the event unresolved, not invalid.
type OrderReplyEvent struct {
	EventID       string
	Pubkey        string
	CreatedAt     nostr.Timestamp
	SourceEventID string
	Reply         OrderReply
}

// ParseOrderReply projects a raw event into an OrderReplyEvent. Returns
// (nil, nil) when the kind does not match.
func ParseOrderReply(ev *nostr.Event) (*OrderReplyEvent, error) {
	if ev.Kind != KindOrderReply {
		return nil, nil
	}
	if err := verifySignature(ev); err != nil {
		return nil, err
	}

	sourceID, err := requireTagValue(ev, TagEvent)
	if err != nil {
		return nil, err
	}
	if !isHex64(sourceID) {
		return nil, fmt.Errorf("event %s: malformed source event id %q", ev.ID, sourceID)
	}

	replyType, err := requireTagValue(ev, TagReplyType)
	if err != nil {
		return nil, err
	}

	reply := OrderReply{Type: ReplyType(replyType)}
	switch reply.Type {
	case ReplyAccept, ReplyCounter:
		txStr, err := requireTagValue(ev, TagTxID)
		if err != nil {
			return nil, err
		}
		txID, err := domain.TxidFromHex(txStr)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		reply.TxID = txID

		if reply.Type == ReplyCounter {
			argsHex, err := requireTagValue(ev, TagOrderArgs)
			if err != nil {
				return nil, err
			}
			args, err := codec.OrderArgsFromHex(argsHex)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", ev.ID, err)
			}
			reply.CounterArgs = &args
		}
	case ReplyDecline:
		reply.Reason = ev.Content
	default:
		return nil, fmt.Errorf("event %s: unknown reply type %q", ev.ID, replyType)
	}

	return &OrderReplyEvent{
		EventID:       ev.ID,
		Pubkey:        ev.PubKey,
		CreatedAt:     ev.CreatedAt,
		SourceEventID: sourceID,
		Reply:         reply,
	}, nil
}
