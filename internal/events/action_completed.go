package events

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/domain"
)

// ActionCompletedEvent is the typed projection of a kind-9912 event: a
// report that an on-chain action was taken against a previously
// advertised option or swap. The report itself proves nothing; the
// referenced outpoint on the chain is the authority.
type ActionCompletedEvent struct {
	EventID         string
	Pubkey          string
	CreatedAt       nostr.Timestamp
	OriginalEventID string
	Action          domain.ActionType
	Outpoint        domain.OutPoint
}

// FormActionCompletedTags builds the tag sequence of an action report
// referencing the original advertisement event.
func FormActionCompletedTags(originalEventID string, action domain.ActionType, outpoint domain.OutPoint, authorPubkey string) nostr.Tags {
	return nostr.Tags{
		{TagPubkey, authorPubkey},
		{TagEvent, originalEventID},
		{TagAction, action.String()},
		{TagOutpoint, outpoint.String()},
	}
}

// ParseActionCompleted projects a raw event into an
// ActionCompletedEvent. Returns (nil, nil) when the kind does not match.
func ParseActionCompleted(ev *nostr.Event) (*ActionCompletedEvent, error) {
	if ev.Kind != KindActionCompleted {
		return nil, nil
	}
	if err := verifySignature(ev); err != nil {
		return nil, err
	}

	originalID, err := requireTagValue(ev, TagEvent)
	if err != nil {
		return nil, err
	}
	if !isHex64(originalID) {
		return nil, fmt.Errorf("event %s: malformed original event id %q", ev.ID, originalID)
	}

	actionStr, err := requireTagValue(ev, TagAction)
	if err != nil {
		return nil, err
	}
	action, err := domain.ParseActionType(actionStr)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	outpointStr, err := requireTagValue(ev, TagOutpoint)
	if err != nil {
		return nil, err
	}
	outpoint, err := domain.ParseOutPoint(outpointStr)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	return &ActionCompletedEvent{
		EventID:         ev.ID,
		Pubkey:          ev.PubKey,
		CreatedAt:       ev.CreatedAt,
		OriginalEventID: originalID,
		Action:          action,
		Outpoint:        outpoint,
	}, nil
}
