package events

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/codec"
	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/taproot"
)

// SwapCreatedEvent is the typed projection of a kind-9911 event: a
// swap-with-change contract advertisement.
type SwapCreatedEvent struct {
	EventID          string
	Pubkey           string
	CreatedAt        nostr.Timestamp
	Args             domain.SwapArgs
	TaprootPubkeyGen string
	Outpoint         domain.OutPoint
	Expiry           uint64
}

// FormSwapCreatedTags builds the ordered tag sequence of a swap-created
// advertisement.
func FormSwapCreatedTags(args domain.SwapArgs, params taproot.Params, outpoint domain.OutPoint, expiry uint64, authorPubkey string) nostr.Tags {
	return nostr.Tags{
		{TagPubkey, authorPubkey},
		{TagSwapArgs, codec.SwapArgsToHex(args)},
		{TagTaprootGen, taproot.DeriveSwap(args, params)},
		{TagOutpoint, outpoint.String()},
		{TagExpiry, formatExpiry(expiry)},
	}
}

// ParseSwapCreated projects a raw event into a SwapCreatedEvent. Returns
// (nil, nil) when the kind does not match.
func ParseSwapCreated(ev *nostr.Event, params taproot.Params) (*SwapCreatedEvent, error) {
	if ev.Kind != KindSwapCreated {
		return nil, nil
	}
	if err := verifySignature(ev); err != nil {
		return nil, err
	}

	argsHex, err := requireTagValue(ev, TagSwapArgs)
	if err != nil {
		return nil, err
	}
	args, err := codec.SwapArgsFromHex(argsHex)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	commitment, err := requireTagValue(ev, TagTaprootGen)
	if err != nil {
		return nil, err
	}
	if err := taproot.VerifySwap(args, params, commitment); err != nil {
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

	expiry, err := parseExpiryTag(ev)
	if err != nil {
		return nil, err
	}

	return &SwapCreatedEvent{
		EventID:          ev.ID,
		Pubkey:           ev.PubKey,
		CreatedAt:        ev.CreatedAt,
		Args:             args,
		TaprootPubkeyGen: commitment,
		Outpoint:         outpoint,
		Expiry:           expiry,
	}, nil
}
