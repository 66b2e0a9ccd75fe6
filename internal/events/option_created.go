package events

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/codec"
	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/taproot"
)

// OptionCreatedEvent is the typed projection of a kind-9910 event: an
// options contract advertised with its committed arguments, funding
// outpoint, and taproot commitment.
type OptionCreatedEvent struct {
	EventID          string
	Pubkey           string
	CreatedAt        nostr.Timestamp
	Args             domain.OptionsArgs
	TaprootPubkeyGen string
	Outpoint         domain.OutPoint
	Expiry           uint64
}

// FormOptionCreatedTags builds the ordered tag sequence of an
// option-created advertisement.
func FormOptionCreatedTags(args domain.OptionsArgs, params taproot.Params, outpoint domain.OutPoint, expiry uint64, authorPubkey string) nostr.Tags {
	return nostr.Tags{
		{TagPubkey, authorPubkey},
		{TagOptionsArgs, codec.OptionsArgsToHex(args)},
		{TagTaprootGen, taproot.DeriveOptions(args, params)},
		{TagOutpoint, outpoint.String()},
		{TagExpiry, formatExpiry(expiry)},
	}
}

// ParseOptionCreated projects a raw event into an OptionCreatedEvent.
// Returns (nil, nil) when the kind does not match; taproot mismatches
// surface as taproot.ErrMismatch.
func ParseOptionCreated(ev *nostr.Event, params taproot.Params) (*OptionCreatedEvent, error) {
	if ev.Kind != KindOptionCreated {
		return nil, nil
	}
	if err := verifySignature(ev); err != nil {
		return nil, err
	}

	argsHex, err := requireTagValue(ev, TagOptionsArgs)
	if err != nil {
		return nil, err
	}
	args, err := codec.OptionsArgsFromHex(argsHex)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	commitment, err := requireTagValue(ev, TagTaprootGen)
	if err != nil {
		return nil, err
	}
	if err := taproot.VerifyOptions(args, params, commitment); err != nil {
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

	return &OptionCreatedEvent{
		EventID:          ev.ID,
		Pubkey:           ev.PubKey,
		CreatedAt:        ev.CreatedAt,
		Args:             args,
		TaprootPubkeyGen: commitment,
		Outpoint:         outpoint,
		Expiry:           expiry,
	}, nil
}
