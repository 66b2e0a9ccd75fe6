package events

import (
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/codec"
	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/taproot"
)

// MakerOrderEvent is the typed projection of a kind-9901 event: a maker
// advertising a spot order, committing to its argument set via the
// taproot tag and funding it from Outpoint. Never updated after
// publication; it expires when the wall clock passes Expiry.
type MakerOrderEvent struct {
	EventID          string
	Pubkey           string
	CreatedAt        nostr.Timestamp
	Args             domain.OrderArgs
	TaprootPubkeyGen string
	Outpoint         domain.OutPoint
	Expiry           uint64
}

// FormMakerOrderTags builds the ordered tag sequence of a maker order.
// Deterministic: the same inputs always yield the same tags, so a reader
// can re-derive them when validating an incoming event.
func FormMakerOrderTags(args domain.OrderArgs, params taproot.Params, outpoint domain.OutPoint, expiry uint64, authorPubkey string) nostr.Tags {
	return nostr.Tags{
		{TagPubkey, authorPubkey},
		{TagOrderArgs, codec.OrderArgsToHex(args)},
		{TagTaprootGen, taproot.DeriveOrder(args, params)},
		{TagOutpoint, outpoint.String()},
		{TagExpiry, formatExpiry(expiry)},
	}
}

// ParseMakerOrder projects a raw event into a MakerOrderEvent. Returns
// (nil, nil) when the kind does not match. Returns an error when a
// required tag is absent or malformed, the signature fails, or the
// commitment check fails (taproot.ErrMismatch, reported distinctly).
func ParseMakerOrder(ev *nostr.Event, params taproot.Params) (*MakerOrderEvent, error) {
	if ev.Kind != KindMakerOrder {
		return nil, nil
	}
	if err := verifySignature(ev); err != nil {
		return nil, err
	}

	argsHex, err := requireTagValue(ev, TagOrderArgs)
	if err != nil {
		return nil, err
	}
	args, err := codec.OrderArgsFromHex(argsHex)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	commitment, err := requireTagValue(ev, TagTaprootGen)
	if err != nil {
		return nil, err
	}
	if err := taproot.VerifyOrder(args, params, commitment); err != nil {
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

	return &MakerOrderEvent{
		EventID:          ev.ID,
		Pubkey:           ev.PubKey,
		CreatedAt:        ev.CreatedAt,
		Args:             args,
		TaprootPubkeyGen: commitment,
		Outpoint:         outpoint,
		Expiry:           expiry,
	}, nil
}

// OrderSummary is the reduced, display-oriented view of a maker order.
// No secret material, no cache keys.
type OrderSummary struct {
	EventID              string
	Time                 time.Time
	TaprootPubkeyGen     string
	StrikePrice          uint64
	Principal            string
	IncentiveBasisPoints uint64
	SettlementHeight     uint32
	OracleShort          string
	CollateralAssetID    string
	SettlementAssetID    string
	Outpoint             string
	Expiry               time.Time
}

// Summary reduces the order to its display view.
func (e *MakerOrderEvent) Summary() OrderSummary {
	return OrderSummary{
		EventID:              e.EventID,
		Time:                 e.CreatedAt.Time().UTC(),
		TaprootPubkeyGen:     e.TaprootPubkeyGen,
		StrikePrice:          e.Args.StrikePrice,
		Principal:            amountOrNA(e.Args.PrincipalCollateralAmount),
		IncentiveBasisPoints: e.Args.IncentiveBasisPoints,
		SettlementHeight:     e.Args.SettlementHeight,
		OracleShort:          shortKey(e.Args.OraclePublicKey),
		CollateralAssetID:    e.Args.CollateralAssetID.String(),
		SettlementAssetID:    e.Args.SettlementAssetID.String(),
		Outpoint:             e.Outpoint.String(),
		Expiry:               time.Unix(int64(e.Expiry), 0).UTC(),
	}
}

func amountOrNA(v uint64) string {
	if v == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", v)
}

func shortKey(key [32]byte) string {
	var zero [32]byte
	if key == zero {
		return "n/a"
	}
	return fmt.Sprintf("%x", key[:4])
}
