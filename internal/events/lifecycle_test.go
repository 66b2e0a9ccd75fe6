package events

import (
	"errors"
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/taproot"
)

func TestOptionCreatedRoundTrip(t *testing.T) {
	args := domain.OptionsArgs{
		StartTime:             10,
		ExpiryTime:            50,
		CollateralPerContract: 100,
		SettlementPerContract: 1000,
		CollateralAssetID:     domain.AssetID{0x01},
		SettlementAssetID:     domain.AssetID{0x02},
		OptionTokenEntropy:    [32]byte{0x03},
		GrantorTokenEntropy:   [32]byte{0x04},
	}
	outpoint := testOutpoint()

	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	ev := nostr.Event{
		Kind:      KindOptionCreated,
		CreatedAt: nostr.Now(),
		Tags:      FormOptionCreatedTags(args, taproot.Testnet, outpoint, 1_800_000_000, pk),
		Content:   OptionCreatedContent,
	}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := ParseOptionCreated(&ev, taproot.Testnet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Args != args {
		t.Errorf("args mismatch: %+v", parsed.Args)
	}
	if parsed.Outpoint != outpoint {
		t.Errorf("outpoint mismatch: %v", parsed.Outpoint)
	}
}

func TestSwapCreatedRoundTrip(t *testing.T) {
	args := domain.SwapArgs{
		CollateralAssetID: domain.AssetID{0x05},
		SettlementAssetID: domain.AssetID{0x06},
		CollateralAmount:  1000,
		SettlementAmount:  50,
		ChangeEntropy:     [32]byte{0x07},
	}

	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	ev := nostr.Event{
		Kind:      KindSwapCreated,
		CreatedAt: nostr.Now(),
		Tags:      FormSwapCreatedTags(args, taproot.Testnet, testOutpoint(), 1_800_000_000, pk),
		Content:   SwapCreatedContent,
	}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := ParseSwapCreated(&ev, taproot.Testnet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Args != args {
		t.Errorf("args mismatch: %+v", parsed.Args)
	}
}

func TestSwapCreatedRejectsWrongCommitment(t *testing.T) {
	args := domain.SwapArgs{CollateralAmount: 1000, SettlementAmount: 50}
	other := args
	other.SettlementAmount = 51

	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	tags := FormSwapCreatedTags(args, taproot.Testnet, testOutpoint(), 1_800_000_000, pk)
	for i, tag := range tags {
		if tag[0] == TagTaprootGen {
			tags[i] = nostr.Tag{TagTaprootGen, taproot.DeriveSwap(other, taproot.Testnet)}
		}
	}
	ev := nostr.Event{Kind: KindSwapCreated, CreatedAt: nostr.Now(), Tags: tags, Content: SwapCreatedContent}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err := ParseSwapCreated(&ev, taproot.Testnet)
	if !errors.Is(err, taproot.ErrMismatch) {
		t.Errorf("expected taproot.ErrMismatch, got %v", err)
	}
}

func TestActionCompletedRoundTrip(t *testing.T) {
	originalID := strings.Repeat("55", 32)
	outpoint := testOutpoint()

	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	ev := nostr.Event{
		Kind:      KindActionCompleted,
		CreatedAt: nostr.Now(),
		Tags:      FormActionCompletedTags(originalID, domain.ActionOptionExercised, outpoint, pk),
	}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := ParseActionCompleted(&ev)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.OriginalEventID != originalID {
		t.Errorf("original id: %q", parsed.OriginalEventID)
	}
	if parsed.Action != domain.ActionOptionExercised {
		t.Errorf("action: %q", parsed.Action)
	}
	if parsed.Outpoint != outpoint {
		t.Errorf("outpoint: %v", parsed.Outpoint)
	}
}

func TestParseActionCompletedUnknownAction(t *testing.T) {
	tags := nostr.Tags{
		{TagEvent, strings.Repeat("66", 32)},
		{TagAction, "option_teleported"},
		{TagOutpoint, testOutpoint().String()},
	}
	ev, _ := signEvent(t, KindActionCompleted, "", tags)

	if _, err := ParseActionCompleted(ev); err == nil {
		t.Error("expected error for unknown action")
	}
}
