package events

import (
	"errors"
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/taproot"
)

func testOrderArgs() domain.OrderArgs {
	return domain.OrderArgs{
		TakerFundingStartTime:     1_700_000_000,
		TakerFundingEndTime:       1_700_003_600,
		ContractExpiryTime:        1_700_090_000,
		SettlementHeight:          1000,
		PrincipalCollateralAmount: 5_000_000,
		IncentiveBasisPoints:      250,
		StrikePrice:               42_000,
		CollateralAssetID:         domain.AssetID{0x01},
		SettlementAssetID:         domain.AssetID{0x02},
		OraclePublicKey:           [32]byte{0x03},
	}
}

func testOutpoint() domain.OutPoint {
	op, err := domain.ParseOutPoint(strings.Repeat("ab", 32) + ":1")
	if err != nil {
		panic(err)
	}
	return op
}

// signEvent builds and signs an event with a fresh key, returning the
// event and the author pubkey.
func signEvent(t *testing.T, kind int, content string, tags nostr.Tags) (*nostr.Event, string) {
	t.Helper()

	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		t.Fatalf("derive pubkey: %v", err)
	}

	ev := nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Now(),
		Tags:      tags,
		Content:   content,
	}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}
	return &ev, pk
}

func TestMakerOrderRoundTrip(t *testing.T) {
	args := testOrderArgs()
	outpoint := testOutpoint()

	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		t.Fatalf("derive pubkey: %v", err)
	}

	tags := FormMakerOrderTags(args, taproot.Testnet, outpoint, 1_800_000_000, pk)
	ev := nostr.Event{
		Kind:      KindMakerOrder,
		CreatedAt: nostr.Now(),
		Tags:      tags,
		Content:   MakerOrderContent,
	}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := ParseMakerOrder(&ev, taproot.Testnet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected a maker order event")
	}
	if parsed.Args != args {
		t.Errorf("args mismatch:\n in=%+v\nout=%+v", args, parsed.Args)
	}
	if parsed.Outpoint != outpoint {
		t.Errorf("outpoint mismatch: %v vs %v", outpoint, parsed.Outpoint)
	}
	if parsed.Expiry != 1_800_000_000 {
		t.Errorf("expiry mismatch: %d", parsed.Expiry)
	}
	if parsed.TaprootPubkeyGen != taproot.DeriveOrder(args, taproot.Testnet) {
		t.Error("commitment not carried through")
	}
}

func TestParseMakerOrderForeignKind(t *testing.T) {
	ev, _ := signEvent(t, 1, "just a note", nostr.Tags{})

	parsed, err := ParseMakerOrder(ev, taproot.Testnet)
	if err != nil {
		t.Errorf("foreign kinds are noise, not errors: %v", err)
	}
	if parsed != nil {
		t.Error("foreign kind must not parse")
	}
}

func TestParseMakerOrderRejectsWrongCommitment(t *testing.T) {
	args := testOrderArgs()

	other := args
	other.StrikePrice++

	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	// Tags claim the commitment of different arguments. The signature is
	// valid, so only the commitment check can catch it.
	tags := FormMakerOrderTags(args, taproot.Testnet, testOutpoint(), 1_800_000_000, pk)
	for i, tag := range tags {
		if tag[0] == TagTaprootGen {
			tags[i] = nostr.Tag{TagTaprootGen, taproot.DeriveOrder(other, taproot.Testnet)}
		}
	}
	ev := nostr.Event{Kind: KindMakerOrder, CreatedAt: nostr.Now(), Tags: tags, Content: MakerOrderContent}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err := ParseMakerOrder(&ev, taproot.Testnet)
	if !errors.Is(err, taproot.ErrMismatch) {
		t.Errorf("expected taproot.ErrMismatch, got %v", err)
	}
}

func TestParseMakerOrderRejectsTamperedTags(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	tags := FormMakerOrderTags(testOrderArgs(), taproot.Testnet, testOutpoint(), 1_800_000_000, pk)
	ev := nostr.Event{Kind: KindMakerOrder, CreatedAt: nostr.Now(), Tags: tags, Content: MakerOrderContent}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Mutate after signing: the signature check must fail.
	ev.Tags[3] = nostr.Tag{TagOutpoint, strings.Repeat("cd", 32) + ":0"}

	_, err := ParseMakerOrder(&ev, taproot.Testnet)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}

func TestParseMakerOrderMissingTag(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	args := testOrderArgs()
	tags := FormMakerOrderTags(args, taproot.Testnet, testOutpoint(), 1_800_000_000, pk)
	// Drop the expiry tag.
	tags = tags[:len(tags)-1]

	ev := nostr.Event{Kind: KindMakerOrder, CreatedAt: nostr.Now(), Tags: tags, Content: MakerOrderContent}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err := ParseMakerOrder(&ev, taproot.Testnet)
	if !errors.Is(err, ErrMissingTag) {
		t.Errorf("expected ErrMissingTag, got %v", err)
	}
}

func TestMakerOrderSummary(t *testing.T) {
	args := testOrderArgs()
	outpoint := testOutpoint()

	order := &MakerOrderEvent{
		EventID:          strings.Repeat("00", 32),
		CreatedAt:        nostr.Timestamp(1_700_000_000),
		Args:             args,
		TaprootPubkeyGen: "abcd",
		Outpoint:         outpoint,
		Expiry:           1_800_000_000,
	}

	s := order.Summary()
	if s.StrikePrice != args.StrikePrice {
		t.Errorf("strike price: %d", s.StrikePrice)
	}
	if s.Principal != "5000000" {
		t.Errorf("principal: %q", s.Principal)
	}
	if s.OracleShort != "03000000" {
		t.Errorf("oracle short: %q", s.OracleShort)
	}
	if s.Outpoint != outpoint.String() {
		t.Errorf("outpoint: %q", s.Outpoint)
	}
	if s.Expiry.Unix() != 1_800_000_000 {
		t.Errorf("expiry: %v", s.Expiry)
	}

	// Zero principal renders n/a.
	order.Args.PrincipalCollateralAmount = 0
	if got := order.Summary().Principal; got != "n/a" {
		t.Errorf("expected n/a, got %q", got)
	}
}
