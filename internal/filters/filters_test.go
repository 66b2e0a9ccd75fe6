package filters

import (
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/events"
)

func TestMakerOrdersMatchesKind(t *testing.T) {
	f := MakerOrders()
	if len(f.Kinds) != 1 || f.Kinds[0] != events.KindMakerOrder {
		t.Errorf("kinds = %v", f.Kinds)
	}
	if len(f.Authors) != 0 || f.Limit != 0 {
		t.Errorf("unexpected constraints: %+v", f)
	}
}

func TestMakerOrdersByAppliesQuery(t *testing.T) {
	since := nostr.Timestamp(1_700_000_000)
	f := MakerOrdersBy(ListQuery{
		Authors: []string{"abc"},
		Since:   &since,
		Limit:   25,
	})
	if len(f.Authors) != 1 || f.Authors[0] != "abc" {
		t.Errorf("authors = %v", f.Authors)
	}
	if f.Since == nil || *f.Since != since {
		t.Errorf("since = %v", f.Since)
	}
	if f.Until != nil {
		t.Errorf("until should be unset, got %v", f.Until)
	}
	if f.Limit != 25 {
		t.Errorf("limit = %d", f.Limit)
	}
}

func TestRepliesTo(t *testing.T) {
	id := strings.Repeat("11", 32)
	f := RepliesTo(id)
	if len(f.Kinds) != 1 || f.Kinds[0] != events.KindOrderReply {
		t.Errorf("kinds = %v", f.Kinds)
	}
	refs := f.Tags[events.TagEvent]
	if len(refs) != 1 || refs[0] != id {
		t.Errorf("e-tag refs = %v", refs)
	}
}

func TestActionsForMatchesReports(t *testing.T) {
	id := strings.Repeat("22", 32)
	f := ActionsFor(id)

	ev := nostr.Event{
		Kind: events.KindActionCompleted,
		Tags: nostr.Tags{{events.TagEvent, id}},
	}
	if !f.Matches(&ev) {
		t.Error("filter should match a report for the contract")
	}

	other := nostr.Event{
		Kind: events.KindActionCompleted,
		Tags: nostr.Tags{{events.TagEvent, strings.Repeat("33", 32)}},
	}
	if f.Matches(&other) {
		t.Error("filter should not match a report for another contract")
	}
}

func TestEventByID(t *testing.T) {
	id := strings.Repeat("44", 32)
	f := EventByID(id)
	if len(f.IDs) != 1 || f.IDs[0] != id {
		t.Errorf("ids = %v", f.IDs)
	}
	if f.Limit != 1 {
		t.Errorf("limit = %d", f.Limit)
	}
}
