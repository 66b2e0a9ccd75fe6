// Package filters builds the relay subscription filters used by the
// marketplace. Keeping filter construction in one place means every
// reader asks the relay the same question for the same purpose, which
// makes caching and testing the read paths straightforward.
package filters

import (
	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/events"
)

// ListQuery narrows a listing filter beyond its kind. The zero value
// places no additional constraints.
type ListQuery struct {
	Authors []string
	Since   *nostr.Timestamp
	Until   *nostr.Timestamp
	Limit   int
}

func (q ListQuery) apply(f nostr.Filter) nostr.Filter {
	if len(q.Authors) > 0 {
		f.Authors = q.Authors
	}
	f.Since = q.Since
	f.Until = q.Until
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	return f
}

// MakerOrders matches every maker order advertisement on the relay.
func MakerOrders() nostr.Filter {
	return nostr.Filter{Kinds: []int{events.KindMakerOrder}}
}

// MakerOrdersBy narrows maker orders with the given query.
func MakerOrdersBy(q ListQuery) nostr.Filter {
	return q.apply(MakerOrders())
}

// RepliesTo matches taker replies referencing the given order event.
func RepliesTo(orderEventID string) nostr.Filter {
	return nostr.Filter{
		Kinds: []int{events.KindOrderReply},
		Tags:  nostr.TagMap{events.TagEvent: []string{orderEventID}},
	}
}

// OptionsCreated matches option creation announcements.
func OptionsCreated() nostr.Filter {
	return nostr.Filter{Kinds: []int{events.KindOptionCreated}}
}

// OptionsCreatedBy narrows option announcements with the given query.
func OptionsCreatedBy(q ListQuery) nostr.Filter {
	return q.apply(OptionsCreated())
}

// SwapsCreated matches swap creation announcements.
func SwapsCreated() nostr.Filter {
	return nostr.Filter{Kinds: []int{events.KindSwapCreated}}
}

// SwapsCreatedBy narrows swap announcements with the given query.
func SwapsCreatedBy(q ListQuery) nostr.Filter {
	return q.apply(SwapsCreated())
}

// ActionsCompleted matches every action report on the relay.
func ActionsCompleted() nostr.Filter {
	return nostr.Filter{Kinds: []int{events.KindActionCompleted}}
}

// ActionsFor matches action reports referencing the given contract
// announcement event.
func ActionsFor(originalEventID string) nostr.Filter {
	return nostr.Filter{
		Kinds: []int{events.KindActionCompleted},
		Tags:  nostr.TagMap{events.TagEvent: []string{originalEventID}},
	}
}

// EventByID matches exactly the event with the given id.
func EventByID(eventID string) nostr.Filter {
	return nostr.Filter{IDs: []string{eventID}, Limit: 1}
}
