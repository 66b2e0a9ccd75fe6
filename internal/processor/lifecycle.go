package processor

import (
	"context"
	"fmt"
	"sort"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/events"
	"utxo-dex-relay/internal/filters"
	"utxo-dex-relay/internal/relay"
)

// CreateOption publishes an option-created advertisement and returns
// its event id.
func (p *Processor) CreateOption(ctx context.Context, args domain.OptionsArgs, outpoint domain.OutPoint, expiry uint64) (string, error) {
	if p.publisher == nil {
		return "", relay.ErrMissingSigner
	}

	tags := events.FormOptionCreatedTags(args, p.params, outpoint, expiry, p.publisher.PublicKey())
	id, err := p.publisher.Publish(ctx, events.KindOptionCreated, events.OptionCreatedContent, tags)
	if err != nil {
		return "", fmt.Errorf("create option: %w", err)
	}
	return id, nil
}

// ListOptions fetches, verifies, and returns live option advertisements
// in chronological order.
func (p *Processor) ListOptions(ctx context.Context, q filters.ListQuery) ([]*events.OptionCreatedEvent, error) {
	raw, err := p.reader.RequestAndCollect(ctx, filters.OptionsCreatedBy(q))
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}

	var options []*events.OptionCreatedEvent
	for _, ev := range raw {
		option, err := events.ParseOptionCreated(ev, p.params)
		if err != nil {
			p.dropParseFailure(events.KindOptionCreated, ev.ID, err)
			continue
		}
		if option == nil {
			continue
		}
		p.recordParsed(events.KindOptionCreated)
		if !p.live(option.Expiry) {
			continue
		}
		options = append(options, option)
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].CreatedAt != options[j].CreatedAt {
			return options[i].CreatedAt < options[j].CreatedAt
		}
		return options[i].EventID < options[j].EventID
	})

	return options, nil
}

// CreateSwap publishes a swap-created advertisement and returns its
// event id.
func (p *Processor) CreateSwap(ctx context.Context, args domain.SwapArgs, outpoint domain.OutPoint, expiry uint64) (string, error) {
	if p.publisher == nil {
		return "", relay.ErrMissingSigner
	}

	tags := events.FormSwapCreatedTags(args, p.params, outpoint, expiry, p.publisher.PublicKey())
	id, err := p.publisher.Publish(ctx, events.KindSwapCreated, events.SwapCreatedContent, tags)
	if err != nil {
		return "", fmt.Errorf("create swap: %w", err)
	}
	return id, nil
}

// ListSwaps fetches, verifies, and returns live swap advertisements in
// chronological order.
func (p *Processor) ListSwaps(ctx context.Context, q filters.ListQuery) ([]*events.SwapCreatedEvent, error) {
	raw, err := p.reader.RequestAndCollect(ctx, filters.SwapsCreatedBy(q))
	if err != nil {
		return nil, fmt.Errorf("list swaps: %w", err)
	}

	var swaps []*events.SwapCreatedEvent
	for _, ev := range raw {
		swap, err := events.ParseSwapCreated(ev, p.params)
		if err != nil {
			p.dropParseFailure(events.KindSwapCreated, ev.ID, err)
			continue
		}
		if swap == nil {
			continue
		}
		p.recordParsed(events.KindSwapCreated)
		if !p.live(swap.Expiry) {
			continue
		}
		swaps = append(swaps, swap)
	}

	sort.Slice(swaps, func(i, j int) bool {
		if swaps[i].CreatedAt != swaps[j].CreatedAt {
			return swaps[i].CreatedAt < swaps[j].CreatedAt
		}
		return swaps[i].EventID < swaps[j].EventID
	})

	return swaps, nil
}

// ReportAction publishes an action-completed report against a contract
// advertisement and returns the report's event id.
func (p *Processor) ReportAction(ctx context.Context, originalEventID string, action domain.ActionType, outpoint domain.OutPoint) (string, error) {
	if p.publisher == nil {
		return "", relay.ErrMissingSigner
	}

	tags := events.FormActionCompletedTags(originalEventID, action, outpoint, p.publisher.PublicKey())
	id, err := p.publisher.Publish(ctx, events.KindActionCompleted, "", tags)
	if err != nil {
		return "", fmt.Errorf("report action %s for %s: %w", action, originalEventID, err)
	}
	return id, nil
}

// ActionsForEvent fetches the verified action reports referencing a
// contract advertisement in chronological order.
func (p *Processor) ActionsForEvent(ctx context.Context, originalEventID string) ([]*events.ActionCompletedEvent, error) {
	raw, err := p.reader.RequestAndCollect(ctx, filters.ActionsFor(originalEventID))
	if err != nil {
		return nil, fmt.Errorf("actions for %s: %w", originalEventID, err)
	}

	var actions []*events.ActionCompletedEvent
	for _, ev := range raw {
		action, err := events.ParseActionCompleted(ev)
		if err != nil {
			p.dropParseFailure(events.KindActionCompleted, ev.ID, err)
			continue
		}
		if action == nil {
			continue
		}
		p.recordParsed(events.KindActionCompleted)
		actions = append(actions, action)
	}

	sort.Slice(actions, func(i, j int) bool {
		if actions[i].CreatedAt != actions[j].CreatedAt {
			return actions[i].CreatedAt < actions[j].CreatedAt
		}
		return actions[i].EventID < actions[j].EventID
	})

	return actions, nil
}

// ContractStatus folds the chronological action reports for a contract
// into its derived lifecycle state. A contract with no reports is open.
// The fold is re-runnable: the same raw set always reduces to the same
// status.
func (p *Processor) ContractStatus(ctx context.Context, originalEventID string) (domain.ContractStatus, error) {
	actions, err := p.ActionsForEvent(ctx, originalEventID)
	if err != nil {
		return "", err
	}

	status := domain.StatusOpen
	for _, action := range actions {
		status = domain.StatusAfter(status, action.Action)
	}
	return status, nil
}
