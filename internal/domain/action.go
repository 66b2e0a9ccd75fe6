package domain

import "fmt"

// ActionType names a terminal or lifecycle on-chain action reported
// against a previously advertised contract. The string values are wire
// vocabulary and must stay stable across versions.
type ActionType string

const (
	ActionOptionCreated     ActionType = "option_created"
	ActionOptionFunded      ActionType = "option_funded"
	ActionOptionExercised   ActionType = "option_exercised"
	ActionOptionCancelled   ActionType = "option_cancelled"
	ActionOptionExpired     ActionType = "option_expired"
	ActionSettlementClaimed ActionType = "settlement_claimed"
	ActionSwapExercised     ActionType = "swap_exercised"
	ActionSwapCancelled     ActionType = "swap_cancelled"
)

// ParseActionType maps a wire string to an ActionType.
func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionOptionCreated, ActionOptionFunded, ActionOptionExercised,
		ActionOptionCancelled, ActionOptionExpired, ActionSettlementClaimed,
		ActionSwapExercised, ActionSwapCancelled:
		return ActionType(s), nil
	}
	return "", fmt.Errorf("unknown action type %q", s)
}

func (a ActionType) String() string { return string(a) }

// Terminal reports whether the action ends the contract lifecycle.
func (a ActionType) Terminal() bool {
	switch a {
	case ActionOptionExercised, ActionOptionCancelled, ActionOptionExpired,
		ActionSettlementClaimed, ActionSwapExercised, ActionSwapCancelled:
		return true
	}
	return false
}
