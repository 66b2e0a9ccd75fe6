package domain

// ContractStatus is the derived lifecycle state of an advertised
// contract. It exists only as a fold over observed events; nothing
// stores or mutates it in place.
type ContractStatus string

const (
	StatusOpen      ContractStatus = "open"
	StatusFunded    ContractStatus = "funded"
	StatusExercised ContractStatus = "exercised"
	StatusCancelled ContractStatus = "cancelled"
	StatusExpired   ContractStatus = "expired"
	StatusClaimed   ContractStatus = "claimed"
)

// StatusAfter applies one observed action to a status. Terminal states
// absorb later non-terminal reports; a later terminal report replaces an
// earlier one, since the chain is the authority on which action actually
// confirmed.
func StatusAfter(current ContractStatus, action ActionType) ContractStatus {
	switch action {
	case ActionOptionFunded:
		if current == StatusOpen {
			return StatusFunded
		}
		return current
	case ActionOptionExercised, ActionSwapExercised:
		return StatusExercised
	case ActionOptionCancelled, ActionSwapCancelled:
		return StatusCancelled
	case ActionOptionExpired:
		return StatusExpired
	case ActionSettlementClaimed:
		return StatusClaimed
	}
	return current
}
