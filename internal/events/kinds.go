// Package events defines the typed event schema of the marketplace
// protocol: one variant per event kind, each knowing how to form its
// tags, parse itself out of a raw relay event, and reduce to a display
// summary. The kind numbers and tag names are wire vocabulary; older
// readers must still parse newer events' core fields, so they never
// change across versions.
package events

// Event kind identifiers.
const (
	KindMakerOrder      = 9901
	KindOrderReply      = 9902
	KindOptionCreated   = 9910
	KindSwapCreated     = 9911
	KindActionCompleted = 9912
)

// Tag names.
const (
	TagPubkey      = "p"
	TagEvent       = "e"
	TagTaprootGen  = "t"
	TagOrderArgs   = "order_args"
	TagOptionsArgs = "options_args"
	TagSwapArgs    = "swap_args"
	TagOutpoint    = "outpoint"
	TagExpiry      = "expiry"
	TagAction      = "action"
	TagReplyType   = "reply_type"
	TagTxID        = "tx_id"
)

// Content strings. Human-readable only; machine parsing never reads
// content except the decline reason.
const (
	MakerOrderContent    = "UTXO order [Maker]!"
	TakerReplyContent    = "UTXO reply [Taker]!"
	OptionCreatedContent = "UTXO option [Maker]!"
	SwapCreatedContent   = "UTXO swap [Maker]!"
)
