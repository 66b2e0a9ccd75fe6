// Package domain defines the contract vocabulary shared by the codec,
// event schema, and protocol handlers: committed argument sets, outpoints,
// asset identifiers, and lifecycle actions.
package domain

import (
	"encoding/hex"
	"fmt"
)

// AssetID identifies an on-chain asset (32 bytes, hex on the wire).
type AssetID [32]byte

// AssetIDFromHex parses a 64-character hex string into an AssetID.
func AssetIDFromHex(s string) (AssetID, error) {
	var id AssetID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("asset id: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("asset id: expected %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id AssetID) String() string {
	return hex.EncodeToString(id[:])
}

// OrderArgs is the committed argument set of a spot (DCD) maker order.
// Field order is the wire order used by the codec.
type OrderArgs struct {
	TakerFundingStartTime        uint32
	TakerFundingEndTime          uint32
	ContractExpiryTime           uint32
	EarlyTerminationEndTime      uint32
	SettlementHeight             uint32
	PrincipalCollateralAmount    uint64
	IncentiveBasisPoints         uint64
	FillerPerPrincipalCollateral uint64
	StrikePrice                  uint64
	CollateralAssetID            AssetID
	SettlementAssetID            AssetID
	OraclePublicKey              [32]byte
}

// OptionsArgs is the committed argument set of an options contract.
type OptionsArgs struct {
	StartTime             uint32
	ExpiryTime            uint32
	CollateralPerContract uint64
	SettlementPerContract uint64
	CollateralAssetID     AssetID
	SettlementAssetID     AssetID
	OptionTokenEntropy    [32]byte
	GrantorTokenEntropy   [32]byte
}

// SwapArgs is the committed argument set of a swap-with-change contract.
type SwapArgs struct {
	CollateralAssetID AssetID
	SettlementAssetID AssetID
	CollateralAmount  uint64
	SettlementAmount  uint64
	ChangeEntropy     [32]byte
}

// OrderParams is the locally cached projection of a maker order: the
// commitment string plus the decoded arguments. It is a derived index
// keyed by the originating event id, never a source of truth.
type OrderParams struct {
	TaprootPubkeyGen string
	Args             OrderArgs
}
