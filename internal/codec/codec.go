// Package codec encodes contract argument sets into the deterministic
// binary layout carried inside event tags, framed as hex. Decoding is the
// exact inverse: it fails with a distinct error for invalid hex, for a
// short buffer, and for trailing bytes, and never silently truncates.
package codec

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"utxo-dex-relay/internal/domain"
)

// Decoding errors. Callers classify with errors.Is.
var (
	// ErrShortBuffer is returned when the binary layout ends before all
	// fields are read.
	ErrShortBuffer = errors.New("short buffer")

	// ErrTrailingBytes is returned when bytes remain after the last field.
	ErrTrailingBytes = errors.New("trailing bytes after last field")
)

// EncodeOrderArgs serializes spot order arguments in wire field order,
// little-endian fixed-width integers followed by 32-byte arrays.
func EncodeOrderArgs(a domain.OrderArgs) []byte {
	w := newWriter(5*4 + 4*8 + 3*32)
	w.u32(a.TakerFundingStartTime)
	w.u32(a.TakerFundingEndTime)
	w.u32(a.ContractExpiryTime)
	w.u32(a.EarlyTerminationEndTime)
	w.u32(a.SettlementHeight)
	w.u64(a.PrincipalCollateralAmount)
	w.u64(a.IncentiveBasisPoints)
	w.u64(a.FillerPerPrincipalCollateral)
	w.u64(a.StrikePrice)
	w.bytes32(a.CollateralAssetID)
	w.bytes32(a.SettlementAssetID)
	w.bytes32(a.OraclePublicKey)
	return w.buf
}

// DecodeOrderArgs is the inverse of EncodeOrderArgs.
func DecodeOrderArgs(b []byte) (domain.OrderArgs, error) {
	var a domain.OrderArgs
	r := &reader{buf: b}
	a.TakerFundingStartTime = r.u32("taker_funding_start_time")
	a.TakerFundingEndTime = r.u32("taker_funding_end_time")
	a.ContractExpiryTime = r.u32("contract_expiry_time")
	a.EarlyTerminationEndTime = r.u32("early_termination_end_time")
	a.SettlementHeight = r.u32("settlement_height")
	a.PrincipalCollateralAmount = r.u64("principal_collateral_amount")
	a.IncentiveBasisPoints = r.u64("incentive_basis_points")
	a.FillerPerPrincipalCollateral = r.u64("filler_per_principal_collateral")
	a.StrikePrice = r.u64("strike_price")
	a.CollateralAssetID = domain.AssetID(r.bytes32("collateral_asset_id"))
	a.SettlementAssetID = domain.AssetID(r.bytes32("settlement_asset_id"))
	a.OraclePublicKey = r.bytes32("oracle_public_key")
	if err := r.finish("order args"); err != nil {
		return domain.OrderArgs{}, err
	}
	return a, nil
}

// EncodeOptionsArgs serializes options contract arguments.
func EncodeOptionsArgs(a domain.OptionsArgs) []byte {
	w := newWriter(2*4 + 2*8 + 4*32)
	w.u32(a.StartTime)
	w.u32(a.ExpiryTime)
	w.u64(a.CollateralPerContract)
	w.u64(a.SettlementPerContract)
	w.bytes32(a.CollateralAssetID)
	w.bytes32(a.SettlementAssetID)
	w.bytes32(a.OptionTokenEntropy)
	w.bytes32(a.GrantorTokenEntropy)
	return w.buf
}

// DecodeOptionsArgs is the inverse of EncodeOptionsArgs.
func DecodeOptionsArgs(b []byte) (domain.OptionsArgs, error) {
	var a domain.OptionsArgs
	r := &reader{buf: b}
	a.StartTime = r.u32("start_time")
	a.ExpiryTime = r.u32("expiry_time")
	a.CollateralPerContract = r.u64("collateral_per_contract")
	a.SettlementPerContract = r.u64("settlement_per_contract")
	a.CollateralAssetID = domain.AssetID(r.bytes32("collateral_asset_id"))
	a.SettlementAssetID = domain.AssetID(r.bytes32("settlement_asset_id"))
	a.OptionTokenEntropy = r.bytes32("option_token_entropy")
	a.GrantorTokenEntropy = r.bytes32("grantor_token_entropy")
	if err := r.finish("options args"); err != nil {
		return domain.OptionsArgs{}, err
	}
	return a, nil
}

// EncodeSwapArgs serializes swap-with-change arguments.
func EncodeSwapArgs(a domain.SwapArgs) []byte {
	w := newWriter(3*32 + 2*8)
	w.bytes32(a.CollateralAssetID)
	w.bytes32(a.SettlementAssetID)
	w.u64(a.CollateralAmount)
	w.u64(a.SettlementAmount)
	w.bytes32(a.ChangeEntropy)
	return w.buf
}

// DecodeSwapArgs is the inverse of EncodeSwapArgs.
func DecodeSwapArgs(b []byte) (domain.SwapArgs, error) {
	var a domain.SwapArgs
	r := &reader{buf: b}
	a.CollateralAssetID = domain.AssetID(r.bytes32("collateral_asset_id"))
	a.SettlementAssetID = domain.AssetID(r.bytes32("settlement_asset_id"))
	a.CollateralAmount = r.u64("collateral_amount")
	a.SettlementAmount = r.u64("settlement_amount")
	a.ChangeEntropy = r.bytes32("change_entropy")
	if err := r.finish("swap args"); err != nil {
		return domain.SwapArgs{}, err
	}
	return a, nil
}

// OrderArgsToHex frames the binary encoding as a single tag value.
func OrderArgsToHex(a domain.OrderArgs) string {
	return hex.EncodeToString(EncodeOrderArgs(a))
}

// OrderArgsFromHex decodes a tag value produced by OrderArgsToHex.
func OrderArgsFromHex(s string) (domain.OrderArgs, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return domain.OrderArgs{}, fmt.Errorf("order args: invalid hex: %w", err)
	}
	return DecodeOrderArgs(b)
}

// OptionsArgsToHex frames the binary encoding as a single tag value.
func OptionsArgsToHex(a domain.OptionsArgs) string {
	return hex.EncodeToString(EncodeOptionsArgs(a))
}

// OptionsArgsFromHex decodes a tag value produced by OptionsArgsToHex.
func OptionsArgsFromHex(s string) (domain.OptionsArgs, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return domain.OptionsArgs{}, fmt.Errorf("options args: invalid hex: %w", err)
	}
	return DecodeOptionsArgs(b)
}

// SwapArgsToHex frames the binary encoding as a single tag value.
func SwapArgsToHex(a domain.SwapArgs) string {
	return hex.EncodeToString(EncodeSwapArgs(a))
}

// SwapArgsFromHex decodes a tag value produced by SwapArgsToHex.
func SwapArgsFromHex(s string) (domain.SwapArgs, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return domain.SwapArgs{}, fmt.Errorf("swap args: invalid hex: %w", err)
	}
	return DecodeSwapArgs(b)
}

type writer struct {
	buf []byte
}

func newWriter(capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity)}
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) bytes32(v [32]byte) {
	w.buf = append(w.buf, v[:]...)
}

// reader consumes the buffer field by field, remembering the first error
// so decode call sites stay flat.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) take(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("field %s at offset %d: %w", field, r.pos, ErrShortBuffer)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u32(field string) uint32 {
	b := r.take(4, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64(field string) uint64 {
	b := r.take(8, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) bytes32(field string) [32]byte {
	var out [32]byte
	b := r.take(32, field)
	if b != nil {
		copy(out[:], b)
	}
	return out
}

func (r *reader) finish(what string) error {
	if r.err != nil {
		return fmt.Errorf("decode %s: %w", what, r.err)
	}
	if r.pos != len(r.buf) {
		return fmt.Errorf("decode %s: %d bytes: %w", what, len(r.buf)-r.pos, ErrTrailingBytes)
	}
	return nil
}
