// Package taproot derives the on-chain commitment (taproot output key)
// from a committed contract-argument set, exactly as the settlement
// contract builder does, and verifies it against the commitment carried
// by an event. The check is pure; every reader re-runs it independently.
package taproot

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"

	"utxo-dex-relay/internal/codec"
	"utxo-dex-relay/internal/domain"
)

// ErrMismatch is returned when the commitment carried by an event does
// not equal the key derivable from its embedded arguments. It marks a
// potentially adversarial advertisement, not ordinary parse noise.
var ErrMismatch = errors.New("taproot verification failed")

// Params selects the network the commitment is derived for. Deriving the
// same arguments on a different network yields a different key, so an
// advertisement cannot be replayed across networks.
type Params struct {
	Name       string
	networkTag byte
}

var (
	Mainnet = Params{Name: "mainnet", networkTag: 0x01}
	Testnet = Params{Name: "testnet", networkTag: 0x02}
)

// Leaf script contract-type prefixes. Wire constants, never reordered.
const (
	leafOrder   byte = 0x01
	leafOptions byte = 0x02
	leafSwap    byte = 0x03
)

// numsKeyHex is the BIP341 "nothing up my sleeve" internal key; no party
// holds its discrete log, so the script path is the only spend path.
const numsKeyHex = "50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac0"

// DeriveOrder computes the commitment for spot order arguments.
func DeriveOrder(args domain.OrderArgs, params Params) string {
	return derive(leafOrder, codec.EncodeOrderArgs(args), params)
}

// DeriveOptions computes the commitment for options arguments.
func DeriveOptions(args domain.OptionsArgs, params Params) string {
	return derive(leafOptions, codec.EncodeOptionsArgs(args), params)
}

// DeriveSwap computes the commitment for swap arguments.
func DeriveSwap(args domain.SwapArgs, params Params) string {
	return derive(leafSwap, codec.EncodeSwapArgs(args), params)
}

// VerifyOrder checks a claimed commitment byte-for-byte against the key
// derivable from the arguments.
func VerifyOrder(args domain.OrderArgs, params Params, commitment string) error {
	return verify(DeriveOrder(args, params), commitment)
}

// VerifyOptions checks a claimed options commitment.
func VerifyOptions(args domain.OptionsArgs, params Params, commitment string) error {
	return verify(DeriveOptions(args, params), commitment)
}

// VerifySwap checks a claimed swap commitment.
func VerifySwap(args domain.SwapArgs, params Params, commitment string) error {
	return verify(DeriveSwap(args, params), commitment)
}

func verify(derived, claimed string) error {
	if derived != claimed {
		return fmt.Errorf("derived %s, event carries %s: %w", derived, claimed, ErrMismatch)
	}
	return nil
}

func derive(contractType byte, encodedArgs []byte, params Params) string {
	script := make([]byte, 0, 2+len(encodedArgs))
	script = append(script, params.networkTag, contractType)
	script = append(script, encodedArgs...)

	leaf := txscript.NewBaseTapLeaf(script)
	root := leaf.TapHash()

	outputKey := txscript.ComputeTaprootOutputKey(numsKey, root[:])
	return hex.EncodeToString(schnorr.SerializePubKey(outputKey))
}

var numsKey = mustParseXOnly(numsKeyHex)

func mustParseXOnly(s string) *btcec.PublicKey {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	key, err := schnorr.ParsePubKey(b)
	if err != nil {
		panic(err)
	}
	return key
}
