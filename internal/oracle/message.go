// Package oracle builds the settlement-oracle message digest. The oracle
// schnorr-signs this digest over (settlement height, price) and the
// settlement contract checks that signature on-chain, so the digest
// layout is wire format and must stay stable.
package oracle

import (
	"crypto/sha256"
	"encoding/binary"
)

// domainPrefix separates oracle digests from any other sha256 use.
const domainPrefix = "utxo-dex/oracle/v1"

// Message computes the 32-byte digest the settlement oracle signs:
// SHA256(prefix || height_le || price_le).
func Message(settlementHeight uint32, price uint64) [32]byte {
	buf := make([]byte, 0, len(domainPrefix)+4+8)
	buf = append(buf, domainPrefix...)
	buf = binary.LittleEndian.AppendUint32(buf, settlementHeight)
	buf = binary.LittleEndian.AppendUint64(buf, price)
	return sha256.Sum256(buf)
}
