package domain

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Txid is a transaction id in internal byte order. String rendering uses
// the conventional reversed-hex display order.
type Txid [32]byte

// TxidFromHex parses a display-order (reversed) hex txid.
func TxidFromHex(s string) (Txid, error) {
	var id Txid
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("txid: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("txid: expected %d bytes, got %d", len(id), len(b))
	}
	for i := range id {
		id[i] = b[len(b)-1-i]
	}
	return id, nil
}

func (t Txid) String() string {
	var rev [32]byte
	for i := range t {
		rev[i] = t[len(t)-1-i]
	}
	return hex.EncodeToString(rev[:])
}

// OutPoint references a specific unspent transaction output.
type OutPoint struct {
	Txid Txid
	Vout uint32
}

// ParseOutPoint parses the "<txid>:<vout>" rendering.
func ParseOutPoint(s string) (OutPoint, error) {
	var op OutPoint
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return op, fmt.Errorf("outpoint %q: missing ':' separator", s)
	}
	txid, err := TxidFromHex(s[:idx])
	if err != nil {
		return op, fmt.Errorf("outpoint %q: %w", s, err)
	}
	vout, err := strconv.ParseUint(s[idx+1:], 10, 32)
	if err != nil {
		return op, fmt.Errorf("outpoint %q: bad vout: %w", s, err)
	}
	op.Txid = txid
	op.Vout = uint32(vout)
	return op, nil
}

func (op OutPoint) String() string {
	return op.Txid.String() + ":" + strconv.FormatUint(uint64(op.Vout), 10)
}
