// Package processor implements the marketplace's protocol handlers on
// top of the relay client: placing and listing orders, the taker reply
// flow, option and swap advertisements, action reports, and the derived
// contract status fold. Write operations fail loudly; read operations
// degrade gracefully by dropping events that fail verification.
package processor

import (
	"errors"
	"log"
	"strconv"
	"time"

	"utxo-dex-relay/internal/observability"
	"utxo-dex-relay/internal/relay"
	"utxo-dex-relay/internal/storage"
	"utxo-dex-relay/internal/storage/memory"
	"utxo-dex-relay/internal/taproot"
)

// Processor executes protocol operations against one relay.
type Processor struct {
	reader    *relay.Client
	publisher *relay.PublishingClient // nil for read-only processors
	params    taproot.Params
	store     storage.OrderParamsStore
	now       func() time.Time
	logger    *log.Logger
}

// Config assembles a Processor. Reader may be omitted when Publisher is
// set; reads then go through the publishing client. Store defaults to
// an in-memory cache and Now to the wall clock.
type Config struct {
	Reader    *relay.Client
	Publisher *relay.PublishingClient
	Network   taproot.Params
	Store     storage.OrderParamsStore
	Now       func() time.Time
	Logger    *log.Logger
}

// New creates a Processor from the config.
func New(cfg Config) *Processor {
	p := &Processor{
		reader:    cfg.Reader,
		publisher: cfg.Publisher,
		params:    cfg.Network,
		store:     cfg.Store,
		now:       cfg.Now,
		logger:    cfg.Logger,
	}
	if p.reader == nil && p.publisher != nil {
		p.reader = p.publisher.Client
	}
	if p.store == nil {
		p.store = memory.NewOrderParamsStore()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

func (p *Processor) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// dropParseFailure records and logs an event that failed verification.
// Taproot mismatches are surfaced distinctly: a validly signed event
// whose commitment does not match its arguments is a deliberate lie,
// not relay noise.
func (p *Processor) dropParseFailure(kind int, eventID string, err error) {
	kindLabel := strconv.Itoa(kind)
	if errors.Is(err, taproot.ErrMismatch) {
		observability.RecordTaprootFailure(kindLabel)
		p.logf("taproot commitment mismatch, dropping event %s: %v", eventID, err)
		return
	}
	observability.RecordParseReject(kindLabel, "invalid")
	p.logf("dropping unparseable kind-%d event %s: %v", kind, eventID, err)
}

// recordParsed counts an event that passed full verification.
func (p *Processor) recordParsed(kind int) {
	observability.RecordEventParsed(strconv.Itoa(kind))
}

// live reports whether an advertisement is still unexpired under the
// reader's clock.
func (p *Processor) live(expiry uint64) bool {
	return expiry > uint64(p.now().Unix())
}
