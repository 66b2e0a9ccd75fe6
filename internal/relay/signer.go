package relay

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"
)

// Signer produces signatures for outgoing events. It exists as an
// interface so key material can live outside the process.
type Signer interface {
	// PublicKey returns the hex-encoded x-only public key events will
	// be attributed to.
	PublicKey() string

	// SignEvent computes the event id and signature in place.
	SignEvent(ev *nostr.Event) error
}

// LocalSigner signs with an in-process private key.
type LocalSigner struct {
	privateKey string
	publicKey  string
}

// NewLocalSigner creates a signer from a hex-encoded private key.
func NewLocalSigner(privateKeyHex string) (*LocalSigner, error) {
	pub, err := nostr.GetPublicKey(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	return &LocalSigner{privateKey: privateKeyHex, publicKey: pub}, nil
}

// GenerateLocalSigner creates a signer with a fresh random key.
func GenerateLocalSigner() (*LocalSigner, error) {
	return NewLocalSigner(nostr.GeneratePrivateKey())
}

// PublicKey returns the signer's hex-encoded public key.
func (s *LocalSigner) PublicKey() string { return s.publicKey }

// SignEvent computes the event id and signature in place.
func (s *LocalSigner) SignEvent(ev *nostr.Event) error {
	if err := ev.Sign(s.privateKey); err != nil {
		return fmt.Errorf("sign event: %w", err)
	}
	return nil
}

var _ Signer = (*LocalSigner)(nil)
