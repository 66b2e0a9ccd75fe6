package events

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nbd-wtf/go-nostr"
)

// Parse errors. A nil event with a nil error means "not this kind",
// routine noise from a public relay, not a failure.
var (
	// ErrBadSignature is returned when the event id or signature does not
	// check out; the event may have been tampered with in transit.
	ErrBadSignature = errors.New("event signature verification failed")

	// ErrMissingTag is returned when a required tag is absent or empty.
	ErrMissingTag = errors.New("missing required tag")
)

// firstTagValue returns the first value of the named tag, or "" when the
// tag is absent or has no value.
func firstTagValue(ev *nostr.Event, name string) string {
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}

func requireTagValue(ev *nostr.Event, name string) (string, error) {
	v := firstTagValue(ev, name)
	if v == "" {
		return "", fmt.Errorf("event %s tag %q: %w", ev.ID, name, ErrMissingTag)
	}
	return v, nil
}

func parseExpiryTag(ev *nostr.Event) (uint64, error) {
	v, err := requireTagValue(ev, TagExpiry)
	if err != nil {
		return 0, err
	}
	expiry, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("event %s: bad expiry tag %q: %w", ev.ID, v, err)
	}
	return expiry, nil
}

func formatExpiry(expiry uint64) string {
	return strconv.FormatUint(expiry, 10)
}

// verifySignature runs the relay-event signature check shared by every
// parse path.
func verifySignature(ev *nostr.Event) error {
	ok, err := ev.CheckSignature()
	if err != nil {
		return fmt.Errorf("event %s: %w: %w", ev.ID, ErrBadSignature, err)
	}
	if !ok {
		return fmt.Errorf("event %s: %w", ev.ID, ErrBadSignature)
	}
	return nil
}

func isHex64(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
