package relay

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config describes the relays a client may use. Relays are tried in
// order; the first that accepts a connection wins.
type Config struct {
	// Relays holds relay websocket URLs in preference order.
	Relays []string

	// Timeout bounds how long a request waits for stored events before
	// returning the partial result.
	Timeout time.Duration

	// RetryCount is how many times the full relay list is retried
	// before Dial gives up.
	RetryCount int

	// WS overrides the websocket transport configuration.
	WS *WSConfig
}

// DefaultConfig returns a config with sane timeouts and no relays.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		RetryCount: 2,
	}
}

// WithRelay returns a copy of the config with url appended to the
// relay list.
func (c Config) WithRelay(url string) Config {
	relays := make([]string, 0, len(c.Relays)+1)
	relays = append(relays, c.Relays...)
	relays = append(relays, url)
	c.Relays = relays
	return c
}

// WithTimeout returns a copy of the config with the request timeout set.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}

// Dial connects to the first reachable relay in the config, retrying
// the whole list RetryCount additional times.
func Dial(ctx context.Context, cfg Config) (Transport, error) {
	if len(cfg.Relays) == 0 {
		return nil, errors.New("no relays configured")
	}

	attempts := cfg.RetryCount + 1
	var lastErr error

	for i := 0; i < attempts; i++ {
		for _, url := range cfg.Relays {
			transport, err := NewWSTransport(ctx, url, cfg.WS)
			if err == nil {
				return transport, nil
			}
			lastErr = err

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}

	return nil, fmt.Errorf("all relays unreachable: %w", lastErr)
}
