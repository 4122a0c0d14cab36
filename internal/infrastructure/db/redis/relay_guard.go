package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 24 * time.Hour

// RelayGuard records which fingerprints have already been handed to the
// relay so the ledger call runs at most once per agreement even when
// countersign requests race. Key format: anchor:<fingerprint>
type RelayGuard struct {
	client *redis.Client
}

// NewRelayGuard creates a RelayGuard wrapping the given Redis client.
func NewRelayGuard(client *redis.Client) *RelayGuard {
	return &RelayGuard{client: client}
}

// TryAcquire claims the fingerprint for this caller. Returns true for the
// first claim; false when the fingerprint was already submitted.
func (g *RelayGuard) TryAcquire(ctx context.Context, fingerprint string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(fingerprint), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("relay guard: %w", err)
	}
	return ok, nil
}

func (g *RelayGuard) key(fingerprint string) string {
	return "anchor:" + fingerprint
}
