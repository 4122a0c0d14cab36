package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestGuard(t *testing.T) *RelayGuard {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRelayGuard(client)
}

func TestRelayGuard_FirstClaimWins(t *testing.T) {
	guard := newTestGuard(t)
	ctx := context.Background()

	ok, err := guard.TryAcquire(ctx, "abc123")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !ok {
		t.Fatal("first claim must succeed")
	}

	ok, err = guard.TryAcquire(ctx, "abc123")
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second claim for the same fingerprint must fail")
	}
}

func TestRelayGuard_DistinctFingerprintsIndependent(t *testing.T) {
	guard := newTestGuard(t)
	ctx := context.Background()

	if ok, _ := guard.TryAcquire(ctx, "fp-one"); !ok {
		t.Fatal("fp-one claim must succeed")
	}
	if ok, _ := guard.TryAcquire(ctx, "fp-two"); !ok {
		t.Fatal("fp-two claim must succeed independently")
	}
}
