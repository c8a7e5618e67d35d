package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:session:"

// Revocations is a Redis-backed list of revoked session token ids. A nil
// client turns every operation into a no-op, which leaves the gate fully
// stateless.
type Revocations struct {
	client *redis.Client
}

// NewRevocations configures the Redis client used for revocation checks.
// Safe to call with nil to disable revocation.
func NewRevocations(c *redis.Client) *Revocations {
	return &Revocations{client: c}
}

// Enabled reports whether revocations are persisted anywhere.
func (r *Revocations) Enabled() bool {
	return r != nil && r.client != nil
}

// Revoke records jti until ttl elapses. Non-positive ttl means the token has
// already expired and nothing needs to be stored.
func (r *Revocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if !r.Enabled() || jti == "" || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsRevoked returns true when jti exists in the revocation list.
// If no Redis client is configured, returns (false, nil).
func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	exists, err := r.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
