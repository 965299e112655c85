package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers users whose tokens must no longer be accepted.
// Entries expire after ttl, which should match the token lifetime: by then
// every token issued before the revocation has expired on its own.
// Key format: revoked:user:<user_id>
type RevocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRevocationStore(client *redis.Client, ttl time.Duration) *RevocationStore {
	return &RevocationStore{client: client, ttl: ttl}
}

// RevokeUser marks every outstanding token of userID as revoked.
func (s *RevocationStore) RevokeUser(ctx context.Context, userID string) error {
	if err := s.client.Set(ctx, s.key(userID), time.Now().UTC().Unix(), s.ttl).Err(); err != nil {
		return fmt.Errorf("revoke user: %w", err)
	}
	return nil
}

// IsRevoked reports whether userID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(userID string) string {
	return fmt.Sprintf("revoked:user:%s", userID)
}
