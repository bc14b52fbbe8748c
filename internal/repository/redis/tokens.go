package redis

import (
	"context"
	"fmt"
	"time"
)

const revokedTokenPrefix = "revoked:"

// TokenStore tracks revoked refresh tokens. A token is revoked on logout and
// stays blocked until it would have expired anyway, so the keys expire on
// their own.
type TokenStore struct {
	client *Client
}

// NewTokenStore creates a new token store
func NewTokenStore(client *Client) *TokenStore {
	return &TokenStore{client: client}
}

// Revoke marks a refresh token ID as revoked until its natural expiry
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to block
		return nil
	}

	key := fmt.Sprintf("%s%s", revokedTokenPrefix, tokenID)
	return s.client.rdb.Set(ctx, key, 1, ttl).Err()
}

// IsRevoked checks whether a refresh token ID has been revoked
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := fmt.Sprintf("%s%s", revokedTokenPrefix, tokenID)

	n, err := s.client.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return n > 0, nil
}
