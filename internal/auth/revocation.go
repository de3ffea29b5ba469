package auth

import (
	"context"
	"time"

	"chartdeck/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// RevocationList remembers access tokens ended by logout until they would
// have expired anyway. It lives in the Redis cache, so when Redis is down
// revoked tokens stay usable until expiry.
type RevocationList struct {
	cache *cache.Client
	now   func() time.Time
}

// NewRevocationList creates a revocation list backed by c.
func NewRevocationList(c *cache.Client) *RevocationList {
	return &RevocationList{cache: c, now: time.Now}
}

// Revoke marks the token of identity as revoked. Tokens without an id or
// already expired are ignored.
func (l *RevocationList) Revoke(ctx context.Context, identity *Identity) {
	if l == nil || identity == nil || identity.TokenID == "" {
		return
	}
	ttl := identity.ExpiresAt.Sub(l.now())
	if ttl <= 0 {
		return
	}
	l.cache.SetJSON(ctx, revokedTokenKeyPrefix+identity.TokenID, identity.ID, ttl)
}

// IsRevoked reports whether the token id was revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) bool {
	if l == nil || tokenID == "" {
		return false
	}
	var id uint
	return l.cache.GetJSON(ctx, revokedTokenKeyPrefix+tokenID, &id)
}
