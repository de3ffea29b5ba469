package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartdeck/internal/cache"
	"chartdeck/internal/logging"
)

func newRevocationList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationList(cache.New(client, logging.Discard())), mr
}

func TestRevocationList(t *testing.T) {
	list, mr := newRevocationList(t)
	ctx := context.Background()
	identity := &Identity{ID: 3, TokenID: "tok-1", ExpiresAt: time.Now().Add(time.Minute)}

	assert.False(t, list.IsRevoked(ctx, "tok-1"))
	list.Revoke(ctx, identity)
	assert.True(t, list.IsRevoked(ctx, "tok-1"))
	assert.False(t, list.IsRevoked(ctx, "tok-2"))

	// the entry lives no longer than the token
	mr.FastForward(2 * time.Minute)
	assert.False(t, list.IsRevoked(ctx, "tok-1"))
}

func TestRevocationList_IgnoresExpiredAndAnonymousTokens(t *testing.T) {
	list, mr := newRevocationList(t)
	ctx := context.Background()

	list.Revoke(ctx, &Identity{ID: 3, TokenID: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	list.Revoke(ctx, &Identity{ID: 3, ExpiresAt: time.Now().Add(time.Minute)})
	list.Revoke(ctx, nil)

	assert.Empty(t, mr.Keys())
	assert.False(t, list.IsRevoked(ctx, ""))
}

func TestRevocationList_NilIsNoop(t *testing.T) {
	var list *RevocationList
	list.Revoke(context.Background(), &Identity{TokenID: "x", ExpiresAt: time.Now().Add(time.Minute)})
	assert.False(t, list.IsRevoked(context.Background(), "x"))
}

func TestBearerMiddleware_RefusesRevokedToken(t *testing.T) {
	svc := newTestJWTService(t)
	list, _ := newRevocationList(t)
	e := newProtectedServer(t, svc, list)

	token, err := svc.IssueToken(9, 0)
	require.NoError(t, err)
	identity, err := svc.VerifyToken(token)
	require.NoError(t, err)

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call())
	list.Revoke(context.Background(), identity)
	assert.Equal(t, http.StatusUnauthorized, call())
}
