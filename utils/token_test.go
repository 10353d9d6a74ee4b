package utils

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "RestaurantAPI", "RestaurantApp", time.Hour, nil)
}

func TestGenerateAndParseToken(t *testing.T) {
	ti := newTestIssuer()
	token, err := ti.Generate(42, "chef@example.com", "Cook")
	require.NoError(t, err)

	claims, err := ti.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", claims.Email)
	assert.Equal(t, "Cook", claims.Role)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	ti := newTestIssuer()
	ctx := context.Background()

	other := NewTokenIssuer("other-secret", "RestaurantAPI", "RestaurantApp", time.Hour, nil)
	token, err := other.Generate(1, "a@example.com", "Client")
	require.NoError(t, err)
	_, err = ti.Parse(ctx, token)
	assert.True(t, IsKind(err, KindUnauthorized))

	wrongAudience := NewTokenIssuer("test-secret", "RestaurantAPI", "SomeoneElse", time.Hour, nil)
	token, err = wrongAudience.Generate(1, "a@example.com", "Client")
	require.NoError(t, err)
	_, err = ti.Parse(ctx, token)
	assert.True(t, IsKind(err, KindUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ti.Parse(ctx, unsigned)
	assert.True(t, IsKind(err, KindUnauthorized))

	_, err = ti.Parse(ctx, "garbage")
	assert.True(t, IsKind(err, KindUnauthorized))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ti := newTestIssuer()
	issued := time.Now().Add(-2 * time.Hour)
	ti.now = func() time.Time { return issued }
	token, err := ti.Generate(1, "a@example.com", "Client")
	require.NoError(t, err)

	ti.now = time.Now
	_, err = ti.Parse(context.Background(), token)
	assert.True(t, IsKind(err, KindUnauthorized))
}

func TestRevokedTokenIsRejected(t *testing.T) {
	ti := newTestIssuer()
	ctx := context.Background()
	token, err := ti.Generate(1, "a@example.com", "Client")
	require.NoError(t, err)
	claims, err := ti.Parse(ctx, token)
	require.NoError(t, err)

	require.NoError(t, ti.Revoke(ctx, claims))
	_, err = ti.Parse(ctx, token)
	assert.True(t, IsKind(err, KindUnauthorized))

	fresh, err := ti.Generate(1, "a@example.com", "Client")
	require.NoError(t, err)
	_, err = ti.Parse(ctx, fresh)
	assert.NoError(t, err)
}

func TestMemoryRevocationExpires(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "old", now.Add(time.Minute)))
	revoked, err := store.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "new", now.Add(time.Minute)))
	store.mu.RLock()
	_, kept := store.revoked["old"]
	store.mu.RUnlock()
	assert.False(t, kept, "expired entries are pruned")
}
