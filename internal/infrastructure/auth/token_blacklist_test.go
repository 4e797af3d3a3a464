package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/agencyos/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_RevokeByJTI(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-logged-out", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-logged-out")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other sessions keep working.
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-still-active")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RevocationExpiresWithToken(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-short-lived", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-short-lived")
	require.NoError(t, err)
	assert.False(t, revoked, "an expired token needs no blacklist entry")
}

func TestInMemoryTokenBlacklist_UserWideInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	oldSession := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-dana", oldSession)
	require.NoError(t, err)
	assert.False(t, invalidated)

	// Password change: every existing session dies at once.
	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-dana", time.Hour))

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-dana", oldSession)
	require.NoError(t, err)
	assert.True(t, invalidated)

	// A token minted after the stamp is the new session and stays valid.
	time.Sleep(2 * time.Millisecond)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-dana", time.Now())
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_InvalidationIsPerUser(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-dana", time.Hour))

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-marco", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, invalidated, "another user's sessions must be untouched")
}
