package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, "")
}

func sampleAccount() *authgate.Account {
	return &authgate.Account{
		ExternalID:   "ext-1",
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	}
}

func TestInsertAndFindRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := sampleAccount()
	require.NoError(t, store.Insert(ctx, account))
	assert.Equal(t, int64(1), account.ID)

	byEmail, err := store.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, account, byEmail)

	byExternal, err := store.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, account, byExternal)
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleAccount()
	require.NoError(t, store.Insert(ctx, first))

	second := sampleAccount()
	second.ExternalID = "ext-2"
	second.Email = "bob@example.com"
	require.NoError(t, store.Insert(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestInsertDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleAccount()))

	dup := sampleAccount()
	dup.ExternalID = "ext-2"
	err := store.Insert(ctx, dup)
	assert.ErrorIs(t, err, authgate.ErrStoreConstraintViolation)
}

func TestFindMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)

	_, err = store.FindByExternalID(ctx, "ext-ghost")
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)
}

func TestFindByExternalIDAndToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := sampleAccount()
	account.CurrentToken = "token-abc"
	account.TokenExpiry = 1900000000
	require.NoError(t, store.Insert(ctx, account))

	found, err := store.FindByExternalIDAndToken(ctx, "ext-1", "token-abc")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", found.CurrentToken)
	assert.Equal(t, int64(1900000000), found.TokenExpiry)

	_, err = store.FindByExternalIDAndToken(ctx, "ext-1", "token-other")
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)

	// An account holding no token never matches, not even the empty string.
	account.CurrentToken = ""
	require.NoError(t, store.Update(ctx, account))
	_, err = store.FindByExternalIDAndToken(ctx, "ext-1", "")
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)
}

func TestUpdatePersistsAllFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := sampleAccount()
	require.NoError(t, store.Insert(ctx, account))

	account.IsVerified = true
	account.OTPCode = "123456"
	account.OTPExpiry = 1900000000
	account.CurrentToken = "token-abc"
	account.TokenExpiry = 1900000600
	require.NoError(t, store.Update(ctx, account))

	found, err := store.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, account, found)

	// Clearing fields must round-trip back to zero values.
	account.OTPCode = ""
	account.OTPExpiry = 0
	require.NoError(t, store.Update(ctx, account))

	found, err = store.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Empty(t, found.OTPCode)
	assert.Zero(t, found.OTPExpiry)
}

func TestUpdateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), sampleAccount())
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)
}

func TestDeleteRemovesRecordAndIndexes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := sampleAccount()
	require.NoError(t, store.Insert(ctx, account))
	require.NoError(t, store.Delete(ctx, account.ID))

	_, err := store.FindByExternalID(ctx, "ext-1")
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)

	// The email index is gone too, so the address is reusable.
	fresh := sampleAccount()
	fresh.ExternalID = "ext-2"
	require.NoError(t, store.Insert(ctx, fresh))
}

func TestDeleteMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, authgate.ErrStoreNotFound)
}
