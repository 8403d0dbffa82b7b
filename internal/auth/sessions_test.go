package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaires/backend/internal/models"
)

func newSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newSessionStore(t)
	sess := models.Session{ID: "sid-1", UserID: 3, Username: "awa", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("session:sid-1"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("session:sid-1").Seconds(), 5)

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, "awa", got.Username)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, "sid-1"))
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newSessionStore(t)

	err := store.Save(ctx, models.Session{ID: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)})
	assert.Error(t, err)

	require.NoError(t, store.Save(ctx, models.Session{ID: "s", UserID: 1, ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "s")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteForUser(t *testing.T) {
	ctx := context.Background()
	store, mr := newSessionStore(t)
	exp := time.Now().Add(time.Hour)
	for _, s := range []models.Session{
		{ID: "a", UserID: 1, ExpiresAt: exp},
		{ID: "b", UserID: 2, ExpiresAt: exp},
		{ID: "c", UserID: 2, ExpiresAt: exp},
	} {
		require.NoError(t, store.Save(ctx, s))
	}

	require.NoError(t, store.DeleteForUser(ctx, 2))

	assert.True(t, mr.Exists("session:a"))
	assert.False(t, mr.Exists("session:b"))
	assert.False(t, mr.Exists("session:c"))
}
