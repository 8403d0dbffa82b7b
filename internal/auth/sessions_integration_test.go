//go:build integration

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/testutil/containers"
)

func TestSessionStoreAgainstRedis(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := NewSessionStore(rc.Client)

	sess := models.Session{ID: "sid-1", UserID: 9, Username: "awa", ExpiresAt: time.Now().Add(2 * time.Second)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "awa", got.Username)

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "sid-1")
		return err == ErrSessionNotFound
	}, 10*time.Second, 200*time.Millisecond)

	require.NoError(t, rc.FlushAll(ctx))
}
