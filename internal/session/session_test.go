package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, time.Minute), mr
}

func TestCurrentJob_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCurrentJob(ctx, "sess-1", 42))

	id, err := store.CurrentJob(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestCurrentJob_UnknownSessionIsZero(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.CurrentJob(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestCurrentJob_SessionsAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCurrentJob(ctx, "sess-1", 1))
	require.NoError(t, store.SetCurrentJob(ctx, "sess-2", 2))

	id, err := store.CurrentJob(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCurrentJob_ExpiresWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCurrentJob(ctx, "sess-1", 42))
	mr.FastForward(2 * time.Minute)

	id, err := store.CurrentJob(ctx, "sess-1")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestCurrentJob_CorruptValue(t *testing.T) {
	store, mr := newTestStore(t)

	mr.Set("session:current_job:sess-1", "not-a-number")

	_, err := store.CurrentJob(context.Background(), "sess-1")
	assert.Error(t, err)
}
