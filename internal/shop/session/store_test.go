package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, 7*24*time.Hour), mr
}

func TestSessionPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	t.Run("get on empty store is a miss, not an error", func(t *testing.T) {
		tok, err := store.Get(ctx, "user-1")
		require.NoError(t, err)
		require.Empty(t, tok)
	})

	t.Run("put then get round trips", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "user-1", "refresh-jwt-1"))

		tok, err := store.Get(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, "refresh-jwt-1", tok)
	})

	t.Run("record carries the refresh TTL", func(t *testing.T) {
		require.Equal(t, 7*24*time.Hour, mr.TTL("refresh_token:user-1"))
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "user-1"))

		tok, err := store.Get(ctx, "user-1")
		require.NoError(t, err)
		require.Empty(t, tok)
	})

	t.Run("delete on absent record is fine", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "user-never-existed"))
	})
}

func TestSessionPutOverwritesPreviousRecord(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Put(ctx, "user-1", "refresh-jwt-old"))
	require.NoError(t, store.Put(ctx, "user-1", "refresh-jwt-new"))

	tok, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "refresh-jwt-new", tok, "a new login supersedes the previous session")
}

func TestSessionRecordExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, store.Put(ctx, "user-1", "refresh-jwt-1"))

	mr.FastForward(7*24*time.Hour + time.Second)

	tok, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, tok, "expired record reads as a miss")
}

func TestSessionKeysAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Put(ctx, "user-1", "token-1"))
	require.NoError(t, store.Put(ctx, "user-2", "token-2"))

	tok, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "token-1", tok)

	require.NoError(t, store.Delete(ctx, "user-1"))

	tok, err = store.Get(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, "token-2", tok, "deleting one user's session leaves others alone")
}
