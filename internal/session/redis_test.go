package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkpickup_app/internal/navigation"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr, client
}

func selectVendor(s navigation.State) navigation.State {
	return navigation.Reduce(s, navigation.SelectRole(navigation.RoleVendor))
}

func TestRedisStoreUpdatePersistsWithTTL(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newRedisStore(t, 30*time.Minute)

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), state)

	next, err := store.Update(ctx, "s1", selectVendor)
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenVendorDashboard, navigation.Resolve(next))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, next, loaded)
	assert.Equal(t, 30*time.Minute, mr.TTL(store.key("s1")))

	mr.FastForward(31 * time.Minute)
	expired, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), expired)
}

func TestRedisStoreCorruptPayloadIsInitial(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newRedisStore(t, time.Hour)

	require.NoError(t, mr.Set(store.key("s1"), "{not json"))
	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), state)

	require.NoError(t, mr.Set(store.key("s2"), `{"currentView":"elsewhere","userType":"admin"}`))
	state, err = store.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), state)
}

func TestRedisStoreUpdateRetriesAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	store, _, client := newRedisStore(t, time.Hour)

	calls := 0
	next, err := store.Update(ctx, "s1", func(s navigation.State) navigation.State {
		calls++
		if calls == 1 {
			// another request for the same browser lands between read and write
			require.NoError(t, client.Set(ctx, store.key("s1"), `{"currentView":"homepage","userType":"residential"}`, time.Hour).Err())
		}
		return navigation.Reduce(s, navigation.SignIn())
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, navigation.RoleResidential, next.Role, "retry sees the concurrent write")
	assert.Equal(t, navigation.ViewPortal, next.View)
}

func TestRedisStoreUpdateGivesUpWithErrConflict(t *testing.T) {
	ctx := context.Background()
	store, _, client := newRedisStore(t, time.Hour)

	calls := 0
	_, err := store.Update(ctx, "s1", func(s navigation.State) navigation.State {
		calls++
		require.NoError(t, client.Set(ctx, store.key("s1"), `{"currentView":"homepage"}`, time.Hour).Err())
		return selectVendor(s)
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxUpdateAttempts, calls)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewHomepage, stored.View, "no attempt was committed")
	assert.Equal(t, navigation.RoleUnset, stored.Role)
}
