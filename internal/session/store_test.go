package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkpickup_app/internal/navigation"
)

func TestMemoryStoreUnknownSessionIsInitial(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	state, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), state)
}

func TestMemoryStoreUpdatePersists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	next, err := store.Update(ctx, "s1", func(s navigation.State) navigation.State {
		return navigation.Reduce(s, navigation.SelectRole(navigation.RoleVendor))
	})
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenVendorDashboard, navigation.Resolve(next))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, next, loaded)

	other, err := store.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), other, "sessions are isolated")
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	_, err := store.Update(ctx, "s1", func(s navigation.State) navigation.State {
		return navigation.Reduce(s, navigation.SignIn())
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, navigation.Initial(), state)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreNormalizesWrites(t *testing.T) {
	store := NewMemoryStore(0)
	next, err := store.Update(context.Background(), "s1", func(navigation.State) navigation.State {
		return navigation.State{View: "bogus", Role: "admin"}
	})
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewHomepage, next.View)
	assert.Equal(t, navigation.RoleUnset, next.Role)
}

func TestMemoryStoreUpdatesAreAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update(ctx, "s1", func(s navigation.State) navigation.State {
				return navigation.Reduce(s, navigation.SetSearchAddress(s.SearchAddress+"x"))
			})
		}()
	}
	wg.Wait()

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, state.SearchAddress, 50)
}

func TestMemoryStoreSweepsAbandonedSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	back := func(s navigation.State) navigation.State { return navigation.Reduce(s, navigation.Back()) }
	for _, id := range []string{"a", "b"} {
		_, err := store.Update(ctx, id, back)
		require.NoError(t, err)
	}

	// a and b are never read again
	now = now.Add(2 * time.Minute)
	_, err := store.Update(ctx, "c", back)
	require.NoError(t, err)
	assert.Len(t, store.entries, 1)
	assert.Contains(t, store.entries, "c")

	now = now.Add(30 * time.Second)
	_, err = store.Update(ctx, "d", back)
	require.NoError(t, err)
	assert.Len(t, store.entries, 2, "live sessions survive until they expire")
}
