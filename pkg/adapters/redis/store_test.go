package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return NewFromClient(client, opts...), mr
}

func TestStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunStoreContract(t, store)
}

func TestStore_KeyPrefix(t *testing.T) {
	store, mr := newTestStore(t, WithPrefix("custom:"))
	ctx := context.Background()

	state := domain.NewRunState("onboarding", "intro")
	require.NoError(t, store.Save(ctx, "run-1", state))

	assert.True(t, mr.Exists("custom:run-1"))
	assert.True(t, mr.Exists("custom:index"))
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	state := domain.NewRunState("onboarding", "intro")
	require.NoError(t, store.Save(ctx, "run-1", state))

	// Fast-forward past the TTL; the key and its index entry both vanish.
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	// List also dropped the stale member from the index itself.
	remaining, err := store.client.ZRange(ctx, store.indexKey(), 0, -1).Result()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestStore_ListSkipsExpiredRuns(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", domain.NewRunState("onboarding", "intro")))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "run-2", domain.NewRunState("onboarding", "intro")))

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2"}, runs)
}

func TestStore_RoundTripPreservesResponses(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := domain.NewRunState("onboarding", "intro")
	state.Responses["age"] = domain.NewResponse("age", float64(42), true, nil)

	require.NoError(t, store.Save(ctx, "run-1", state))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "intro", loaded.CurrentNodeID)
	resp, ok := loaded.Response("age")
	require.True(t, ok)
	assert.Equal(t, float64(42), resp.Value)
}
