package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowboard/pkg/adapters/redis"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunGraphStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	g := domain.Graph{Nodes: []domain.Node{domain.NewNode("text-1", domain.NodeTypeText, domain.Position{})}}
	require.NoError(t, store.Save(ctx, sessionID, g))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)
	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Index pruning is driven by wall-clock time.
	time.Sleep(1200 * time.Millisecond)
	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-session", domain.Graph{}))

	assert.True(t, mr.Exists("custom:app:my-session"), "snapshot key uses the prefix")
	assert.True(t, mr.Exists("custom:app:index"), "index key uses the prefix")

	raw, err := mr.Get("custom:app:my-session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, raw)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-session"}, list)
}

func TestRedisStore_DefaultPrefixAndPing(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "s1", domain.Graph{}))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"s1"))
	assert.Same(t, client, store.Client())
}

func TestRedisStore_CorruptSnapshot(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"broken", "{not json"))

	_, err := store.Load(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
