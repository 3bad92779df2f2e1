package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/aura/pkg/adapters/redis"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Source) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return mr, redis.NewFromClient(client, opts...)
}

func TestSource_Contract(t *testing.T) {
	_, src := setup(t)
	ctx := context.Background()

	fixtures := map[string]string{
		"system":   "You are Aura.",
		"greeting": "Greet the user.",
	}
	for id, text := range fixtures {
		require.NoError(t, src.Save(ctx, id, text))
	}

	ports.RunTemplateSourceContract(t, src, fixtures)
}

func TestSource_Prefix(t *testing.T) {
	mr, src := setup(t, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, src.Save(ctx, "system", "hello"))
	assert.True(t, mr.Exists("custom:system"))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"system"))

	require.NoError(t, src.Delete(ctx, "system"))
	_, err := src.Template(ctx, "system")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestSource_TTL(t *testing.T) {
	mr, src := setup(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, src.Save(ctx, "system", "hello"))
	mr.FastForward(2 * time.Minute)

	_, err := src.Template(ctx, "system")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestSource_ConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	src := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	_, err = src.Template(context.Background(), "system")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTemplateNotFound)
}
