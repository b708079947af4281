package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.local")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "cache.local:6379", cfg.Addr())
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "x")

	cfg := LoadConfig()

	assert.False(t, cfg.Enabled())
	assert.Equal(t, 0, cfg.DB)
}

func TestNewRedisClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(context.Background(), Config{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := Config{Host: mr.Host(), Port: mr.Port()}
	mr.Close()

	rdb, err := NewRedisClient(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
