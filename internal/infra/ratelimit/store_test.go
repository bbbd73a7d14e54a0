package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_MemoryWhenUnconfigured(t *testing.T) {
	s, err := NewStore(RedisConfig{})
	require.NoError(t, err)
	require.NoError(t, s.Set("k", []byte("v"), time.Minute))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestNewStore_FailsWhenRedisUnreachable(t *testing.T) {
	s, err := NewStore(RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestNewStore_UsesRedisWhenReachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewStore(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("limiter-key", []byte("1"), time.Minute))
	assert.True(t, mr.Exists("limiter-key"))
}
