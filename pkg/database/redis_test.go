package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_ConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})

	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Set(context.Background(), "cart:smoke", "[]", 0).Err())
}

func TestNewRedisClient_UnreachableAddr(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr})

	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis at "+addr)
}
