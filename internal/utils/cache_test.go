package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientDisablesCache(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, nil, RosterCacheKey, []string{"alice"}, CacheTTL))
	var got []string
	found, err := GetCache(ctx, nil, RosterCacheKey, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
	assert.NoError(t, DeleteCache(ctx, nil, RosterCacheKey, StatusCountsCacheKey))
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, client)
}
