package redis_test

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	redisadapter "github.com/omnibuslines/booking/internal/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlob_LoadEmptySlot(t *testing.T) {
	client, mock := redismock.NewClientMock()
	blob := redisadapter.NewBlob(client)

	mock.ExpectGet("omnibus:bookings").RedisNil()

	data, err := blob.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlob_SaveAndLoad(t *testing.T) {
	client, mock := redismock.NewClientMock()
	blob := redisadapter.NewBlob(client)

	payload := []byte(`[{"id":"BK82910"}]`)
	mock.ExpectSet("omnibus:bookings", payload, 0).SetVal("OK")
	mock.ExpectGet("omnibus:bookings").SetVal(string(payload))

	require.NoError(t, blob.Save(context.Background(), payload))

	data, err := blob.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlob_Clear(t *testing.T) {
	client, mock := redismock.NewClientMock()
	blob := redisadapter.NewBlob(client)

	mock.ExpectDel("omnibus:bookings").SetVal(1)

	require.NoError(t, blob.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_InsightRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := redisadapter.NewCache(client)

	mock.ExpectGet("insight:Lyon").RedisNil()
	mock.ExpectSet("insight:Lyon", "Silk, food and light.", 0).SetVal("OK")
	mock.ExpectGet("insight:Lyon").SetVal("Silk, food and light.")

	_, ok, err := cache.GetInsight(context.Background(), "Lyon")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetInsight(context.Background(), "Lyon", "Silk, food and light.", 0))

	text, ok, err := cache.GetInsight(context.Background(), "Lyon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Silk, food and light.", text)
	assert.NoError(t, mock.ExpectationsWereMet())
}
