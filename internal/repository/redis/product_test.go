package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/repository/cache"
)

var (
	testQuery = domain.ProductQuery{Page: 0, Size: 20, Keyword: "bike"}
	testPage  = domain.ProductPage{
		Content: []domain.Product{
			{ID: "5", Title: "road bike", IsLiked: true, LikeCount: 3},
		},
		Page: 0, Size: 20, TotalElements: 1, TotalPages: 1,
	}
)

func TestProductCache_GetPage(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewProductCache(client)
	key := pageKey("sess-1", testQuery)

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet(key).RedisNil()

		_, err := c.GetPage(context.TODO(), "sess-1", testQuery)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("fresh hit", func(t *testing.T) {
		entry := cache.NewDataWithLogicalExpire(testPage, time.Now(), time.Minute)
		entry.Version = 3
		data, err := json.Marshal(entry)
		require.NoError(t, err)
		mock.ExpectGet(key).SetVal(string(data))

		got, err := c.GetPage(context.TODO(), "sess-1", testQuery)
		require.NoError(t, err)
		assert.False(t, got.Expired)
		assert.Equal(t, uint64(3), got.Generation)
		assert.Equal(t, testPage.Content[0].ID, got.Page.Content[0].ID)
		assert.True(t, got.Page.Content[0].IsLiked)
	})

	t.Run("expired hit", func(t *testing.T) {
		data, err := json.Marshal(cache.NewDataWithLogicalExpire(testPage, time.Now().Add(-time.Hour), time.Minute))
		require.NoError(t, err)
		mock.ExpectGet(key).SetVal(string(data))

		got, err := c.GetPage(context.TODO(), "sess-1", testQuery)
		require.NoError(t, err)
		assert.True(t, got.Expired)
		assert.Zero(t, got.Generation)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(errors.New("connection reset"))

		_, err := c.GetPage(context.TODO(), "sess-1", testQuery)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCache_SetPage(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewProductCache(client)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	entry := cache.NewDataWithLogicalExpire(testPage, now, time.Minute)
	entry.Version = 2
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	key := pageKey("sess-1", testQuery)
	keysKey := fmt.Sprintf(KeyViewerProductKeys, "sess-1")
	mock.ExpectSet(key, data, 4*time.Minute).SetVal("OK")
	mock.ExpectSAdd(keysKey, key).SetVal(1)
	mock.ExpectExpire(keysKey, 4*time.Minute).SetVal(true)

	err = c.SetPage(context.TODO(), "sess-1", testQuery, testPage, 2, time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCache_InvalidateViewer(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewProductCache(client)
	keysKey := fmt.Sprintf(KeyViewerProductKeys, "sess-1")
	k1 := pageKey("sess-1", testQuery)
	k2 := pageKey("sess-1", domain.ProductQuery{Page: 1, Size: 20})

	mock.ExpectSMembers(keysKey).SetVal([]string{k1, k2})
	mock.ExpectDel(k1, k2, keysKey).SetVal(3)

	require.NoError(t, c.InvalidateViewer(context.TODO(), "sess-1"))

	mock.ExpectSMembers(keysKey).SetVal([]string{})
	mock.ExpectDel(keysKey).SetVal(0)

	require.NoError(t, c.InvalidateViewer(context.TODO(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageKey(t *testing.T) {
	a := pageKey("sess-1", testQuery)
	assert.Equal(t, a, pageKey("sess-1", testQuery))
	assert.NotEqual(t, a, pageKey("sess-2", testQuery))
	assert.NotEqual(t, a, pageKey("sess-1", domain.ProductQuery{Page: 1, Size: 20, Keyword: "bike"}))
}
