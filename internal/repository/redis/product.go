package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/repository/cache"
)

const (
	KeyProductPage       = "product:list:%s:%x"
	KeyViewerProductKeys = "product:list:%s:keys"

	// 物理过期时间为逻辑过期时间的倍数, 过期后的数据还能在重建期间返回
	hardTTLFactor = 4
)

type productCache struct {
	client *redis.Client
	now    func() time.Time
}

var _ domain.ProductCache = (*productCache)(nil)

func NewProductCache(client *redis.Client) *productCache {
	return &productCache{
		client: client,
		now:    time.Now,
	}
}

func pageKey(viewer string, q domain.ProductQuery) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%s|%s|%s", q.Page, q.Size, q.Keyword, q.Category, q.Sort)
	return fmt.Sprintf(KeyProductPage, viewer, h.Sum64())
}

func (c *productCache) GetPage(ctx context.Context, viewer string, q domain.ProductQuery) (domain.CachedPage, error) {
	data, err := c.client.Get(ctx, pageKey(viewer, q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CachedPage{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.CachedPage{}, err
	}

	var entry cache.DataWithLogicalExpire[domain.ProductPage]
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CachedPage{}, err
	}
	return domain.CachedPage{
		Page:       entry.Data,
		Generation: entry.Version,
		Expired:    entry.IsLogicalExpired(),
	}, nil
}

func (c *productCache) SetPage(ctx context.Context, viewer string, q domain.ProductQuery, page domain.ProductPage, generation uint64, ttl time.Duration) error {
	entry := cache.NewDataWithLogicalExpire(page, c.now(), ttl)
	entry.Version = generation
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := pageKey(viewer, q)
	keysKey := fmt.Sprintf(KeyViewerProductKeys, viewer)
	hardTTL := ttl * hardTTLFactor
	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, hardTTL)
		pipe.SAdd(ctx, keysKey, key)
		pipe.Expire(ctx, keysKey, hardTTL)
		return nil
	})
	return err
}

func (c *productCache) InvalidateViewer(ctx context.Context, viewer string) error {
	keysKey := fmt.Sprintf(KeyViewerProductKeys, viewer)
	keys, err := c.client.SMembers(ctx, keysKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return c.client.Del(ctx, append(keys, keysKey)...).Err()
}
