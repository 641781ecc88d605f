package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"chronicle/internal/article/loader"
	"chronicle/internal/article/metrics"
	artmodels "chronicle/internal/article/models"
)

const cacheKeyPrefix = "chronicle:article:"

// cacheEntry wraps an article with its content fingerprint so a corrupted or
// partially written value is detectable on read.
type cacheEntry struct {
	Article     artmodels.Article `json:"article"`
	Fingerprint string            `json:"fingerprint"`
}

// RedisCache is a read-through cache in front of another fetcher. Cache
// failures degrade to the inner fetcher; they never fail a batch.
type RedisCache struct {
	client  *redis.Client
	inner   loader.Fetcher
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRedisCache wraps inner with a redis read-through cache.
func NewRedisCache(client *redis.Client, inner loader.Fetcher, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *RedisCache {
	return &RedisCache{client: client, inner: inner, ttl: ttl, logger: logger, metrics: m}
}

func (c *RedisCache) FetchByIDs(ctx context.Context, ids []string) ([]artmodels.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKeyPrefix + id
	}

	var (
		out     []artmodels.Article
		missing []string
	)
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "article cache read failed, falling through", "error", err)
		missing = ids
	} else {
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				missing = append(missing, ids[i])
				continue
			}
			var entry cacheEntry
			if json.Unmarshal([]byte(raw), &entry) != nil || entry.Article.Fingerprint() != entry.Fingerprint {
				missing = append(missing, ids[i])
				continue
			}
			out = append(out, entry.Article)
		}
	}

	if c.metrics != nil {
		c.metrics.CacheHits.Add(float64(len(out)))
		c.metrics.CacheMisses.Add(float64(len(missing)))
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.inner.FetchByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, fetched)
	return append(out, fetched...), nil
}

func (c *RedisCache) fill(ctx context.Context, articles []artmodels.Article) {
	if len(articles) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, a := range articles {
		raw, err := json.Marshal(cacheEntry{Article: a, Fingerprint: a.Fingerprint()})
		if err != nil {
			continue
		}
		pipe.Set(ctx, cacheKeyPrefix+a.ID, raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.WarnContext(ctx, "article cache fill failed", "error", err)
	}
}
