package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mathlearn-service/internal/models"
)

// PoolCache keeps question pools keyed by (topic, sub_topic) in Redis so
// every quiz round trip does not re-query the catalog. A nil client
// disables caching; all lookups then miss.
type PoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPoolCache(client *redis.Client, ttl time.Duration) *PoolCache {
	return &PoolCache{client: client, ttl: ttl}
}

func poolKey(topic, subTopic string) string {
	return fmt.Sprintf("pool:%s:%s", topic, subTopic)
}

func (c *PoolCache) Get(ctx context.Context, topic, subTopic string) ([]models.Question, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, poolKey(topic, subTopic)).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []models.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		log.Printf("Dropping corrupt pool cache entry for %s/%s: %v", topic, subTopic, err)
		c.Invalidate(ctx, topic, subTopic)
		return nil, false
	}
	return pool, true
}

func (c *PoolCache) Set(ctx context.Context, topic, subTopic string, pool []models.Question) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(pool)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, poolKey(topic, subTopic), data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache pool for %s/%s: %v", topic, subTopic, err)
	}
}

// Invalidate drops the cached pool after the question bank changes.
func (c *PoolCache) Invalidate(ctx context.Context, topic, subTopic string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, poolKey(topic, subTopic)).Err(); err != nil {
		log.Printf("Failed to invalidate pool cache for %s/%s: %v", topic, subTopic, err)
	}
}
