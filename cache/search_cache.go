package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"video_matcher/logger"
	"video_matcher/metrics"
	"video_matcher/models"
)

// SearchCache 两级搜索结果缓存：L1内存 + L2 Redis（可选）
// L1重启即失效，L2可跨实例共享
type SearchCache struct {
	l1  *LRU[string, []models.VideoHit]
	rdb *redis.Client // Redis不可用时为nil
	ttl time.Duration
}

// NewSearchCache 创建搜索缓存，redisURL为空或连接失败时只使用L1
func NewSearchCache(maxEntries int, ttl time.Duration, redisURL string) *SearchCache {
	c := &SearchCache{
		l1:  NewLRU[string, []models.VideoHit](maxEntries, ttl),
		ttl: ttl,
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Warn("Redis地址无效，L2缓存已禁用", "error", err)
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis无法连接，L2缓存已禁用", "error", err)
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				logger.Info("L2缓存Redis已连接", "addr", opts.Addr)
			}
		}
	}

	logger.Info("搜索缓存初始化完成", "ttl", ttl, "max_entries", maxEntries, "redis", c.rdb != nil)
	return c
}

// Key 由搜索参数生成确定性的缓存键
func Key(query string, safeSearch bool, pageSize int) string {
	joined := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(query)),
		strconv.FormatBool(safeSearch),
		strconv.Itoa(pageSize),
	}, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("vm:search:%x", hash[:12])
}

// Get 先查L1再查L2，L2命中时回填L1
func (c *SearchCache) Get(ctx context.Context, key string) ([]models.VideoHit, bool) {
	if hits, ok := c.l1.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("l1", "hit").Inc()
		return hits, true
	}
	metrics.CacheLookups.WithLabelValues("l1", "miss").Inc()

	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Debug("L2缓存读取失败", "error", err)
		}
		metrics.CacheLookups.WithLabelValues("l2", "miss").Inc()
		return nil, false
	}

	var hits []models.VideoHit
	if err := json.Unmarshal(data, &hits); err != nil {
		metrics.CacheLookups.WithLabelValues("l2", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("l2", "hit").Inc()
	c.l1.Set(key, hits)
	return hits, true
}

// Set 同时写入L1和L2
func (c *SearchCache) Set(ctx context.Context, key string, hits []models.VideoHit) {
	c.l1.Set(key, hits)

	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(hits)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Debug("L2缓存写入失败", "error", err)
	}
}

// Prune 清理L1中的过期条目，L2依赖Redis自身过期
func (c *SearchCache) Prune() int {
	return c.l1.Prune()
}

// Len L1当前条目数
func (c *SearchCache) Len() int {
	return c.l1.Len()
}

func (c *SearchCache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
