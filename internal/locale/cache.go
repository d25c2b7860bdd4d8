package locale

import (
	"context"
	"encoding/hex"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
	"go.uber.org/zap"

	"github.com/d60-Lab/anontalk/pkg/logger"
)

// CachedDetector 以文本摘要为 key 把检测结果缓存到 Redis；缓存出错时直接回落到下游检测
type CachedDetector struct {
	next  Detector
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedDetector client 为 nil 时原样返回 next
func NewCachedDetector(next Detector, cache *redis.Client, ttl time.Duration) Detector {
	if cache == nil {
		return next
	}
	return &CachedDetector{next: next, cache: cache, ttl: ttl}
}

func (d *CachedDetector) Detect(ctx context.Context, text string) (string, error) {
	key := cacheKey(text)
	if tag, err := d.cache.Get(ctx, key).Result(); err == nil {
		d.hits.Add(1)
		return tag, nil
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("detect cache read failed", zap.Error(err))
	}

	d.misses.Add(1)
	tag, err := d.next.Detect(ctx, text)
	if err != nil {
		return "", err
	}
	if err := d.cache.Set(ctx, key, tag, d.ttl).Err(); err != nil {
		logger.Warn("detect cache write failed", zap.Error(err))
	}
	return tag, nil
}

// Counters 命中/未命中计数
func (d *CachedDetector) Counters() DetectCounters {
	return DetectCounters{Hits: d.hits.Load(), Misses: d.misses.Load()}
}

type DetectCounters struct {
	Hits   int64
	Misses int64
}

func cacheKey(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return "locale:detect:" + hex.EncodeToString(sum[:])
}
