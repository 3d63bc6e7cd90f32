package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trendops/whatif/internal/simulation"
)

// ConnectRedis initializes a Redis client from URL or host:port input.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// CachedTrendEngine decorates a TrendLifecycleEngine with a Redis
// read-through cache. Cache failures are logged and ignored; the inner
// client is the source of truth. Only positive answers are cached, so a
// trend that gains data upstream is picked up on the next query.
type CachedTrendEngine struct {
	inner  simulation.TrendLifecycleEngine
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedTrendEngine(inner simulation.TrendLifecycleEngine, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedTrendEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTrendEngine{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedTrendEngine) QueryTrendMetrics(ctx context.Context, trendID string) (*simulation.TrendMetrics, error) {
	key := "whatif:trend:" + trendID
	if blob, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var m simulation.TrendMetrics
		if err := json.Unmarshal(blob, &m); err == nil {
			return &m, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Debug("trend cache read failed", zap.String("trend_id", trendID), zap.Error(err))
	}

	m, err := c.inner.QueryTrendMetrics(ctx, trendID)
	if err != nil || m == nil {
		return m, err
	}
	if blob, err := json.Marshal(m); err == nil {
		if err := c.rdb.Set(ctx, key, blob, c.ttl).Err(); err != nil {
			c.logger.Debug("trend cache write failed", zap.String("trend_id", trendID), zap.Error(err))
		}
	}
	return m, nil
}

// CachedDeclineDetector is the same read-through decoration for the
// early-decline detector. Risk moves faster than lifecycle metrics, so
// callers typically hand it a shorter TTL.
type CachedDeclineDetector struct {
	inner  simulation.EarlyDeclineDetector
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedDeclineDetector(inner simulation.EarlyDeclineDetector, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedDeclineDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDeclineDetector{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedDeclineDetector) QueryRiskMetrics(ctx context.Context, trendID string) (*simulation.RiskMetrics, error) {
	key := "whatif:risk:" + trendID
	if blob, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var m simulation.RiskMetrics
		if err := json.Unmarshal(blob, &m); err == nil {
			return &m, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Debug("risk cache read failed", zap.String("trend_id", trendID), zap.Error(err))
	}

	m, err := c.inner.QueryRiskMetrics(ctx, trendID)
	if err != nil || m == nil {
		return m, err
	}
	if blob, err := json.Marshal(m); err == nil {
		if err := c.rdb.Set(ctx, key, blob, c.ttl).Err(); err != nil {
			c.logger.Debug("risk cache write failed", zap.String("trend_id", trendID), zap.Error(err))
		}
	}
	return m, nil
}
