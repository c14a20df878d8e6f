// Package cache holds the generated reports of one session so they can be
// re-displayed and re-downloaded without re-running the pipeline. A new run
// for the same session overwrites the stored value whole; there is no
// incremental merge between runs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salesops/asinsight/internal/config"
	"github.com/salesops/asinsight/internal/domain"
)

const reportKeyPrefix = "reports:session"

type ReportCache interface {
	Get(ctx context.Context, sessionID string) (*domain.StoredReports, bool, error)
	Set(ctx context.Context, reports *domain.StoredReports) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// memoryReportCache backs sessions when redis is disabled. Re-download of the
// latest run still has to work, so the fallback is an in-process map rather
// than a no-op.
type memoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.StoredReports
}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return NewMemoryReportCache(), nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewMemoryReportCache() ReportCache {
	return &memoryReportCache{entries: make(map[string]*domain.StoredReports)}
}

func (c *redisReportCache) Get(ctx context.Context, sessionID string) (*domain.StoredReports, bool, error) {
	payload, err := c.client.Get(ctx, reportKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var reports domain.StoredReports
	if err := json.Unmarshal(payload, &reports); err != nil {
		return nil, false, fmt.Errorf("decode stored reports: %w", err)
	}

	return &reports, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, reports *domain.StoredReports) error {
	payload, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode stored reports: %w", err)
	}

	if err := c.client.Set(ctx, reportKey(reports.SessionID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *memoryReportCache) Get(ctx context.Context, sessionID string) (*domain.StoredReports, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reports, ok := c.entries[sessionID]
	return reports, ok, nil
}

func (c *memoryReportCache) Set(ctx context.Context, reports *domain.StoredReports) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[reports.SessionID] = reports
	return nil
}

func reportKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", reportKeyPrefix, sessionID)
}
