// internal/cache/pivot.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldsight/survey-api/internal/config"
	"github.com/fieldsight/survey-api/internal/domain"
)

const (
	pivotKeyPrefix  = "survey:pivot"
	defaultPivotTTL = time.Minute
)

// PivotResultCache caches pivot query results per filter combination. The
// report export path bypasses it so reports always reflect live data.
type PivotResultCache interface {
	Get(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, bool, error)
	Set(ctx context.Context, filter domain.QueryFilter, records []domain.SurveyRecord) error
}

type redisPivotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPivotCache struct{}

func NewPivotCache(cfg config.CacheConfig) (PivotResultCache, error) {
	if !cfg.Enabled {
		return &noopPivotCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.PivotTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultPivotTTL
	}

	return &redisPivotCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPivotCache() PivotResultCache {
	return &noopPivotCache{}
}

func (c *redisPivotCache) Get(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, bool, error) {
	key := buildPivotKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.SurveyRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode pivot cache: %w", err)
	}

	return records, true, nil
}

func (c *redisPivotCache) Set(ctx context.Context, filter domain.QueryFilter, records []domain.SurveyRecord) error {
	key := buildPivotKey(filter)
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode pivot cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (n *noopPivotCache) Get(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, bool, error) {
	return nil, false, nil
}

func (n *noopPivotCache) Set(ctx context.Context, filter domain.QueryFilter, records []domain.SurveyRecord) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// buildPivotKey hashes the full filter so each distinct parameter
// combination caches independently.
func buildPivotKey(filter domain.QueryFilter) string {
	parts := []string{
		"outlet=" + filter.OutletName,
		"from=" + filter.FromDate,
		"to=" + filter.ToDate,
		"brand=" + filter.Brand,
		"location=" + filter.Location,
		"state=" + filter.State,
		"defect_type=" + filter.DefectType,
		"batch=" + filter.BatchNumber,
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", pivotKeyPrefix, hex.EncodeToString(hash[:]))
}
