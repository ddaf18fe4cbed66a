package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/discovery"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"io"
	"time"
)

const timestampsKey = "asaanauth:discoveries_timestamps"

// CachedResult is a discovery result of one device as stored in the cache
type CachedResult struct {
	ID           uuid.UUID       `json:"id" yaml:"id"`
	Serial       string          `json:"serial" yaml:"serial"`
	Source       string          `json:"source" yaml:"source"`
	Summary      profile.Summary `json:"summary" yaml:"summary"`
	Emails       []string        `json:"emails,omitempty" yaml:"emails,omitempty"`
	Names        []string        `json:"names,omitempty" yaml:"names,omitempty"`
	PhoneNumbers []string        `json:"phone_numbers,omitempty" yaml:"phone_numbers,omitempty"`
	DiscoveredAt time.Time       `json:"discovered_at" yaml:"discovered_at"`
}

func FromResult(serial string, result *discovery.Result) *CachedResult {
	return &CachedResult{
		ID:           result.ID,
		Serial:       serial,
		Source:       string(result.Source),
		Summary:      result.Profile.Summary(),
		Emails:       result.Profile.Emails(),
		Names:        result.Profile.Names(),
		PhoneNumbers: result.Profile.PhoneNumbers(),
		DiscoveredAt: result.DiscoveredAt,
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return &RedisCache{client: redis.NewClient(opts)}
}

func (cache *RedisCache) Close() error {
	return cache.client.Close()
}

func (cache *RedisCache) Ping(ctx context.Context) error {
	return cache.client.Ping(ctx).Err()
}

func resultKey(serial string) string {
	return fmt.Sprintf("asaanauth:discovery:%s", serial)
}

// Get returns nil without error when the device has no cached result
func (cache *RedisCache) Get(ctx context.Context, serial string) (*CachedResult, error) {
	val, err := cache.client.Get(ctx, resultKey(serial)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	decompressed, err := decompress(val)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if decompressed == nil {
		return nil, nil
	}

	var result CachedResult
	if err := json.Unmarshal(decompressed, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (cache *RedisCache) Set(ctx context.Context, result *CachedResult, ttl time.Duration) error {
	key := resultKey(result.Serial)
	val, err := json.Marshal(result)
	if err != nil {
		return err
	}

	compressed, err := compress(val)
	if err != nil {
		return fmt.Errorf("failed to compress: %w", err)
	}

	if err := cache.client.Set(ctx, key, compressed, ttl).Err(); err != nil {
		return err
	}

	log.WithField("discovery", result.ID).Debugf("Cached result of %s", result.Serial)

	return cache.client.ZAdd(ctx, timestampsKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: key,
	}).Err()
}

// DeleteOlderThan removes the results cached before now - olderThan and returns how many were still stored
func (cache *RedisCache) DeleteOlderThan(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).Unix()

	keys, err := cache.client.ZRangeByScore(ctx, timestampsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff),
	}).Result()
	if err != nil {
		return 0, err
	}

	if len(keys) == 0 {
		return 0, nil
	}

	// Keys whose ttl already passed are only left in the sorted set
	deleted, err := cache.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}

	members := make([]interface{}, len(keys))
	for i, key := range keys {
		members[i] = key
	}
	if err := cache.client.ZRem(ctx, timestampsKey, members...).Err(); err != nil {
		return 0, err
	}
	return int(deleted), nil
}

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
