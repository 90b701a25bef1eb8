package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Driver string

const (
	DriverMemory = Driver("memory")
	DriverBadger = Driver("badger")
	DriverRedis  = Driver("redis")
)

// Cache is a byte-oriented key/value store for last-known-good snapshots.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Config struct {
	Driver        Driver        `yaml:"driver"`
	Path          string        `yaml:"path"`      // badger directory; empty runs in memory
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redisDb"`
	TTL           time.Duration `yaml:"-"` // redis only; 0 keeps keys forever
}

func New(cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryCache(), nil
	case DriverBadger:
		return NewBadgerCache(cfg.Path)
	case DriverRedis:
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %v", cfg.Driver)
	}
}

func GetJSON[T any](ctx context.Context, c Cache, key string) (*T, bool, error) {
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false, err
	}
	return &v, true, nil
}

func SetJSON(ctx context.Context, c Cache, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b)
}
