package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ProductCache holds rendered product detail payloads. A miss is (nil, false);
// backend failures are treated as misses so reads fall through to the database.
type ProductCache interface {
	Get(ctx context.Context, productID uint) ([]byte, bool)
	Set(ctx context.Context, productID uint, payload []byte)
	Invalidate(ctx context.Context, productID uint)
}

func productKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}

type Nop struct{}

func (Nop) Get(context.Context, uint) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, uint, []byte)        {}
func (Nop) Invalidate(context.Context, uint)         {}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TTL         time.Duration
	DialTimeout time.Duration
	Logger      *slog.Logger
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxRetries:   1,
	})
	return &Redis{client: client, ttl: cfg.TTL, log: cfg.Logger.With("component", "product_cache")}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, id uint) ([]byte, bool) {
	b, err := r.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache_get_failed", "product_id", id, "error", err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, id uint, payload []byte) {
	if err := r.client.Set(ctx, productKey(id), payload, r.ttl).Err(); err != nil {
		r.log.Warn("cache_set_failed", "product_id", id, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, id uint) {
	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		r.log.Warn("cache_invalidate_failed", "product_id", id, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
