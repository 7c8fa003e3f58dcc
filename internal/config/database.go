package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// Redis client
	Redis *redisclient.Client
)

// redisOptions builds client options from either a redis:// URL or a bare host:port
func redisOptions(cfg *Config) (*redis.Options, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.RedisURI, "redis://") || strings.HasPrefix(cfg.RedisURI, "rediss://") {
		parsed, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URI: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.RedisURI}
	}

	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2

	return opts, nil
}

// InitRedis initializes the Redis connection. A failed ping is logged, not
// fatal: the CEP cache degrades to direct lookups and wizard endpoints report
// the error per request.
func InitRedis() error {
	opts, err := redisOptions(AppConfig)
	if err != nil {
		return err
	}

	Redis = redisclient.NewClient(redis.NewClient(opts))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("addr", opts.Addr),
			zap.Error(err))
		return nil
	}

	logging.Logger.Info("connected to Redis",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB))

	return nil
}

// CloseRedis closes the Redis connection pool
func CloseRedis() {
	if Redis == nil {
		return
	}
	if err := Redis.Close(); err != nil {
		logging.Logger.Warn("failed to close Redis", zap.Error(err))
	}
}
