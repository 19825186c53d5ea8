package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 3 * time.Second

// ConnectRedis parses url and verifies the server answers a ping.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Log.Info("Redis connected", zap.String("addr", opt.Addr))
	return client, nil
}
