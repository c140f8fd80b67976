package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var Redis *redis.Client

// ConnectRedis opens the cache client. A failed ping leaves Redis nil so the
// API keeps serving without the catalog cache.
func ConnectRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     AppConfig.RedisAddr,
		Password: AppConfig.RedisPassword,
		DB:       AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		return
	}
	Redis = client
}

// QueueOpt is the asynq connection used by the appointment dispatcher and worker.
func QueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     AppConfig.RedisAddr,
		Password: AppConfig.RedisPassword,
		DB:       AppConfig.RedisQueueDB,
	}
}
