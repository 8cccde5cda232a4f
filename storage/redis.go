package storage

import (
	"context"
	"fmt"

	"github.com/lendfast/appform/config"
	"github.com/redis/go-redis/v9"
)

// RedisClient holds the redis connection
var RedisClient *redis.Client

// InitializeRedis connects to redis and verifies the connection
func InitializeRedis() error {
	conf := config.RedisConfig()

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := RedisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}

	return nil
}
