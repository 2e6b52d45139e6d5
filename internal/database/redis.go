package database

import (
	"context"
	"fmt"
	"time"

	"event-reservation/config"
	"event-reservation/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis 連線並 ping 一次；呼叫端決定失敗時是否降級
func InitRedis(config *config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	logger.WithComponent("database").Info("redis connected", zap.String("addr", addr), zap.Int("db", config.DB))
	return rdb, nil
}
