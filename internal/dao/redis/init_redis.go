package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"flatshare_server/internal/config"

	"github.com/go-redis/redis/v8"
)

// Init 建立 Redis 连接并返回带 Worker Pool 的缓存服务
func Init(conf config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Host + ":" + strconv.Itoa(conf.Port),
		Password: conf.Password,
		DB:       conf.Db,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: conf.WorkerNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisCache(client, conf.WorkerNum, conf.TaskChanSize), nil
}
