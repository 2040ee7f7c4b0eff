package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flatshare_server/internal/config"
	dao "flatshare_server/internal/dao/mysql"
	"flatshare_server/internal/dao/mysql/repository"
	myredis "flatshare_server/internal/dao/redis"
	"flatshare_server/internal/gateway/websocket"
	"flatshare_server/internal/handler"
	"flatshare_server/internal/https_server"
	"flatshare_server/internal/infrastructure/logger"
	"flatshare_server/internal/infrastructure/mq"
	"flatshare_server/internal/service"
	"flatshare_server/pkg/util/jwt"
	"flatshare_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck
	zap.L().Info("日志初始化成功")

	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 3. 初始化数据库
	db, err := dao.Init(conf.MysqlConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	cache, err := myredis.Init(conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	zap.L().Info("Redis 初始化成功")

	// 5. 参数校验翻译
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化翻译器失败", zap.Error(err))
	}

	// 6. 事件总线
	var broker mq.EventBroker
	if conf.KafkaConfig.MessageMode == "kafka" {
		if err := mq.CreateTopic(conf.KafkaConfig); err != nil {
			zap.L().Fatal("创建 Kafka 主题失败", zap.Error(err))
		}
		broker = mq.NewKafkaBroker(conf.KafkaConfig)
	} else {
		broker = mq.NewChannelBroker()
	}
	zap.L().Info("事件总线初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 依赖注入
	tokens := jwt.NewManager(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	hub := websocket.NewHub()
	services := service.NewServices(service.Deps{
		Repos:  repository.NewRepositories(db),
		Cache:  cache,
		Events: broker,
		Tokens: tokens,
		Pusher: hub,
	})
	handlers := handler.NewHandlers(services, hub)

	ctx, cancel := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		broker.Start(ctx, services.Notification.HandleEvent)
	}()

	// 8. 启动 HTTP 服务
	engine := https_server.Init(conf.MainConfig, handlers, tokens)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}

	// 先停消费者，再断开推送连接和缓存
	cancel()
	broker.Close()
	<-consumerDone
	hub.Close()
	cache.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	zap.L().Info("服务器已关闭")
}
