// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称，用于日志标识等
	Host     string `toml:"host"`     // 服务器监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 服务器监听端口，如 8000
	Mode     string `toml:"mode"`     // 运行模式："dev" 或 "release"
	ForceTLS bool   `toml:"forceTLS"` // 是否将 HTTP 请求重定向到 HTTPS（由 Nginx 处理 SSL 时关闭）
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host         string `toml:"host"`         // Redis 服务器地址
	Port         int    `toml:"port"`         // Redis 端口，默认 6379
	Password     string `toml:"password"`     // Redis 密码，无密码留空
	Db           int    `toml:"db"`           // Redis 数据库编号，默认 0
	WorkerNum    int    `toml:"workerNum"`    // 异步缓存任务 Worker 数量
	TaskChanSize int    `toml:"taskChanSize"` // 异步缓存任务缓冲区大小
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 群组事件总线配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 事件模式："channel"（进程内）或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 群组事件主题
	GroupID     string        `toml:"groupId"`     // 消费者组
	Partition   int           `toml:"partition"`   // 分区数
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 雪花算法节点 ID，范围 0-1023
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

// DefaultSearchPaths 候选配置文件路径（优先加载本地配置）
var DefaultSearchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml", // 从 cmd 子目录运行时的路径
	"../../configs/config.toml",
}

// Default 返回填充了默认值的配置
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "flatshare_server",
			Host:    "0.0.0.0",
			Port:    8000,
			Mode:    "dev",
		},
		MysqlConfig: MysqlConfig{
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			DatabaseName: "flatshare",
		},
		RedisConfig: RedisConfig{
			Host:         "127.0.0.1",
			Port:         6379,
			WorkerNum:    15,
			TaskChanSize: 3000,
		},
		LogConfig: LogConfig{
			LogPath: "./logs",
			Level:   "info",
		},
		KafkaConfig: KafkaConfig{
			MessageMode: "channel",
			HostPort:    "127.0.0.1:9092",
			EventTopic:  "group_events",
			GroupID:     "notification",
			Partition:   1,
			Timeout:     1,
		},
		JWTConfig: JWTConfig{
			AccessTokenExpiry:  30,
			RefreshTokenExpiry: 168,
		},
		SnowflakeConfig: SnowflakeConfig{
			MachineID: 1,
		},
	}
}

// Load 从候选路径加载配置文件，找到第一个存在的文件即停止
// 未指定路径时使用 DefaultSearchPaths；文件中未出现的字段保留默认值
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultSearchPaths
	}
	conf := Default()
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(path, conf); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
		return conf, conf.validate()
	}
	return nil, fmt.Errorf("could not find configuration file in any of the search paths %v", paths)
}

// validate 检查必须由配置文件提供的字段
func (c *Config) validate() error {
	if c.JWTConfig.Secret == "" {
		return errors.New("jwtConfig.secret must not be empty")
	}
	if c.KafkaConfig.MessageMode != "channel" && c.KafkaConfig.MessageMode != "kafka" {
		return fmt.Errorf("kafkaConfig.messageMode must be channel or kafka, got %q", c.KafkaConfig.MessageMode)
	}
	return nil
}
