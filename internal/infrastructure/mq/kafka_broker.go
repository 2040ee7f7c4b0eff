package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"flatshare_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker 分布式模式，事件写入 Kafka 主题，由消费者组读取
type KafkaBroker struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

// NewKafkaBroker 创建 Kafka 生产者和消费者
// 同一小组的事件使用小组 ID 作为 key，保证分区内有序
func NewKafkaBroker(conf config.KafkaConfig) *KafkaBroker {
	return &KafkaBroker{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           conf.Timeout * time.Second,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{conf.HostPort},
			Topic:          conf.EventTopic,
			CommitInterval: conf.Timeout * time.Second,
			GroupID:        conf.GroupID,
			StartOffset:    kafka.LastOffset,
		}),
	}
}

// CreateTopic 创建事件主题，已存在时 Kafka 返回的错误只记录日志
func CreateTopic(conf config.KafkaConfig) error {
	conn, err := kafka.Dial("tcp", conf.HostPort)
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	partitions := conf.Partition
	if partitions <= 0 {
		partitions = 1
	}
	if err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             conf.EventTopic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}); err != nil {
		if errors.Is(err, kafka.TopicAlreadyExists) {
			return nil
		}
		zap.L().Warn("create kafka topic", zap.String("topic", conf.EventTopic), zap.Error(err))
	}
	return nil
}

// Publish 序列化事件并写入 Kafka
func (k *KafkaBroker) Publish(ctx context.Context, event GroupEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal group event: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.GroupId),
		Value: value,
	})
}

// Start 读取-处理-提交循环
func (k *KafkaBroker) Start(ctx context.Context, handler EventHandler) {
	zap.L().Info("Kafka event consumer started", zap.String("topic", k.reader.Config().Topic))
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			zap.L().Error("kafka fetch message", zap.Error(err))
			continue
		}

		var event GroupEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			zap.L().Error("unmarshal group event", zap.Error(err), zap.ByteString("value", msg.Value))
		} else {
			dispatch(ctx, handler, event)
		}

		if err := k.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			zap.L().Error("kafka commit message", zap.Error(err))
		}
	}
}

// Close 关闭生产者和消费者
func (k *KafkaBroker) Close() {
	if err := k.writer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := k.reader.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

var _ EventBroker = (*KafkaBroker)(nil)
