package kafka

import (
	"context"
	"fmt"
	"time"

	"bdeo/internal/config"
	"bdeo/internal/model"
	"bdeo/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter kafka.Writer 的最小接口，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher 将视频事件写入 Kafka
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher 初始化 Kafka 生产者
func NewPublisher(cfg *config.KafkaConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)

	return &Publisher{writer: writer, topic: cfg.Topic}
}

// EncodeVideoEvent 编码事件，key 保证同一视频的事件落在同一分区
func EncodeVideoEvent(topic string, evt *model.VideoEvent) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal video event: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("video-%d", evt.VideoID)),
		Value: payload,
	}, nil
}

// DecodeVideoEvent 解码事件
func DecodeVideoEvent(value []byte) (*model.VideoEvent, error) {
	var evt model.VideoEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video event: %w", err)
	}
	return &evt, nil
}

// Publish 发送视频事件
func (p *Publisher) Publish(ctx context.Context, evt *model.VideoEvent) error {
	msg, err := EncodeVideoEvent(p.topic, evt)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send video event: %w", err)
	}

	logger.Debug("Video event sent",
		zap.String("type", evt.Type),
		zap.Int64("video_id", evt.VideoID),
		zap.String("topic", p.topic),
	)
	return nil
}

// Close 关闭生产者
func (p *Publisher) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
