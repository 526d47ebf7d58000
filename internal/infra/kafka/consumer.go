package kafka

import (
	"context"
	"time"

	"bdeo/internal/config"
	"bdeo/internal/model"
	"bdeo/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理视频事件的回调函数
type EventHandler func(ctx context.Context, evt *model.VideoEvent) error

// ConsumeVideoEvents 启动视频事件消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后返回 nil
func ConsumeVideoEvents(ctx context.Context, cfg *config.KafkaConfig, handler EventHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka video event consumer stopped")
	}()

	logger.Info("Kafka video event consumer started",
		zap.String("topic", cfg.Topic),
		zap.String("group", cfg.GroupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		evt, err := DecodeVideoEvent(msg.Value)
		if err != nil {
			logger.Error("Failed to decode video event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, evt); err != nil {
			logger.Error("Failed to handle video event",
				zap.String("type", evt.Type),
				zap.Int64("video_id", evt.VideoID),
				zap.Error(err),
			)
		}
	}
}
