package service

import (
	"context"

	"bdeo/internal/model"
	"bdeo/pkg/logger"

	"go.uber.org/zap"
)

// EventPublisher 视频事件发布（Kafka 或进程内同步索引）
type EventPublisher interface {
	Publish(ctx context.Context, evt *model.VideoEvent) error
}

// NopPublisher 不发布任何事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *model.VideoEvent) error { return nil }

// IndexingPublisher 未启用 Kafka 时直接在请求内同步搜索索引
type IndexingPublisher struct {
	search *SearchService
}

func NewIndexingPublisher(search *SearchService) *IndexingPublisher {
	return &IndexingPublisher{search: search}
}

func (p *IndexingPublisher) Publish(ctx context.Context, evt *model.VideoEvent) error {
	return p.search.HandleVideoEvent(ctx, evt)
}

// publish 发布失败只记录日志，不影响请求结果
func publish(ctx context.Context, events EventPublisher, eventType string, video *model.Video) {
	if events == nil {
		return
	}
	evt := model.NewVideoEvent(eventType, video)
	if err := events.Publish(ctx, evt); err != nil {
		logger.Warn("Publish video event failed",
			zap.String("type", eventType),
			zap.Int64("video_id", video.ID),
			zap.Error(err),
		)
	}
}
