package job

import (
	"context"
	"time"

	"bdeo/pkg/logger"

	"go.uber.org/zap"
)

const reindexTimeout = 5 * time.Minute

// Reindexer 全量重建搜索索引
type Reindexer interface {
	SyncAll(ctx context.Context) error
}

// ReindexJob 定时把数据库中的视频全量写入搜索索引，修正事件丢失造成的偏差
type ReindexJob struct {
	reindexer Reindexer
}

func NewReindexJob(reindexer Reindexer) *ReindexJob {
	return &ReindexJob{reindexer: reindexer}
}

// Run 供 cron 调用
func (j *ReindexJob) Run() {
	j.RunContext(context.Background())
}

// RunContext 可随 ctx 取消，用于进程启动时的首次同步
func (j *ReindexJob) RunContext(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, reindexTimeout)
	defer cancel()

	start := time.Now()
	logger.Info("start video reindex job")
	if err := j.reindexer.SyncAll(ctx); err != nil {
		logger.Error("video reindex job failed", zap.Error(err))
		return
	}
	logger.Info("video reindex job finished", zap.Duration("duration", time.Since(start)))
}
