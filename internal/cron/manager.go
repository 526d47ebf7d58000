package cron

import (
	"bdeo/internal/job"
	"bdeo/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Manager struct {
	engine      *cron.Cron
	reindexSpec string
	reindexJob  *job.ReindexJob
}

func NewCronManager(reindexSpec string, reindexJob *job.ReindexJob) *Manager {
	return &Manager{
		// 上一轮未结束时跳过本轮
		engine:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reindexSpec: reindexSpec,
		reindexJob:  reindexJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.reindexSpec, s.reindexJob); err != nil {
		return err
	}
	logger.Info("Cron job registered", zap.String("job", "video_reindex"), zap.String("spec", s.reindexSpec))
	return nil
}

func (s *Manager) Start() {
	logger.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Manager) Stop() {
	logger.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// Entries 已注册的任务数
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}
