package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bdeo/internal/config"
	"bdeo/internal/cron"
	"bdeo/internal/infra/database"
	infraES "bdeo/internal/infra/elasticsearch"
	infraKafka "bdeo/internal/infra/kafka"
	"bdeo/internal/job"
	"bdeo/internal/repository"
	"bdeo/internal/service"
	"bdeo/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 搜索索引同步 worker：消费视频事件增量更新，并定时全量重建
func main() {
	configPath := flag.String("config", "", "path to config file (yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if !cfg.Elasticsearch.Enabled {
		logger.Fatal("Search worker requires elasticsearch.enabled")
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close(db)

	esClient, err := infraES.NewClient(&cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	index := infraES.NewVideoIndex(esClient, cfg.Elasticsearch.Index)

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = index.EnsureIndex(initCtx)
	initCancel()
	if err != nil {
		logger.Fatal("Failed to init elasticsearch index", zap.Error(err))
	}

	searchService := service.NewSearchService(repository.NewVideoRepository(db), index)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 启动时先全量同步一次，之后按 cron 执行
	reindexJob := job.NewReindexJob(searchService)
	g.Go(func() error {
		reindexJob.RunContext(ctx)
		return nil
	})

	// 定时任务
	cronMgr := cron.NewCronManager(cfg.Search.ReindexCron, reindexJob)
	if err := cronMgr.RegisterJobs(); err != nil {
		logger.Fatal("Failed to register cron jobs", zap.Error(err))
	}
	cronMgr.Start()
	g.Go(func() error {
		<-ctx.Done()
		cronMgr.Stop()
		return nil
	})

	// Kafka 消费者
	if cfg.Kafka.Enabled {
		g.Go(func() error {
			return infraKafka.ConsumeVideoEvents(ctx, &cfg.Kafka, searchService.HandleVideoEvent)
		})
	} else {
		logger.Warn("Kafka disabled, only periodic reindex will run")
	}

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
			cancel()
		}
		return nil
	})

	logger.Info("Search worker started",
		zap.String("reindex_cron", cfg.Search.ReindexCron),
		zap.Int("cron_jobs", cronMgr.Entries()),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Search worker exited with error", zap.Error(err))
		return
	}
	logger.Info("Search worker stopped")
}
