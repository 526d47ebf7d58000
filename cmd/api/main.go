package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bdeo/internal/api/handler"
	"bdeo/internal/api/router"
	"bdeo/internal/config"
	"bdeo/internal/infra/database"
	infraES "bdeo/internal/infra/elasticsearch"
	"bdeo/internal/infra/filestore"
	infraKafka "bdeo/internal/infra/kafka"
	infraMinio "bdeo/internal/infra/minio"
	infraRedis "bdeo/internal/infra/redis"
	"bdeo/internal/notice"
	"bdeo/internal/repository"
	"bdeo/internal/service"
	"bdeo/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file (yaml)")
	flag.Parse()

	// 加载配置文件
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库并建表
	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.InitSchema(db); err != nil {
		logger.Fatal("Failed to init schema", zap.Error(err))
	}

	files, err := newFileStore(cfg)
	if err != nil {
		logger.Fatal("Failed to init file store", zap.Error(err))
	}

	noticeStore, closeNotice, err := newNoticeStore(cfg)
	if err != nil {
		logger.Fatal("Failed to init notice store", zap.Error(err))
	}
	defer closeNotice()

	// 初始化依赖（Repository -> Service -> Handler）
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	searchService := service.NewSearchService(videoRepo, newSearchIndex(cfg))

	events, closeEvents := newEventPublisher(cfg, searchService)
	defer closeEvents()

	videoService := service.NewVideoService(videoRepo, files, events)
	commentService := service.NewCommentService(commentRepo, videoRepo, events)

	gin.SetMode(cfg.App.Mode)

	r, err := router.New(noticeStore, cfg.Upload.MaxSize, &router.Handlers{
		Video:   handler.NewVideoHandler(videoService, commentService),
		Comment: handler.NewCommentHandler(commentService),
		Search:  handler.NewSearchHandler(searchService),
		Health:  handler.NewHealthHandler(db),
	})
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", cfg.App.Addr()),
	)
	logger.Info("Configuration loaded",
		zap.String("database", cfg.Database.Driver),
		zap.String("upload", cfg.Upload.Driver),
		zap.String("notice", cfg.Notice.Driver),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("elasticsearch", cfg.Elasticsearch.Enabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// HTTP 服务器
	srv := &http.Server{
		Addr:    cfg.App.Addr(),
		Handler: r,
	}
	g.Go(func() error {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server exited with error", zap.Error(err))
		return
	}
	logger.Info("Server exited")
}

// newFileStore 按 upload.driver 选择上传文件存储
func newFileStore(cfg *config.Config) (filestore.Store, error) {
	switch cfg.Upload.Driver {
	case "minio":
		return infraMinio.NewStore(&cfg.MinIO)
	case "", "local":
		return filestore.NewLocalStore(cfg.Upload.Dir), nil
	default:
		return nil, fmt.Errorf("unsupported upload driver %q", cfg.Upload.Driver)
	}
}

// newNoticeStore 按 notice.driver 选择提示消息存储
func newNoticeStore(cfg *config.Config) (notice.Store, func(), error) {
	switch cfg.Notice.Driver {
	case "redis":
		client, err := infraRedis.NewClient(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := infraRedis.Close(client); err != nil {
				logger.Error("Failed to close redis", zap.Error(err))
			}
		}
		return notice.NewRedisStore(client, cfg.Notice.TTLDuration()), closeFn, nil
	case "", "memory":
		return notice.NewMemoryStore(cfg.Notice.TTLDuration()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported notice driver %q", cfg.Notice.Driver)
	}
}

// newSearchIndex 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
func newSearchIndex(cfg *config.Config) service.VideoIndex {
	if !cfg.Elasticsearch.Enabled {
		return nil
	}

	client, err := infraES.NewClient(&cfg.Elasticsearch)
	if err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		return nil
	}

	index := infraES.NewVideoIndex(client, cfg.Elasticsearch.Index)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := index.EnsureIndex(ctx); err != nil {
		logger.Warn("Elasticsearch index init failed", zap.Error(err))
	}
	return index
}

// newEventPublisher Kafka 优先；未启用 Kafka 时直接在请求内同步索引
func newEventPublisher(cfg *config.Config, searchService *service.SearchService) (service.EventPublisher, func()) {
	switch {
	case cfg.Kafka.Enabled:
		publisher := infraKafka.NewPublisher(&cfg.Kafka)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close kafka producer", zap.Error(err))
			}
		}
	case cfg.Elasticsearch.Enabled:
		return service.NewIndexingPublisher(searchService), func() {}
	default:
		return service.NopPublisher{}, func() {}
	}
}
