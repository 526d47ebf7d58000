package service

import (
	"context"

	"bdeo/internal/api/dto"
	"bdeo/internal/model"
	"bdeo/internal/repository"
	"bdeo/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VideoIndex 视频搜索索引（Elasticsearch）
type VideoIndex interface {
	SearchFilename(ctx context.Context, query string) ([]int64, error)
	IndexVideo(ctx context.Context, video *model.Video) error
	BulkIndex(ctx context.Context, videos []model.Video) (success, failed int, err error)
}

type SearchService struct {
	videoRepo *repository.VideoRepository
	index     VideoIndex
}

// NewSearchService index 为 nil 时只走数据库查询
func NewSearchService(videoRepo *repository.VideoRepository, index VideoIndex) *SearchService {
	return &SearchService{videoRepo: videoRepo, index: index}
}

// Search 按文件名子串搜索（ES 优先，失败则降级到 DB）
func (s *SearchService) Search(ctx context.Context, req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	data := &dto.SearchVideoData{Query: req.Q, Results: []dto.VideoInfo{}}
	if req.Q == "" {
		return data, nil
	}

	videos, err := s.searchFromIndex(ctx, req.Q)
	if err != nil {
		logger.Warn("ES search failed, fallback to DB", zap.String("q", req.Q), zap.Error(err))
		videos, err = s.videoRepo.SearchByFilename(ctx, req.Q)
		if err != nil {
			return nil, err
		}
	}

	data.Results = toVideoInfos(videos)
	return data, nil
}

func (s *SearchService) searchFromIndex(ctx context.Context, query string) ([]model.Video, error) {
	if s.index == nil {
		return nil, errors.New("search index disabled")
	}
	ids, err := s.index.SearchFilename(ctx, query)
	if err != nil {
		return nil, err
	}
	// 以数据库为准，索引里残留的已删除记录自然被过滤
	return s.videoRepo.GetByIDs(ctx, ids)
}

// SyncVideo 将单个视频的最新状态写入索引
func (s *SearchService) SyncVideo(ctx context.Context, videoID int64) error {
	if s.index == nil {
		return nil
	}
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Skip indexing missing video", zap.Int64("video_id", videoID))
			return nil
		}
		return err
	}
	return s.index.IndexVideo(ctx, video)
}

// SyncAll 全量重建索引
func (s *SearchService) SyncAll(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	videos, err := s.videoRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return nil
	}

	success, failed, err := s.index.BulkIndex(ctx, videos)
	if err != nil {
		return errors.WithMessage(err, "bulk index videos")
	}
	logger.Info("Video index synced", zap.Int("success", success), zap.Int("failed", failed))
	return nil
}

// HandleVideoEvent 消费视频事件，按视频当前状态刷新索引
func (s *SearchService) HandleVideoEvent(ctx context.Context, evt *model.VideoEvent) error {
	switch evt.Type {
	case model.VideoEventUploaded, model.VideoEventLiked, model.VideoEventCommented:
		return s.SyncVideo(ctx, evt.VideoID)
	default:
		logger.Debug("Ignore unknown video event", zap.String("type", evt.Type))
		return nil
	}
}
