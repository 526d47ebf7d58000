package service

import (
	"context"
	"io"
	"net/url"

	"bdeo/internal/api/dto"
	"bdeo/internal/infra/filestore"
	"bdeo/internal/model"
	"bdeo/internal/repository"
	"bdeo/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VideoService struct {
	videoRepo *repository.VideoRepository
	files     filestore.Store
	events    EventPublisher
}

func NewVideoService(videoRepo *repository.VideoRepository, files filestore.Store, events EventPublisher) *VideoService {
	if events == nil {
		events = NopPublisher{}
	}
	return &VideoService{videoRepo: videoRepo, files: files, events: events}
}

// List 全部视频，最新的在前
func (s *VideoService) List(ctx context.Context) ([]dto.VideoInfo, error) {
	videos, err := s.videoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toVideoInfos(videos), nil
}

// Upload 保存文件后写入视频记录。
// 两步不在同一事务中：写库失败时删除刚写入的文件；写文件失败则不会写库。
func (s *VideoService) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (*dto.VideoInfo, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	if err := s.files.Save(ctx, filename, r, size, contentType); err != nil {
		return nil, errors.WithMessage(err, "save upload")
	}

	video := &model.Video{Filename: filename}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		if rmErr := s.files.Remove(ctx, filename); rmErr != nil {
			logger.Error("Remove orphaned upload failed",
				zap.String("filename", filename), zap.Error(rmErr))
		}
		return nil, err
	}

	logger.Info("Video uploaded",
		zap.Int64("video_id", video.ID),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	publish(ctx, s.events, model.VideoEventUploaded, video)
	return toVideoInfo(video), nil
}

// GetDetail 获取视频详情
func (s *VideoService) GetDetail(ctx context.Context, videoID int64) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return toVideoInfo(video), nil
}

// Like 点赞数 +1，视频不存在时静默忽略
func (s *VideoService) Like(ctx context.Context, videoID int64) error {
	if err := s.videoRepo.IncrementLikes(ctx, videoID); err != nil {
		return err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		logger.Warn("Reload liked video failed", zap.Int64("video_id", videoID), zap.Error(err))
		return nil
	}

	publish(ctx, s.events, model.VideoEventLiked, video)
	return nil
}

// OpenFile 打开上传的原始文件，调用方负责关闭
func (s *VideoService) OpenFile(ctx context.Context, filename string) (*filestore.Object, error) {
	obj, err := s.files.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return obj, nil
}

// FileURL 上传文件的访问路径
func FileURL(filename string) string {
	return "/uploads/" + url.PathEscape(filename)
}

func toVideoInfo(video *model.Video) *dto.VideoInfo {
	return &dto.VideoInfo{
		ID:       video.ID,
		Filename: video.Filename,
		Likes:    video.Likes,
		FileURL:  FileURL(video.Filename),
	}
}

func toVideoInfos(videos []model.Video) []dto.VideoInfo {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i]))
	}
	return items
}
