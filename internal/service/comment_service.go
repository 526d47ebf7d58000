package service

import (
	"context"

	"bdeo/internal/api/dto"
	"bdeo/internal/model"
	"bdeo/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	videoRepo   *repository.VideoRepository
	events      EventPublisher
}

func NewCommentService(commentRepo *repository.CommentRepository, videoRepo *repository.VideoRepository, events EventPublisher) *CommentService {
	if events == nil {
		events = NopPublisher{}
	}
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo, events: events}
}

// Create 发表评论；内容为空不写库，用户名为空时使用占位名
func (s *CommentService) Create(ctx context.Context, videoID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	if req.CommentText == "" {
		return nil, ErrEmptyComment
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		VideoID:     videoID,
		Username:    req.Username,
		CommentText: req.CommentText,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	publish(ctx, s.events, model.VideoEventCommented, video)
	return toCommentInfo(comment), nil
}

// ListByVideo 视频的全部评论，最新的在前
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64) ([]dto.CommentInfo, error) {
	comments, err := s.commentRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i]))
	}
	return items, nil
}

func toCommentInfo(c *model.Comment) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Username:  c.Username,
		Text:      c.CommentText,
		CreatedAt: c.CreatedAt,
	}
}
