package repository

import (
	"context"

	"bdeo/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 发表评论，用户名为空时使用占位名
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.Username == "" {
		comment.Username = model.AnonymousUsername
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.Wrapf(err, "create comment on video %d", comment.VideoID)
	}
	return nil
}

// ListByVideo 获取视频的全部评论，按 ID 倒序
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).
		Order("id DESC").Find(&comments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list comments of video %d", videoID)
	}
	return comments, nil
}
