package repository

import (
	"context"
	"strings"

	"bdeo/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// List 全部视频，按 ID 倒序
func (r *VideoRepository) List(ctx context.Context) ([]model.Video, error) {
	var videos []model.Video
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&videos).Error; err != nil {
		return nil, errors.Wrap(err, "list videos")
	}
	return videos, nil
}

// GetByID 根据 ID 获取视频，不存在时返回 gorm.ErrRecordNotFound
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get video %d", id)
	}
	return &video, nil
}

// GetByIDs 批量获取视频，按 ID 倒序
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return []model.Video{}, nil
	}
	var videos []model.Video
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id DESC").Find(&videos).Error
	if err != nil {
		return nil, errors.Wrap(err, "get videos by ids")
	}
	return videos, nil
}

// Create 创建视频记录，点赞数为 0
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	video.Likes = 0
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return errors.Wrapf(err, "create video %q", video.Filename)
	}
	return nil
}

// IncrementLikes 点赞数 +1，ID 不存在时静默忽略
func (r *VideoRepository) IncrementLikes(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	if err != nil {
		return errors.Wrapf(err, "increment likes of video %d", id)
	}
	return nil
}

// SearchByFilename 文件名子串搜索（不区分大小写），空关键词返回空结果
func (r *VideoRepository) SearchByFilename(ctx context.Context, query string) ([]model.Video, error) {
	if query == "" {
		return []model.Video{}, nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Where("LOWER(filename) LIKE LOWER(?) ESCAPE '!'", pattern).
		Order("id DESC").
		Find(&videos).Error
	if err != nil {
		return nil, errors.Wrapf(err, "search videos by %q", query)
	}
	return videos, nil
}
