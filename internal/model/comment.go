package model

import "time"

// AnonymousUsername 未填写用户名时使用的占位名
const AnonymousUsername = "익명"

// Comment 评论模型
type Comment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID     int64     `gorm:"not null;index:idx_comments_video_id" json:"video_id"`
	Username    string    `gorm:"size:100" json:"username"`
	CommentText string    `gorm:"column:comment_text;type:text" json:"comment_text"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
