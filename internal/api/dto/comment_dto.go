package dto

import "time"

// CommentCreateRequest 发表评论表单
type CommentCreateRequest struct {
	Username    string `form:"username"`
	CommentText string `form:"comment_text"`
}

// CommentInfo 评论展示信息
type CommentInfo struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"video_id"`
	Username  string    `json:"username"`
	Text      string    `json:"comment_text"`
	CreatedAt time.Time `json:"created_at"`
}
