package model

import "time"

// 视频事件类型
const (
	VideoEventUploaded  = "video.uploaded"
	VideoEventLiked     = "video.liked"
	VideoEventCommented = "video.commented"
)

// VideoEvent 视频变更事件，供搜索索引等下游消费
type VideoEvent struct {
	Type       string    `json:"type"`
	VideoID    int64     `json:"video_id"`
	Filename   string    `json:"filename"`
	Likes      int64     `json:"likes"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewVideoEvent 根据视频当前状态生成事件
func NewVideoEvent(eventType string, video *Video) *VideoEvent {
	return &VideoEvent{
		Type:       eventType,
		VideoID:    video.ID,
		Filename:   video.Filename,
		Likes:      video.Likes,
		OccurredAt: time.Now().UTC(),
	}
}
