package model

// Video 视频模型
type Video struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename string `gorm:"size:255;not null;index:idx_videos_filename" json:"filename"`
	Likes    int64  `gorm:"not null;default:0" json:"likes"`

	// 关联关系
	Comments []Comment `gorm:"foreignKey:VideoID;constraint:OnDelete:RESTRICT" json:"comments,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
