package dto

// VideoURI 路径中的视频 ID（/watch/:video_id 等），负数或非整数不匹配
type VideoURI struct {
	VideoID int64 `uri:"video_id" binding:"min=0"`
}

// FileURI 路径中的上传文件名
type FileURI struct {
	Filename string `uri:"filename" binding:"required"`
}

// VideoInfo 视频展示信息
type VideoInfo struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Likes    int64  `json:"likes"`
	FileURL  string `json:"file_url"`
}
