package dto

// SearchVideoRequest 搜索请求参数
type SearchVideoRequest struct {
	Q string `form:"q"`
}

// SearchVideoData 搜索结果
type SearchVideoData struct {
	Query   string      `json:"query"`
	Results []VideoInfo `json:"results"`
}
