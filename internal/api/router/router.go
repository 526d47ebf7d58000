package router

import (
	"bdeo/internal/api/handler"
	"bdeo/internal/api/middleware"
	"bdeo/internal/api/response"
	"bdeo/internal/api/view"
	"bdeo/internal/notice"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Video   *handler.VideoHandler
	Comment *handler.CommentHandler
	Search  *handler.SearchHandler
	Health  *handler.HealthHandler
}

// New 创建 Gin 引擎：自定义中间件、页面模板和全部路由
func New(noticeStore notice.Store, maxUploadSize int64, h *Handlers) (*gin.Engine, error) {
	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}

	// 不使用默认中间件
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(notice.Middleware(noticeStore))

	Setup(r, h, maxUploadSize)
	return r, nil
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h *Handlers, maxUploadSize int64) {
	r.GET("/healthz", h.Health.Health)

	// --- 视频模块 ---
	r.GET("/", h.Video.List)
	r.GET("/upload", h.Video.UploadForm)
	r.POST("/upload", middleware.BodyLimit(maxUploadSize), h.Video.Upload)
	r.GET("/watch/:video_id", h.Video.Watch)
	// 点赞沿用 GET，链接即可触发
	r.GET("/like/:video_id", h.Video.Like)
	r.GET("/uploads/:filename", h.Video.ServeFile)

	// --- 评论模块 ---
	r.POST("/comment/:video_id", h.Comment.Create)

	// --- 搜索模块 ---
	r.GET("/search", h.Search.Search)

	r.NoRoute(response.NotFound)
}
