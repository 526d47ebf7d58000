package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"bdeo/internal/api/dto"
	"bdeo/internal/api/response"
	"bdeo/internal/service"
	"bdeo/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const uploadDoneNotice = "동영상 업로드 완료!"

type VideoHandler struct {
	videoService   *service.VideoService
	commentService *service.CommentService
}

func NewVideoHandler(videoService *service.VideoService, commentService *service.CommentService) *VideoHandler {
	return &VideoHandler{videoService: videoService, commentService: commentService}
}

// List GET /
func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videoService.List(c.Request.Context())
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.Page(c, "list.html", gin.H{"videos": videos})
}

// UploadForm GET /upload
func (h *VideoHandler) UploadForm(c *gin.Context) {
	response.Page(c, "upload.html", nil)
}

// Upload POST /upload（multipart 字段 file）
func (h *VideoHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		handleVideoError(c, uploadFormError(c, err))
		return
	}

	f, err := file.Open()
	if err != nil {
		handleVideoError(c, err)
		return
	}
	defer f.Close()

	_, err = h.videoService.Upload(c.Request.Context(), file.Filename, f, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.RedirectWithNotice(c, "/", uploadDoneNotice)
}

// uploadFormError 区分「没有 file 字段」和「选了空文件名」，超限错误原样返回
func uploadFormError(c *gin.Context, err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return err
	}
	if !errors.Is(err, http.ErrMissingFile) {
		logger.Debug("Parse upload form failed", zap.Error(err))
	}

	form := c.Request.MultipartForm
	if form != nil && len(form.Value["file"]) > 0 {
		// 文件名为空的 part 会被当作普通表单值
		return service.ErrEmptyFilename
	}
	return service.ErrNoUploadFile
}

// Watch GET /watch/:video_id
func (h *VideoHandler) Watch(c *gin.Context) {
	videoID, ok := bindVideoID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	video, err := h.videoService.GetDetail(ctx, videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	comments, err := h.commentService.ListByVideo(ctx, videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.Page(c, "watch.html", gin.H{
		"video":    video,
		"comments": comments,
	})
}

// Like GET /like/:video_id
func (h *VideoHandler) Like(c *gin.Context) {
	videoID, ok := bindVideoID(c)
	if !ok {
		return
	}

	if err := h.videoService.Like(c.Request.Context(), videoID); err != nil {
		handleVideoError(c, err)
		return
	}

	response.Redirect(c, watchURL(videoID))
}

// ServeFile GET /uploads/:filename
func (h *VideoHandler) ServeFile(c *gin.Context) {
	var uri dto.FileURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.NotFound(c)
		return
	}

	obj, err := h.videoService.OpenFile(c.Request.Context(), uri.Filename)
	if err != nil {
		handleVideoError(c, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		c.Header("Content-Type", obj.ContentType)
	}

	// 可 Seek 时支持 Range 请求，便于播放器拖动进度
	if rs, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(c.Writer, c.Request, uri.Filename, obj.ModTime, rs)
		return
	}
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
}

func bindVideoID(c *gin.Context) (int64, bool) {
	var uri dto.VideoURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.NotFound(c)
		return 0, false
	}
	return uri.VideoID, true
}

func watchURL(videoID int64) string {
	return fmt.Sprintf("/watch/%d", videoID)
}

func handleVideoError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrNoUploadFile), errors.Is(err, service.ErrEmptyFilename):
		response.RedirectWithNotice(c, "/upload", err.Error())
	case errors.Is(err, service.ErrVideoNotFound):
		response.RedirectWithNotice(c, "/", err.Error())
	case errors.Is(err, service.ErrFileNotFound):
		response.NotFound(c)
	case errors.As(err, &maxBytesErr), errors.Is(err, multipart.ErrMessageTooLarge):
		response.PayloadTooLarge(c)
	default:
		logger.Error("Video operation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		response.InternalError(c)
	}
}
