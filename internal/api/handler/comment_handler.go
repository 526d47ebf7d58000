package handler

import (
	"errors"

	"bdeo/internal/api/dto"
	"bdeo/internal/api/response"
	"bdeo/internal/service"
	"bdeo/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create POST /comment/:video_id（表单字段 username、comment_text）
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, ok := bindVideoID(c)
	if !ok {
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RedirectWithNotice(c, watchURL(videoID), service.ErrEmptyComment.Error())
		return
	}

	if _, err := h.commentService.Create(c.Request.Context(), videoID, &req); err != nil {
		handleCommentError(c, videoID, err)
		return
	}

	response.Redirect(c, watchURL(videoID))
}

func handleCommentError(c *gin.Context, videoID int64, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyComment):
		response.RedirectWithNotice(c, watchURL(videoID), err.Error())
	case errors.Is(err, service.ErrVideoNotFound):
		response.RedirectWithNotice(c, "/", err.Error())
	default:
		logger.Error("Comment operation failed", zap.Int64("video_id", videoID), zap.Error(err))
		response.InternalError(c)
	}
}
