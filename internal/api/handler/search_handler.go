package handler

import (
	"bdeo/internal/api/dto"
	"bdeo/internal/api/response"
	"bdeo/internal/service"
	"bdeo/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search GET /search?q=，q 为空时不查询
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchVideoRequest
	_ = c.ShouldBindQuery(&req)

	data, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Search videos failed", zap.String("q", req.Q), zap.Error(err))
		response.InternalError(c)
		return
	}

	response.Page(c, "search.html", gin.H{
		"query":   data.Query,
		"results": data.Results,
	})
}
