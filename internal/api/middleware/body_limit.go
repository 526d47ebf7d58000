package middleware

import (
	"net/http"

	"bdeo/internal/api/response"

	"github.com/gin-gonic/gin"
)

// BodyLimit 限制请求体大小。
// Content-Length 已知超限时直接返回 413；未知长度由 MaxBytesReader 在读取时截断，
// 处理函数读到 *http.MaxBytesError 后自行返回 413。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
