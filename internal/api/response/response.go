package response

import (
	"net/http"

	"bdeo/internal/notice"

	"github.com/gin-gonic/gin"
)

// 错误页模板名
const errorTemplate = "error.html"

// Response 统一 JSON 响应（健康检查等非页面接口）
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Page 渲染页面，并取出当前会话待显示的提示消息
func Page(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["notices"] = notice.Consume(c)
	c.HTML(http.StatusOK, name, data)
}

// Redirect 302 跳转
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// RedirectWithNotice 跳转前留下一条提示，下个页面显示一次
func RedirectWithNotice(c *gin.Context, location, message string) {
	notice.Add(c, message)
	Redirect(c, location)
}

// Fail 渲染错误页；不读取提示消息，留给下一个正常页面显示
func Fail(c *gin.Context, statusCode int, message string) {
	c.HTML(statusCode, errorTemplate, gin.H{
		"status":  statusCode,
		"message": message,
	})
}

func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, "페이지를 찾을 수 없습니다.")
}

func PayloadTooLarge(c *gin.Context) {
	Fail(c, http.StatusRequestEntityTooLarge, "업로드 가능한 파일 크기를 초과했습니다.")
}

func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
}
