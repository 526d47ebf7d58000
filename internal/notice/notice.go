// Package notice 实现重定向后只显示一次的提示消息。
//
// 每个浏览器会话由 Cookie 中的随机 ID 标识，消息按会话排队，
// 读取即清空。
package notice

import (
	"context"
	"net/http"

	"bdeo/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CookieName 会话 Cookie 名
	CookieName = "bdeo_session"

	contextKeySession = "noticeSessionID"
	contextKeyStore   = "noticeStore"
)

// Store 按会话排队的提示消息
type Store interface {
	Push(ctx context.Context, sessionID, message string) error
	// Pop 返回并清空该会话的全部消息
	Pop(ctx context.Context, sessionID string) ([]string, error)
}

// Middleware 为请求绑定会话 ID，没有合法 Cookie 时签发新的
func Middleware(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(CookieName)
		if err != nil || !validSessionID(sessionID) {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, sessionID, 0, "/", "", false, true)
		}

		c.Set(contextKeySession, sessionID)
		c.Set(contextKeyStore, store)
		c.Next()
	}
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func fromContext(c *gin.Context) (Store, string, bool) {
	store, ok := c.Get(contextKeyStore)
	if !ok {
		return nil, "", false
	}
	s, ok := store.(Store)
	if !ok {
		return nil, "", false
	}
	return s, c.GetString(contextKeySession), true
}

// Add 追加一条提示消息，失败只记录日志
func Add(c *gin.Context, message string) {
	store, sessionID, ok := fromContext(c)
	if !ok {
		return
	}
	if err := store.Push(c.Request.Context(), sessionID, message); err != nil {
		logger.Warn("Push notice failed", zap.String("session", sessionID), zap.Error(err))
	}
}

// Consume 取出当前会话的全部提示消息
func Consume(c *gin.Context) []string {
	store, sessionID, ok := fromContext(c)
	if !ok {
		return nil
	}
	messages, err := store.Pop(c.Request.Context(), sessionID)
	if err != nil {
		logger.Warn("Pop notices failed", zap.String("session", sessionID), zap.Error(err))
		return nil
	}
	return messages
}
