package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-dashboard/internal/core/server"
)

const KeyRequestID = server.HeaderRequestID

// RequestID 透传或生成请求 ID，写回响应头，并供访问日志/恢复日志使用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(KeyRequestID, rid)
		c.Header(KeyRequestID, rid)
		c.Next()
	}
}

func RequestIDOf(c *gin.Context) string { return c.GetString(KeyRequestID) }
