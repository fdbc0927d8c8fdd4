package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "user-dashboard/internal/transport/http/response"
)

// SimpleRecovery 把 handler 的 panic 转成统一响应，视图层总能拿到结构化结果
func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("handler panic",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.String("request_id", RequestIDOf(c)),
				)
				abort(c, resp.CodeServerError, "internal error")
			}
		}()
		c.Next()
	}
}
