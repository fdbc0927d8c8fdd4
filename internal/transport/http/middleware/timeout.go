package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	resp "user-dashboard/internal/transport/http/response"
)

// Timeout 给请求上下文加截止时间；远端目录读取与兜底都在这个预算内完成
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			abort(c, resp.CodeTimeout, "request timed out")
		}
	}
}
