package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "user-dashboard/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护远端目录服务），排队最多 wait
func ConcurrencyLimit(max int64, wait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		err := sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			abort(c, resp.CodeTooManyRequests, "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
