package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "user-dashboard/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小（编辑表单只有三个字段）。
// 声明了过大 Content-Length 的直接拒绝，其余由 MaxBytesReader 在读取时截断。
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			abort(c, resp.CodeBadRequest, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
