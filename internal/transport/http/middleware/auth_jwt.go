package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"user-dashboard/internal/core/auth"
	resp "user-dashboard/internal/transport/http/response"
)

// 鉴权通过后写入 gin.Context 的 key，ez.Action 的 Auth/Roles 依赖它们
const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT 校验运维令牌；未配置密钥时整组接口关闭
func AuthJWT(j *auth.JWTer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !j.Enabled() {
			abort(c, resp.CodeForbidden, "admin api disabled")
			return
		}
		tok, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(tok)
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			abort(c, resp.CodeUnauthorized, "token expired")
			return
		case err != nil:
			abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if !claims.HasRole(roles...) {
			abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
