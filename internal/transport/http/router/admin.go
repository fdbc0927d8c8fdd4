package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"user-dashboard/internal/core/auth"
	mdw "user-dashboard/internal/transport/http/middleware"
)

// mountAdmin 运维接口 /admin/v1：单 IP 低速率 + admin 令牌
func mountAdmin(r *gin.Engine, jwter *auth.JWTer, opt Options) {
	admin := r.Group("/admin/v1",
		mdw.RateLimitPerIP(opt.AdminRPS, opt.AdminBurst, 10*time.Minute),
		mdw.AuthJWT(jwter, auth.RoleAdmin),
	)
	MountAllAdmin(admin)
}
