package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-dashboard/internal/core/auth"
	"user-dashboard/internal/core/server"
	mdw "user-dashboard/internal/transport/http/middleware"
)

// Options 接口保护参数（来自配置 limits.*）
type Options struct {
	RPS            rate.Limit
	Burst          int
	AdminRPS       rate.Limit
	AdminBurst     int
	MaxInFlight    int64
	QueueWait      time.Duration
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		RPS:            200,
		Burst:          400,
		AdminRPS:       5,
		AdminBurst:     10,
		MaxInFlight:    300,
		QueueWait:      500 * time.Millisecond,
		MaxBodyBytes:   1 << 20,
		RequestTimeout: 15 * time.Second,
	}
}

// withDefaults 零值字段回落到默认值
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RPS <= 0 {
		o.RPS = d.RPS
	}
	if o.Burst <= 0 {
		o.Burst = d.Burst
	}
	if o.AdminRPS <= 0 {
		o.AdminRPS = d.AdminRPS
	}
	if o.AdminBurst <= 0 {
		o.AdminBurst = d.AdminBurst
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = d.MaxInFlight
	}
	if o.QueueWait <= 0 {
		o.QueueWait = d.QueueWait
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = d.MaxBodyBytes
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = d.RequestTimeout
	}
	return o
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, opt Options) *gin.Engine {
	opt = opt.withDefaults()
	r := server.NewRouter(l)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.SimpleRecovery(l),
		mdw.RateLimit(opt.RPS, opt.Burst),
		mdw.ConcurrencyLimit(opt.MaxInFlight, opt.QueueWait),
		mdw.MaxBodyBytes(opt.MaxBodyBytes),
		mdw.Timeout(opt.RequestTimeout),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 视图数据接口
	MountAllAPI(r.Group("/api/v1"))

	mountAdmin(r, jwter, opt)
	return r
}
