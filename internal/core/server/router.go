package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// HeaderRequestID 请求 ID 头，同时作为 gin.Context 中的 key
const HeaderRequestID = "X-Request-ID"

// quietPaths 探活与抓取指标不写访问日志
var quietPaths = []string{"/health", "/metrics"}

// NewRouter 基础引擎：zap 访问日志 + panic 恢复 + CORS（视图跑在另一个源上）
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.ContextWithFallback = true
	r.Use(ginzap.GinzapWithConfig(l, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  quietPaths,
		Context: func(c *gin.Context) []zapcore.Field {
			if rid := c.GetString(HeaderRequestID); rid != "" {
				return []zapcore.Field{zap.String("request_id", rid)}
			}
			return nil
		},
	}))
	r.Use(ginzap.RecoveryWithZap(l, true))
	r.Use(cors.New(corsConfig()))
	return r
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowMethods = []string{http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", HeaderRequestID)
	c.ExposeHeaders = []string{HeaderRequestID}
	return c
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration, errLog *log.Logger) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
		ErrorLog:       errLog,
	}
}

// Run 启动并阻塞到 ctx 结束，然后在 grace 内优雅关闭
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	l.Info("dashboard api started SUCCESS", zap.String("addr", srv.Addr))

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("dashboard api stopped gracefully")
	return nil
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
