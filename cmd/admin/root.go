package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-dashboard/internal/app"
	"user-dashboard/internal/core/config"
	"user-dashboard/internal/core/logger"
	"user-dashboard/internal/service"
)

// env 子命令共享的依赖，在 PersistentPreRunE 中构建
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	svc     *service.UserService
	cleanup []func()
}

func (e *env) close() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
	e.cleanup = nil
}

// newRootCmd 返回的 close 释放子命令打开的缓存连接与日志，出错时也要调用
func newRootCmd() (*cobra.Command, func()) {
	var (
		cfgPath  string
		logLevel string
	)
	e := &env{}

	root := &cobra.Command{
		Use:          "admin",
		Short:        "Operator CLI for the user dashboard data service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				cfgPath = os.Getenv("CONFIG_PATH")
			}
			cfg, err := config.Read(cfgPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			// 日志走 stderr，stdout 只输出表格
			l, cleanup := logger.Build(logger.Options{
				Level:  logLevel,
				JSON:   cfg.Log.JSON,
				Output: zapcore.Lock(os.Stderr),
			})
			e.log = l
			e.cleanup = append(e.cleanup, cleanup)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ./configs/config.local.yaml or $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(
		newUsersCmd(e),
		newUserCmd(e),
		newDirectoryCmd(e),
		newAnalyticsCmd(e),
		newTokenCmd(e),
	)
	return root, e.close
}

// service 按需构建，token 子命令不需要
func (e *env) service(ctx context.Context) (*service.UserService, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	svc, closeSvc, err := app.NewUserService(ctx, e.cfg, e.log)
	if err != nil {
		return nil, err
	}
	e.svc = svc
	e.cleanup = append(e.cleanup, closeSvc)
	return svc, nil
}
