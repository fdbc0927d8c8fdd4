package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-dashboard/internal/core/auth"
	"user-dashboard/internal/core/cache"
	"user-dashboard/internal/core/config"
	"user-dashboard/internal/feature/user"
	"user-dashboard/internal/repo"
	"user-dashboard/internal/service"
	"user-dashboard/internal/transport/http/router"
)

// NewStore 按 cache.driver 选择 redis 或进程内缓存
func NewStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (cache.Store, func(), error) {
	switch cfg.Cache.Driver {
	case "redis":
		rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.RDB.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		l.Info("cache ready", zap.String("driver", "redis"), zap.String("addr", cfg.Redis.Addr))
		return rc, func() { _ = rc.Close() }, nil
	case "", "memory":
		l.Info("cache ready", zap.String("driver", "memory"))
		return cache.NewMemory(cfg.Cache.TTL(), 10*time.Minute), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

// NewGateway 远端目录 + 内置兜底数据
func NewGateway(cfg *config.Config, l *zap.Logger) *user.Gateway {
	remote := repo.NewRemoteSource(repo.RemoteOptions{
		BaseURL:    cfg.Directory.BaseURL,
		APIKey:     cfg.Directory.APIKey,
		Timeout:    cfg.Directory.Timeout(),
		AllPerPage: cfg.Directory.AllPerPage,
	})
	src := repo.Fallback(remote, repo.NewStaticSource(), l)
	return user.NewGateway(src, user.NewEnhancer(nil))
}

func NewUserService(ctx context.Context, cfg *config.Config, l *zap.Logger) (*service.UserService, func(), error) {
	store, closeStore, err := NewStore(ctx, cfg, l)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewUserService(NewGateway(cfg, l), store,
		service.WithTTL(cfg.Cache.TTL()),
		service.WithRetries(uint64(max(0, cfg.Cache.Retries))),
		service.WithLogger(l),
		service.WithKeyPrefix(cfg.Cache.KeyPrefix),
	)
	return svc, closeStore, nil
}

func NewJWTer(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
}

func RouterOptions(cfg *config.Config) router.Options {
	l := cfg.Limits
	return router.Options{
		RPS:            rate.Limit(l.RPS),
		Burst:          l.Burst,
		AdminRPS:       rate.Limit(l.AdminRPS),
		AdminBurst:     l.AdminBurst,
		MaxInFlight:    l.MaxInFlight,
		QueueWait:      l.QueueWait(),
		MaxBodyBytes:   l.MaxBodyBytes,
		RequestTimeout: l.RequestTimeout(),
	}
}
