package repo

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"user-dashboard/internal/domain"
)

var fallbackTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "directory_fallback_total",
		Help: "Count of directory reads served by the fallback dataset",
	},
	[]string{"op"},
)

func init() { prometheus.MustRegister(fallbackTotal) }

// FallbackSource 先读 primary，任何失败都改由 secondary 应答。
// 两条路径返回结构一致，只在日志/指标里能区分。
type FallbackSource struct {
	primary   domain.UserSource
	secondary domain.UserSource
	log       *zap.Logger
}

func Fallback(primary, secondary domain.UserSource, l *zap.Logger) *FallbackSource {
	if l == nil {
		l = zap.NewNop()
	}
	return &FallbackSource{primary: primary, secondary: secondary, log: l}
}

// tryOrElse 组合两个读取函数
func tryOrElse[T any](
	f *FallbackSource,
	ctx context.Context,
	op string,
	primary func(context.Context) (T, error),
	secondary func(context.Context) (T, error),
) (T, error) {
	v, err := primary(ctx)
	if err == nil {
		return v, nil
	}
	f.log.Warn("directory unavailable, serving fallback dataset",
		zap.String("op", op), zap.Error(err))
	fallbackTotal.WithLabelValues(op).Inc()
	return secondary(ctx)
}

func (f *FallbackSource) FetchPage(ctx context.Context, page, perPage int) (domain.RawPage, error) {
	return tryOrElse(f, ctx, "page",
		func(ctx context.Context) (domain.RawPage, error) { return f.primary.FetchPage(ctx, page, perPage) },
		func(ctx context.Context) (domain.RawPage, error) { return f.secondary.FetchPage(ctx, page, perPage) },
	)
}

func (f *FallbackSource) FetchByID(ctx context.Context, id int) (domain.RawUser, error) {
	return tryOrElse(f, ctx, "by_id",
		func(ctx context.Context) (domain.RawUser, error) { return f.primary.FetchByID(ctx, id) },
		func(ctx context.Context) (domain.RawUser, error) { return f.secondary.FetchByID(ctx, id) },
	)
}

func (f *FallbackSource) FetchAll(ctx context.Context) ([]domain.RawUser, error) {
	return tryOrElse(f, ctx, "all", f.primary.FetchAll, f.secondary.FetchAll)
}
