package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"user-dashboard/internal/core/cache"
	"user-dashboard/internal/domain"
	"user-dashboard/internal/feature/user"
)

const (
	DefaultTTL       = 5 * time.Minute
	DefaultRetries   = 1
	DefaultKeyPrefix = "dash:"
)

type Option func(*UserService)

func WithTTL(d time.Duration) Option { return func(s *UserService) { s.ttl = d } }

// WithRetries 回源失败后的重试次数（不含首次）
func WithRetries(n uint64) Option { return func(s *UserService) { s.retries = n } }

func WithRetryInterval(d time.Duration) Option { return func(s *UserService) { s.retryInterval = d } }

func WithKeyPrefix(p string) Option { return func(s *UserService) { s.prefix = p } }

func WithLogger(l *zap.Logger) Option { return func(s *UserService) { s.log = l } }

func WithSynthesizer(sy *user.Synthesizer) Option { return func(s *UserService) { s.synth = sy } }

func WithAnalytics(a *user.Analytics) Option { return func(s *UserService) { s.analytics = a } }

// UserService 给各视图提供数据：带 TTL 缓存的网关读取 + 列表管道 + 本地编辑。
// 编辑只改缓存副本，缓存过期或刷新后以数据源为准。
type UserService struct {
	gw        *user.Gateway
	store     cache.Store
	synth     *user.Synthesizer
	analytics *user.Analytics
	log       *zap.Logger

	ttl           time.Duration
	retries       uint64
	retryInterval time.Duration
	prefix        string
}

func NewUserService(gw *user.Gateway, store cache.Store, opts ...Option) *UserService {
	s := &UserService{
		gw:            gw,
		store:         store,
		ttl:           DefaultTTL,
		retries:       DefaultRetries,
		retryInterval: 200 * time.Millisecond,
		prefix:        DefaultKeyPrefix,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.synth == nil {
		s.synth = user.NewSynthesizer(nil, nil)
	}
	if s.analytics == nil {
		s.analytics = user.NewAnalytics(nil, nil)
	}
	return s
}

func (s *UserService) keyAll() string        { return s.prefix + "users:all" }
func (s *UserService) keyUser(id int) string { return fmt.Sprintf("%suser:%d", s.prefix, id) }
func (s *UserService) keyPage(p, pp int) string {
	return fmt.Sprintf("%sdirectory:%d:%d", s.prefix, p, pp)
}

// retry 失败重试 s.retries 次；NotFound 不重试
func (s *UserService) retry(ctx context.Context, op func() error) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryInterval), s.retries), ctx)
	return backoff.Retry(func() error {
		err := op()
		if errors.Is(err, domain.ErrUserNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func loader[T any](s *UserService, fetch func(context.Context) (T, error)) func(context.Context) (*T, error) {
	return func(ctx context.Context) (*T, error) {
		var v T
		err := s.retry(ctx, func() error {
			var e error
			v, e = fetch(ctx)
			return e
		})
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

func (s *UserService) All(ctx context.Context) ([]domain.User, error) {
	us, err := cache.GetOrLoadJSON(s.store, ctx, s.keyAll(), s.ttl, loader(s, s.gw.All))
	if err != nil {
		return nil, err
	}
	if us == nil || *us == nil {
		return []domain.User{}, nil
	}
	return *us, nil
}

func (s *UserService) Get(ctx context.Context, id int) (domain.User, error) {
	u, err := cache.GetOrLoadJSON(s.store, ctx, s.keyUser(id), s.ttl,
		loader(s, func(ctx context.Context) (domain.User, error) { return s.gw.ByID(ctx, id) }))
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}

func (s *UserService) Directory(ctx context.Context, page, perPage int) (domain.UserPage, error) {
	p, err := cache.GetOrLoadJSON(s.store, ctx, s.keyPage(page, perPage), s.ttl,
		loader(s, func(ctx context.Context) (domain.UserPage, error) { return s.gw.Page(ctx, page, perPage) }))
	if err != nil {
		return domain.UserPage{}, err
	}
	return *p, nil
}

// List 列表页：全量（缓存）→ 过滤/排序 → 分页
func (s *UserService) List(ctx context.Context, f domain.Filter, page, limit int) (domain.UserList, error) {
	all, err := s.All(ctx)
	if err != nil {
		return domain.UserList{}, err
	}
	matched := user.Query(all, f)
	items, totalPages := user.Paginate(matched, page, limit)
	return domain.UserList{
		Items:      items,
		Total:      len(matched),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *UserService) Detail(ctx context.Context, id int) (domain.UserDetail, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return domain.UserDetail{}, err
	}
	acts := s.synth.Synthesize(u.ID)
	return domain.UserDetail{
		User:       u,
		Activities: acts,
		Summary:    s.synth.Summary(acts),
	}, nil
}

func (s *UserService) Activities(ctx context.Context, id int) ([]domain.Activity, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.synth.Synthesize(u.ID), nil
}

// Update 本地编辑：同时改 user:{id} 与 users:all 中的对应项，不回写数据源
func (s *UserService) Update(ctx context.Context, id int, p domain.UserPatch) (domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	p.Apply(&u)

	if _, err := cache.UpdateJSON(s.store, ctx, s.keyUser(id), func(v *domain.User) error {
		p.Apply(v)
		return nil
	}); err != nil {
		return domain.User{}, fmt.Errorf("patch cached user %d: %w", id, err)
	}
	if _, err := cache.UpdateJSON(s.store, ctx, s.keyAll(), func(vs *[]domain.User) error {
		for i := range *vs {
			if (*vs)[i].ID == id {
				p.Apply(&(*vs)[i])
			}
		}
		return nil
	}); err != nil {
		return domain.User{}, fmt.Errorf("patch cached user list: %w", err)
	}

	s.log.Info("user edited locally", zap.Int("id", id), zap.String("status", string(u.Status)))
	return u, nil
}

func (s *UserService) Analytics(ctx context.Context) (user.Report, error) {
	all, err := s.All(ctx)
	if err != nil {
		return user.Report{}, err
	}
	return s.analytics.Build(all), nil
}

// Refresh 丢弃全部缓存，下次读取重新回源
func (s *UserService) Refresh(ctx context.Context) error {
	if err := s.store.DeletePrefix(ctx, s.prefix); err != nil {
		return err
	}
	s.log.Info("user cache refreshed")
	return nil
}
