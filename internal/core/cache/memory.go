package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// MemoryCache 进程内缓存，未配置 redis 时使用
type MemoryCache struct {
	c  *gocache.Cache
	sf singleflight.Group
	mu sync.Mutex // 串行化 Update
}

func NewMemory(defaultTTL, cleanup time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, cleanup)}
}

func (m *MemoryCache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok := m.c.Get(key); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	v, err, _ := m.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		m.c.Set(key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (m *MemoryCache) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, exp, ok := m.c.GetWithExpiration(key)
	if !ok {
		return false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return false, nil
	}
	ttl := gocache.NoExpiration
	if !exp.IsZero() {
		ttl = time.Until(exp)
		if ttl <= 0 {
			return false, nil
		}
	}
	nb, err := fn(b)
	if err != nil {
		return false, err
	}
	m.c.Set(key, nb, ttl)
	return true, nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range m.c.Items() {
		if strings.HasPrefix(k, prefix) {
			m.c.Delete(k)
		}
	}
	return nil
}
