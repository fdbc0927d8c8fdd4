package cache

import (
	"context"
	"time"
)

// Store 带 TTL 的缓存（redis 或进程内）
type Store interface {
	// GetOrLoad 命中直接返回；未命中时合并并发回源并按 ttl 写入
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
	// Update 原地改写并保留剩余 TTL；key 不存在时返回 false
	Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) (bool, error)
	DeletePrefix(ctx context.Context, prefix string) error
}
