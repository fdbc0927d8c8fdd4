package router

import (
	"cmp"
	"slices"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule 挂到 /api/v1；AdminModule 挂到 /admin/v1。一个模块可同时实现两者。
type (
	APIModule   interface{ MountAPI(*gin.RouterGroup) }
	AdminModule interface{ MountAdmin(*gin.RouterGroup) }
)

// 实现该接口可控制挂载顺序（数值越小越先挂），不实现则默认 100
type prioritizer interface{ Priority() int }

const defaultPriority = 100

var (
	mu      sync.RWMutex
	modules []any
)

// Register 注册模块，main 中调用，NewAPIEngine 时统一挂载
func Register(mod any) {
	mu.Lock()
	defer mu.Unlock()
	modules = append(modules, mod)
}

// Reset 清空已注册模块（测试用）
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	modules = nil
}

func MountAllAPI(api *gin.RouterGroup) {
	for _, m := range registered[APIModule]() {
		m.MountAPI(api)
	}
}

func MountAllAdmin(admin *gin.RouterGroup) {
	for _, m := range registered[AdminModule]() {
		m.MountAdmin(admin)
	}
}

// registered 取出实现了 T 的模块，按优先级稳定排序
func registered[T any]() []T {
	mu.RLock()
	defer mu.RUnlock()

	var out []T
	for _, m := range modules {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(priorityOf(a), priorityOf(b))
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return defaultPriority
}
