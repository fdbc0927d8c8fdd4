package user

import "math/rand"

// Rand 展示用的随机数来源（小时数、统计数字等），测试中替换为固定值
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// DefaultRand 使用 math/rand 的全局源
func DefaultRand() Rand { return globalRand{} }

// between 返回 [lo, hi) 内的随机整数
func between(r Rand, lo, hi int) int { return lo + r.IntN(hi-lo) }
