package user

import (
	"time"

	"user-dashboard/internal/domain"
)

// Clock 可注入的当前时间
type Clock func() time.Time

// Enhancer 为原始记录补充 status/createdAt/lastActive，三个字段只取决于 id
type Enhancer struct {
	Now Clock
}

func NewEnhancer(now Clock) *Enhancer {
	if now == nil {
		now = time.Now
	}
	return &Enhancer{Now: now}
}

func StatusOf(id int) domain.Status {
	if id%3 == 0 {
		return domain.StatusInactive
	}
	return domain.StatusActive
}

// daysAgo 按日历日回退（AddDate），不是 24h 的整数倍
func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func createdOffset(id int) int    { return posMod(id*7, 365) }
func lastActiveOffset(id int) int { return posMod(id*3, 30) }

func (e *Enhancer) Enhance(u domain.RawUser) domain.User {
	now := e.Now()
	return domain.User{
		RawUser:    u,
		Status:     StatusOf(u.ID),
		CreatedAt:  daysAgo(now, createdOffset(u.ID)),
		LastActive: daysAgo(now, lastActiveOffset(u.ID)),
	}
}

func (e *Enhancer) EnhanceAll(us []domain.RawUser) []domain.User {
	out := make([]domain.User, 0, len(us))
	for _, u := range us {
		out = append(out, e.Enhance(u))
	}
	return out
}

func posMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
