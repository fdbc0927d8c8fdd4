package user

import (
	"fmt"
	"time"

	"user-dashboard/internal/domain"
)

// fixedRand 按顺序循环返回 vals（对 n 取模）
type fixedRand struct {
	vals []int
	i    int
}

func (r *fixedRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

var testNow = time.Date(2026, time.March, 29, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func raw(id int, first, last string) domain.RawUser {
	return domain.RawUser{
		ID:        id,
		Email:     fmt.Sprintf("%s.%s@example.com", first, last),
		FirstName: first,
		LastName:  last,
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?img=%d", id),
	}
}

func decorate(rs ...domain.RawUser) []domain.User {
	return NewEnhancer(fixedClock).EnhanceAll(rs)
}

func ids(us []domain.User) []int {
	out := make([]int, 0, len(us))
	for _, u := range us {
		out = append(out, u.ID)
	}
	return out
}
