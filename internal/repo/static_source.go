package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"user-dashboard/internal/domain"
)

//go:embed mock_users.json
var mockUsersJSON []byte

// StaticSource 内置的 50 条兜底用户（id 1..50），远端不可用时使用
type StaticSource struct {
	users []domain.RawUser
}

func NewStaticSource() *StaticSource {
	var us []domain.RawUser
	if err := json.Unmarshal(mockUsersJSON, &us); err != nil {
		panic(fmt.Sprintf("repo: embedded mock_users.json is invalid: %v", err))
	}
	return &StaticSource{users: us}
}

// NewStaticSourceFrom 用于测试或自定义数据集
func NewStaticSourceFrom(us []domain.RawUser) *StaticSource {
	return &StaticSource{users: append([]domain.RawUser(nil), us...)}
}

func (s *StaticSource) FetchPage(_ context.Context, page, perPage int) (domain.RawPage, error) {
	out := domain.RawPage{
		Page:    page,
		PerPage: perPage,
		Total:   len(s.users),
		Data:    []domain.RawUser{},
	}
	if perPage <= 0 {
		return out, nil
	}
	out.TotalPages = (len(s.users) + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	start = max(0, min(start, len(s.users)))
	end = max(start, min(end, len(s.users)))
	out.Data = append(out.Data, s.users[start:end]...)
	return out, nil
}

func (s *StaticSource) FetchByID(_ context.Context, id int) (domain.RawUser, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.RawUser{}, fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
}

func (s *StaticSource) FetchAll(_ context.Context) ([]domain.RawUser, error) {
	return append([]domain.RawUser(nil), s.users...), nil
}
