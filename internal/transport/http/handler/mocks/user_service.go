package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"user-dashboard/internal/domain"
	"user-dashboard/internal/feature/user"
)

// UserService testify 桩，实现 handler.UserService
type UserService struct {
	mock.Mock
}

func (m *UserService) List(ctx context.Context, f domain.Filter, page, limit int) (domain.UserList, error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(domain.UserList), args.Error(1)
}

func (m *UserService) Detail(ctx context.Context, id int) (domain.UserDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.UserDetail), args.Error(1)
}

func (m *UserService) Activities(ctx context.Context, id int) ([]domain.Activity, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.([]domain.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) Update(ctx context.Context, id int, p domain.UserPatch) (domain.User, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserService) Directory(ctx context.Context, page, perPage int) (domain.UserPage, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).(domain.UserPage), args.Error(1)
}

func (m *UserService) Analytics(ctx context.Context) (user.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(user.Report), args.Error(1)
}

func (m *UserService) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
