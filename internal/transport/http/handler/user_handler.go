package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"user-dashboard/internal/core/auth"
	"user-dashboard/internal/domain"
	"user-dashboard/internal/feature/user"
	httpez "user-dashboard/internal/transport/http/ez"
)

// UserService 视图所需的数据操作
type UserService interface {
	List(ctx context.Context, f domain.Filter, page, limit int) (domain.UserList, error)
	Detail(ctx context.Context, id int) (domain.UserDetail, error)
	Activities(ctx context.Context, id int) ([]domain.Activity, error)
	Update(ctx context.Context, id int, p domain.UserPatch) (domain.User, error)
	Directory(ctx context.Context, page, perPage int) (domain.UserPage, error)
	Analytics(ctx context.Context) (user.Report, error)
	Refresh(ctx context.Context) error
}

type UserHandler struct {
	svc          UserService
	itemsPerPage int
}

func NewUserHandler(svc UserService, itemsPerPage int) *UserHandler {
	if itemsPerPage <= 0 {
		itemsPerPage = 6
	}
	return &UserHandler{svc: svc, itemsPerPage: itemsPerPage}
}

func (h *UserHandler) Priority() int { return 10 }

type listQ struct {
	Search    string `form:"search"`
	Status    string `form:"status,default=all"     binding:"oneof=all active inactive"`
	SortBy    string `form:"sort_by,default=name"    binding:"oneof=name createdAt"`
	SortOrder string `form:"sort_order,default=asc"  binding:"oneof=asc desc"`
	Page      int    `form:"page,default=1"          binding:"min=1"`
	Limit     int    `form:"limit"                   binding:"min=0,max=100"`
}

type directoryQ struct {
	Page    int `form:"page,default=1"    binding:"min=1"`
	PerPage int `form:"per_page,default=6" binding:"min=1,max=100"`
}

type editIn struct {
	FirstName string `json:"first_name" binding:"required,min=2"`
	LastName  string `json:"last_name"  binding:"required,min=2"`
	Status    string `json:"status"     binding:"required,oneof=active inactive"`
}

// MountAPI 挂载到 /api/v1
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	// --- GET /api/v1/users  列表（搜索/状态/排序/分页） ---
	httpez.RegisterAction(ez, httpez.Action[listQ, domain.UserList]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (domain.UserList, error) {
			limit := in.Limit
			if limit == 0 {
				limit = h.itemsPerPage
			}
			f := domain.Filter{
				Search:    in.Search,
				Status:    domain.StatusFilter(in.Status),
				SortBy:    domain.SortKey(in.SortBy),
				SortOrder: domain.SortOrder(in.SortOrder),
			}
			out, err := h.svc.List(c.Request.Context(), f, in.Page, limit)
			if err != nil {
				return domain.UserList{}, mapErr("list users failed", err)
			}
			return out, nil
		},
	})

	// --- GET /api/v1/users/:id  详情 + 活动 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, domain.UserDetail]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.UserDetail, error) {
			id, err := httpez.ParamInt(c, "id")
			if err != nil {
				return domain.UserDetail{}, err
			}
			out, err := h.svc.Detail(c.Request.Context(), id)
			if err != nil {
				return domain.UserDetail{}, mapErr("get user failed", err)
			}
			return out, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Activity]{
		Method: http.MethodGet,
		Path:   "/users/:id/activities",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Activity, error) {
			id, err := httpez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			out, err := h.svc.Activities(c.Request.Context(), id)
			if err != nil {
				return nil, mapErr("list activities failed", err)
			}
			return out, nil
		},
	})

	// --- PATCH /api/v1/users/:id  本地编辑，不回写数据源 ---
	httpez.RegisterAction(ez, httpez.Action[editIn, domain.User]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *editIn) (domain.User, error) {
			id, err := httpez.ParamInt(c, "id")
			if err != nil {
				return domain.User{}, err
			}
			first := strings.TrimSpace(in.FirstName)
			last := strings.TrimSpace(in.LastName)
			if utf8.RuneCountInString(first) < 2 || utf8.RuneCountInString(last) < 2 {
				return domain.User{}, httpez.BadRequest("names must be at least 2 characters")
			}
			st := domain.Status(in.Status)
			out, err := h.svc.Update(c.Request.Context(), id, domain.UserPatch{
				FirstName: &first,
				LastName:  &last,
				Status:    &st,
			})
			if err != nil {
				return domain.User{}, mapErr("update user failed", err)
			}
			return out, nil
		},
	})

	// --- GET /api/v1/directory  远端分页透传 ---
	httpez.RegisterAction(ez, httpez.Action[directoryQ, domain.UserPage]{
		Method: http.MethodGet,
		Path:   "/directory",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *directoryQ) (domain.UserPage, error) {
			out, err := h.svc.Directory(c.Request.Context(), in.Page, in.PerPage)
			if err != nil {
				return domain.UserPage{}, mapErr("read directory failed", err)
			}
			return out, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, user.Report]{
		Method: http.MethodGet,
		Path:   "/analytics",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (user.Report, error) {
			out, err := h.svc.Analytics(c.Request.Context())
			if err != nil {
				return user.Report{}, mapErr("build analytics failed", err)
			}
			return out, nil
		},
	})
}

// MountAdmin 挂载到 /admin/v1（分组已走 AuthJWT("admin")）
func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/cache/refresh",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{auth.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.svc.Refresh(c.Request.Context()); err != nil {
				return nil, httpez.Internal("refresh cache failed", err)
			}
			return gin.H{"refreshed": true}, nil
		},
	})
}

func mapErr(msg string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return httpez.NotFound("user not found")
	}
	return httpez.Internal(msg, err)
}
