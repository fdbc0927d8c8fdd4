package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound 唯一会透传给调用方的错误（远端与兜底数据都找不到）
var ErrUserNotFound = errors.New("user not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// RawUser 远端原始记录，JSON 字段名需与远端保持一致
type RawUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// User 带派生字段的记录（status/createdAt/lastActive 仅由 id 推导）
type User struct {
	RawUser
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

func (u User) FullName() string { return u.FirstName + " " + u.LastName }

type RawPage struct {
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Data       []RawUser `json:"data"`
}

type UserPage struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

type Activity struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

type ActivitySummary struct {
	TotalActions int `json:"totalActions"`
	FilesShared  int `json:"filesShared"`
	Comments     int `json:"comments"`
	Reports      int `json:"reports"`
}

type UserDetail struct {
	User       User            `json:"user"`
	Activities []Activity      `json:"activities"`
	Summary    ActivitySummary `json:"summary"`
}

type StatusFilter string

const (
	StatusAll            StatusFilter = "all"
	StatusFilterActive   StatusFilter = "active"
	StatusFilterInactive StatusFilter = "inactive"
)

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByCreatedAt SortKey = "createdAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter 列表页的筛选/排序条件
type Filter struct {
	Search    string
	Status    StatusFilter
	SortBy    SortKey
	SortOrder SortOrder
}

type UserList struct {
	Items      []User `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// UserPatch 本地编辑，nil 字段不修改
type UserPatch struct {
	FirstName *string
	LastName  *string
	Status    *Status
}

func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}

// UserSource 原始用户数据来源（远端 API / 内置兜底数据）
type UserSource interface {
	FetchPage(ctx context.Context, page, perPage int) (RawPage, error)
	FetchByID(ctx context.Context, id int) (RawUser, error)
	FetchAll(ctx context.Context) ([]RawUser, error)
}
