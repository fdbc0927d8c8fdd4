package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"user-dashboard/internal/domain"
	"user-dashboard/internal/feature/user"
	"user-dashboard/internal/transport/http/handler"
	"user-dashboard/internal/transport/http/handler/mocks"
	mdw "user-dashboard/internal/transport/http/middleware"
	resp "user-dashboard/internal/transport/http/response"
)

type envelope = resp.Envelope[json.RawMessage]

func init() { gin.SetMode(gin.TestMode) }

func setup(t *testing.T) (*gin.Engine, *mocks.UserService) {
	t.Helper()
	svc := &mocks.UserService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	h := handler.NewUserHandler(svc, 6)
	r := gin.New()
	h.MountAPI(r.Group("/api/v1"))

	admin := r.Group("/admin/v1", func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(mdw.KeyUserID, "tester")
			c.Set(mdw.KeyRole, role)
		}
	})
	h.MountAdmin(admin)
	return r, svc
}

func do(t *testing.T, r http.Handler, method, target, body string, hdr ...string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListUsers(t *testing.T) {
	r, svc := setup(t)
	want := domain.UserList{
		Items:      []domain.User{{RawUser: domain.RawUser{ID: 2, FirstName: "Priya"}, Status: domain.StatusActive}},
		Total:      1,
		Page:       2,
		Limit:      6,
		TotalPages: 1,
	}
	svc.On("List", mock.Anything, domain.Filter{
		Search:    " pri ",
		Status:    domain.StatusFilterActive,
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
	}, 2, 6).Return(want, nil).Once()

	env := do(t, r, http.MethodGet, "/api/v1/users?search=%20pri%20&status=active&sort_by=createdAt&sort_order=desc&page=2", "")
	require.Equal(t, 0, env.Code)

	var got domain.UserList
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 2, got.Items[0].ID)
}

func TestListUsers_Defaults(t *testing.T) {
	r, svc := setup(t)
	svc.On("List", mock.Anything, domain.Filter{
		Status:    domain.StatusAll,
		SortBy:    domain.SortByName,
		SortOrder: domain.SortAsc,
	}, 1, 6).Return(domain.UserList{Items: []domain.User{}, Page: 1, Limit: 6}, nil).Once()

	env := do(t, r, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, 0, env.Code)
}

func TestListUsers_BadQuery(t *testing.T) {
	r, _ := setup(t)

	for _, q := range []string{"status=pending", "sort_by=email", "sort_order=up", "page=0", "limit=1000"} {
		env := do(t, r, http.MethodGet, "/api/v1/users?"+q, "")
		assert.Equal(t, 400, env.Code, q)
	}
}

func TestUserDetail(t *testing.T) {
	r, svc := setup(t)
	svc.On("Detail", mock.Anything, 4).Return(domain.UserDetail{
		User:       domain.User{RawUser: domain.RawUser{ID: 4}},
		Activities: []domain.Activity{{ID: "activity-4-0", Action: "Shared file"}},
		Summary:    domain.ActivitySummary{TotalActions: 1},
	}, nil).Once()
	svc.On("Detail", mock.Anything, 999).Return(domain.UserDetail{}, domain.ErrUserNotFound).Once()
	svc.On("Detail", mock.Anything, 5).Return(domain.UserDetail{}, errors.New("cache down")).Once()
	svc.On("Detail", mock.Anything, 0).Return(domain.UserDetail{}, domain.ErrUserNotFound).Once()
	svc.On("Detail", mock.Anything, -3).Return(domain.UserDetail{}, domain.ErrUserNotFound).Once()

	env := do(t, r, http.MethodGet, "/api/v1/users/4", "")
	require.Equal(t, 0, env.Code)
	var d domain.UserDetail
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, "activity-4-0", d.Activities[0].ID)

	env = do(t, r, http.MethodGet, "/api/v1/users/999", "")
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, "user not found", env.Msg)

	env = do(t, r, http.MethodGet, "/api/v1/users/5", "")
	assert.Equal(t, 500, env.Code)

	env = do(t, r, http.MethodGet, "/api/v1/users/0", "")
	assert.Equal(t, 404, env.Code)
	env = do(t, r, http.MethodGet, "/api/v1/users/-3", "")
	assert.Equal(t, 404, env.Code)

	env = do(t, r, http.MethodGet, "/api/v1/users/abc", "")
	assert.Equal(t, 400, env.Code)
}

func TestUserActivities(t *testing.T) {
	r, svc := setup(t)
	svc.On("Activities", mock.Anything, 3).Return([]domain.Activity{{ID: "activity-3-0"}, {ID: "activity-3-1"}}, nil).Once()
	svc.On("Activities", mock.Anything, 77).Return(nil, domain.ErrUserNotFound).Once()

	env := do(t, r, http.MethodGet, "/api/v1/users/3/activities", "")
	require.Equal(t, 0, env.Code)
	var acts []domain.Activity
	require.NoError(t, json.Unmarshal(env.Data, &acts))
	assert.Len(t, acts, 2)

	env = do(t, r, http.MethodGet, "/api/v1/users/77/activities", "")
	assert.Equal(t, 404, env.Code)
}

func TestEditUser(t *testing.T) {
	r, svc := setup(t)
	first, last, st := "Ravi", "Shah", domain.StatusInactive
	svc.On("Update", mock.Anything, 4, domain.UserPatch{FirstName: &first, LastName: &last, Status: &st}).
		Return(domain.User{RawUser: domain.RawUser{ID: 4, FirstName: first, LastName: last}, Status: st}, nil).Once()

	env := do(t, r, http.MethodPatch, "/api/v1/users/4", `{"first_name":" Ravi ","last_name":"Shah","status":"inactive"}`)
	require.Equal(t, 0, env.Code)
	var u domain.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "Ravi", u.FirstName)
	assert.Equal(t, domain.StatusInactive, u.Status)
}

func TestEditUser_Validation(t *testing.T) {
	r, _ := setup(t)

	bodies := []string{
		`{"first_name":"R","last_name":"Shah","status":"active"}`,
		`{"first_name":"Ravi","last_name":"Shah","status":"pending"}`,
		`{"first_name":"Ravi","status":"active"}`,
		`{"first_name":" R ","last_name":"Shah","status":"active"}`,
		`{"first_name":"李 ","last_name":"Shah","status":"active"}`,
		`not json`,
	}
	for _, b := range bodies {
		env := do(t, r, http.MethodPatch, "/api/v1/users/4", b)
		assert.Equal(t, 400, env.Code, b)
	}
}

func TestDirectory(t *testing.T) {
	r, svc := setup(t)
	svc.On("Directory", mock.Anything, 1, 6).Return(domain.UserPage{Page: 1, PerPage: 6, Total: 12, TotalPages: 2, Data: []domain.User{}}, nil).Once()
	svc.On("Directory", mock.Anything, 3, 4).Return(domain.UserPage{Page: 3, PerPage: 4, Total: 12, TotalPages: 3, Data: []domain.User{}}, nil).Once()

	env := do(t, r, http.MethodGet, "/api/v1/directory", "")
	require.Equal(t, 0, env.Code)
	var p domain.UserPage
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 2, p.TotalPages)

	env = do(t, r, http.MethodGet, "/api/v1/directory?page=3&per_page=4", "")
	require.Equal(t, 0, env.Code)
}

func TestAnalytics(t *testing.T) {
	r, svc := setup(t)
	svc.On("Analytics", mock.Anything).Return(user.Report{
		Stats: user.Stats{TotalUsers: 50, ActiveUsers: 34, InactiveUsers: 16, GrowthRate: user.GrowthRate},
	}, nil).Once()

	env := do(t, r, http.MethodGet, "/api/v1/analytics", "")
	require.Equal(t, 0, env.Code)
	var rep user.Report
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.Equal(t, 34, rep.Stats.ActiveUsers)
}

func TestRefreshCache(t *testing.T) {
	r, svc := setup(t)
	svc.On("Refresh", mock.Anything).Return(nil).Once()

	env := do(t, r, http.MethodPost, "/admin/v1/cache/refresh", "")
	assert.Equal(t, 401, env.Code)

	env = do(t, r, http.MethodPost, "/admin/v1/cache/refresh", "", "X-Test-Role", "viewer")
	assert.Equal(t, 403, env.Code)

	env = do(t, r, http.MethodPost, "/admin/v1/cache/refresh", "", "X-Test-Role", "admin")
	assert.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"refreshed":true}`, string(env.Data))
}
