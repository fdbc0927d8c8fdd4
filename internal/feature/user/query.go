package user

import (
	"cmp"
	"slices"
	"strings"

	"user-dashboard/internal/domain"
)

// Query 依次执行：关键字过滤 → 状态过滤 → 稳定排序。不修改入参。
func Query(users []domain.User, f domain.Filter) []domain.User {
	out := make([]domain.User, 0, len(users))
	needle := strings.ToLower(f.Search)
	for _, u := range users {
		if needle != "" && !matchesSearch(u, needle) {
			continue
		}
		if f.Status != "" && f.Status != domain.StatusAll && string(u.Status) != string(f.Status) {
			continue
		}
		out = append(out, u)
	}

	less := compareBy(f.SortBy)
	if f.SortOrder == domain.SortDesc {
		asc := less
		less = func(a, b domain.User) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, less)
	return out
}

func matchesSearch(u domain.User, needle string) bool {
	return strings.Contains(strings.ToLower(u.FirstName), needle) ||
		strings.Contains(strings.ToLower(u.LastName), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle)
}

func sortName(u domain.User) string { return strings.ToLower(u.FullName()) }

func compareBy(key domain.SortKey) func(a, b domain.User) int {
	if key == domain.SortByCreatedAt {
		return func(a, b domain.User) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	return func(a, b domain.User) int { return cmp.Compare(sortName(a), sortName(b)) }
}

// Paginate 取第 page 页（从 1 开始），越界返回空切片
func Paginate[T any](items []T, page, perPage int) ([]T, int) {
	if perPage <= 0 {
		return []T{}, 0
	}
	totalPages := TotalPages(len(items), perPage)
	start := clamp((page-1)*perPage, 0, len(items))
	end := clamp(page*perPage, start, len(items))
	return items[start:end:end], totalPages
}

func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
