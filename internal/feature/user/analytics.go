package user

import (
	"time"

	"user-dashboard/internal/domain"
)

const (
	TrendDays  = 7
	GrowthRate = "+12.5%"

	colorActive   = "#10b981"
	colorInactive = "#ef4444"
)

type Stats struct {
	TotalUsers    int    `json:"totalUsers"`
	ActiveUsers   int    `json:"activeUsers"`
	InactiveUsers int    `json:"inactiveUsers"`
	GrowthRate    string `json:"growthRate"`
}

type StatusSlice struct {
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Signups int    `json:"signups"`
}

type Report struct {
	Stats       Stats         `json:"stats"`
	StatusData  []StatusSlice `json:"statusData"`
	SignupTrend []TrendPoint  `json:"signupTrend"`
}

// Analytics 统计页数据；趋势线的注册数是展示用随机值
type Analytics struct {
	Now  Clock
	Rand Rand
}

func NewAnalytics(now Clock, r Rand) *Analytics {
	if now == nil {
		now = time.Now
	}
	if r == nil {
		r = DefaultRand()
	}
	return &Analytics{Now: now, Rand: r}
}

func (a *Analytics) Build(users []domain.User) Report {
	active, inactive := CountByStatus(users)
	total := len(users)
	return Report{
		Stats: Stats{
			TotalUsers:    total,
			ActiveUsers:   active,
			InactiveUsers: inactive,
			GrowthRate:    GrowthRate,
		},
		StatusData: []StatusSlice{
			{Name: "Active", Value: active, Percent: percent(active, active+inactive), Color: colorActive},
			{Name: "Inactive", Value: inactive, Percent: percent(inactive, active+inactive), Color: colorInactive},
		},
		SignupTrend: a.trend(),
	}
}

func (a *Analytics) trend() []TrendPoint {
	now := a.Now()
	out := make([]TrendPoint, 0, TrendDays)
	for i := 0; i < TrendDays; i++ {
		d := daysAgo(now, TrendDays-1-i)
		out = append(out, TrendPoint{
			Date:    d.Format("Jan 2"),
			Signups: between(a.Rand, 5, 15),
		})
	}
	return out
}

func CountByStatus(users []domain.User) (active, inactive int) {
	for _, u := range users {
		switch u.Status {
		case domain.StatusActive:
			active++
		case domain.StatusInactive:
			inactive++
		}
	}
	return active, inactive
}

// percent 四舍五入到整数
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return (part*200 + whole) / (whole * 2)
}
