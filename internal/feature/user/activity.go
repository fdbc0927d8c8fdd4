package user

import (
	"fmt"
	"strings"
	"time"

	"user-dashboard/internal/domain"
)

const ActivityCount = 5

// ActivityLabels 顺序固定，按 (userID+index) % len 取
var ActivityLabels = [...]string{
	"Logged in",
	"Updated profile",
	"Changed password",
	"Uploaded document",
	"Shared file",
	"Commented on post",
	"Created report",
	"Downloaded data",
}

// Synthesizer 生成详情页的活动记录。动作确定，小时数随机（仅展示用）。
type Synthesizer struct {
	Now  Clock
	Rand Rand
}

func NewSynthesizer(now Clock, r Rand) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	if r == nil {
		r = DefaultRand()
	}
	return &Synthesizer{Now: now, Rand: r}
}

func ActionFor(userID, index int) string {
	return ActivityLabels[posMod(userID+index, len(ActivityLabels))]
}

func (s *Synthesizer) Synthesize(userID int) []domain.Activity {
	now := s.Now()
	out := make([]domain.Activity, 0, ActivityCount)
	for i := 0; i < ActivityCount; i++ {
		d := daysAgo(now, i*2)
		ts := time.Date(d.Year(), d.Month(), d.Day(), s.Rand.IntN(24),
			d.Minute(), d.Second(), d.Nanosecond(), d.Location())
		action := ActionFor(userID, i)
		out = append(out, domain.Activity{
			ID:          fmt.Sprintf("activity-%d-%d", userID, i),
			Action:      action,
			Timestamp:   ts,
			Description: "User performed " + strings.ToLower(action) + " action",
		})
	}
	return out
}

// Summary 详情页「Activity Summary」卡片的数字
func (s *Synthesizer) Summary(activities []domain.Activity) domain.ActivitySummary {
	return domain.ActivitySummary{
		TotalActions: len(activities),
		FilesShared:  between(s.Rand, 20, 70),
		Comments:     between(s.Rand, 50, 150),
		Reports:      between(s.Rand, 10, 40),
	}
}
