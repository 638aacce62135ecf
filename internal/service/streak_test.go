// internal/service/streak_test.go
package service

import (
	"testing"
	"time"

	"habitkeep/internal/model"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("invalid test date: " + s)
	}
	return model.DateOnly(t)
}

func completedOn(dates ...string) []*model.CompletionRecord {
	recs := make([]*model.CompletionRecord, 0, len(dates))
	for _, d := range dates {
		recs = append(recs, &model.CompletionRecord{Date: day(d), Completed: true})
	}
	return recs
}

func Test_ComputeStreak(t *testing.T) {
	tests := []struct {
		name         string
		habit        *model.Habit
		history      []*model.CompletionRecord
		asOf         string
		wantCurrent  int
		wantLongest  int
		wantDaysGap  int
	}{
		{
			name:        "正常系: 履歴なしの初回完了はストリーク1",
			habit:       &model.Habit{CurrentStreak: 0, LongestStreak: 0},
			history:     nil,
			asOf:        "2026-03-10",
			wantCurrent: 1,
			wantLongest: 1,
			wantDaysGap: GapNone,
		},
		{
			name:        "正常系: 前日完了済みならストリークが伸びる",
			habit:       &model.Habit{CurrentStreak: 4, LongestStreak: 6},
			history:     completedOn("2026-03-09"),
			asOf:        "2026-03-10",
			wantCurrent: 5,
			wantLongest: 6,
			wantDaysGap: 1,
		},
		{
			name:        "正常系: 最長記録の更新",
			habit:       &model.Habit{CurrentStreak: 6, LongestStreak: 6},
			history:     completedOn("2026-03-09"),
			asOf:        "2026-03-10",
			wantCurrent: 7,
			wantLongest: 7,
			wantDaysGap: 1,
		},
		{
			name:        "正常系: 1日空くとストリークは1にリセット",
			habit:       &model.Habit{CurrentStreak: 10, LongestStreak: 10},
			history:     completedOn("2026-03-08"),
			asOf:        "2026-03-10",
			wantCurrent: 1,
			wantLongest: 10,
			wantDaysGap: 2,
		},
		{
			name:        "正常系: 同日再記録は加算されない",
			habit:       &model.Habit{CurrentStreak: 3, LongestStreak: 3},
			history:     completedOn("2026-03-09", "2026-03-10"),
			asOf:        "2026-03-10",
			wantCurrent: 4, // 3/10の記録は「厳密に前」ではないので3/9が基準
			wantLongest: 4,
			wantDaysGap: 1,
		},
		{
			name:        "正常系: 過去日への記録は当時の直前完了を基準にする",
			habit:       &model.Habit{CurrentStreak: 1, LongestStreak: 5},
			history:     completedOn("2026-03-01", "2026-03-10"),
			asOf:        "2026-03-05",
			wantCurrent: 1,
			wantLongest: 5,
			wantDaysGap: 4,
		},
		{
			name: "正常系: 未完了の記録はストリークに影響しない",
			habit: &model.Habit{CurrentStreak: 2, LongestStreak: 2},
			history: []*model.CompletionRecord{
				{Date: day("2026-03-09"), Completed: false},
				{Date: day("2026-03-07"), Completed: true},
			},
			asOf:        "2026-03-10",
			wantCurrent: 1,
			wantLongest: 2,
			wantDaysGap: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreak(tt.habit, tt.history, day(tt.asOf))
			assert.Equal(t, tt.wantCurrent, got.Current)
			assert.Equal(t, tt.wantLongest, got.Longest)
			assert.Equal(t, tt.wantDaysGap, got.DaysSinceLast)
		})
	}
}

func Test_RecomputeFromHistory(t *testing.T) {
	tests := []struct {
		name        string
		history     []*model.CompletionRecord
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "正常系: 空の履歴",
			history:     nil,
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "正常系: 連続3日",
			history:     completedOn("2026-03-08", "2026-03-09", "2026-03-10"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "正常系: 途中に空白があると末尾の連続区間が現在値になる",
			history:     completedOn("2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-09", "2026-03-10"),
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name:        "正常系: 順不同の履歴でも正しく計算される",
			history:     completedOn("2026-03-10", "2026-03-08", "2026-03-09"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name: "正常系: 重複した暦日は1日として数える",
			history: []*model.CompletionRecord{
				{Date: day("2026-03-09"), Completed: true},
				{Date: day("2026-03-09"), Completed: true},
				{Date: day("2026-03-10"), Completed: true},
			},
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := RecomputeFromHistory(tt.history)
			assert.Equal(t, tt.wantCurrent, current)
			assert.Equal(t, tt.wantLongest, longest)
		})
	}
}

func Test_strengthFromHistory(t *testing.T) {
	assert.Equal(t, 0, strengthFromHistory(nil))
	assert.Equal(t, 15, strengthFromHistory(completedOn("2026-03-01", "2026-03-02", "2026-03-03")))

	// 20日で100に到達し、それ以上は増えない
	var dates []string
	for i := 1; i <= 25; i++ {
		dates = append(dates, time.Date(2026, 3, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	}
	assert.Equal(t, 100, strengthFromHistory(completedOn(dates...)))
}

func Test_successRateFromHistory(t *testing.T) {
	createdAt := day("2026-03-01")

	// 履歴なしは0
	assert.Equal(t, 0.0, successRateFromHistory(nil, createdAt))

	// 10日間のうち5日完了 → 0.5
	history := completedOn("2026-03-01", "2026-03-03", "2026-03-05", "2026-03-07", "2026-03-10")
	assert.InDelta(t, 0.5, successRateFromHistory(history, createdAt), 0.001)

	// 毎日完了でちょうど1.0
	history = completedOn("2026-03-01", "2026-03-02", "2026-03-03")
	assert.InDelta(t, 1.0, successRateFromHistory(history, createdAt), 0.001)
}
