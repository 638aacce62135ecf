// internal/service/streak.go
package service

import (
	"math"
	"sort"
	"time"

	"habitkeep/internal/model"
)

// GapNone は完了履歴が1件もないことを表す番兵値です (空白日数は事実上の無限大)
const GapNone = math.MaxInt32

// StreakResult はストリーク計算の結果です
type StreakResult struct {
	Current       int
	Longest       int
	DaysSinceLast int // asOf の直前の完了からの暦日差。履歴がなければ GapNone
}

// ComputeStreak は「asOf の暦日に完了を記録した」と仮定したときの新しい
// ストリークを、更新前の習慣状態と完了履歴から導出します。
//
//   - asOf より厳密に前の最新の完了が asOf のちょうど前日なら現在値+1
//   - それ以外は 1 (この完了が新しいストリークの起点になる)
//   - DaysSinceLast はストリークとは別の量で、カムバック判定に使われる
//
// 同一暦日の再記録は「厳密に前」の条件から外れるため二重加算しません。
func ComputeStreak(habit *model.Habit, history []*model.CompletionRecord, asOf time.Time) StreakResult {
	day := model.DateOnly(asOf)

	var last *model.CompletionRecord
	for _, rec := range history {
		if !rec.Completed {
			continue
		}
		if !model.DateOnly(rec.Date).Before(day) {
			continue
		}
		if last == nil || rec.Date.After(last.Date) {
			last = rec
		}
	}

	result := StreakResult{DaysSinceLast: GapNone}
	if last != nil {
		result.DaysSinceLast = model.DaysBetween(last.Date, day)
	}

	if last != nil && result.DaysSinceLast == 1 {
		result.Current = habit.CurrentStreak + 1
	} else {
		result.Current = 1
	}

	result.Longest = habit.LongestStreak
	if result.Current > result.Longest {
		result.Longest = result.Current
	}
	return result
}

// RecomputeFromHistory は完了履歴全体からストリークを再導出します。
// 取り消しや一括編集の後は、編集済みの履歴だけが信頼できる情報源です。
// current は最新の完了日で終わる連続日数、longest は履歴中の最長連続日数です。
func RecomputeFromHistory(history []*model.CompletionRecord) (current, longest int) {
	dates := completedDates(history)
	if len(dates) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		if model.DaysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	// 最後の run が最新の完了日で終わる連続区間
	current = run
	return current, longest
}

// completedDates は完了済み記録の暦日を重複なしの昇順で返します
func completedDates(history []*model.CompletionRecord) []time.Time {
	var dates []time.Time
	seen := make(map[time.Time]bool)
	for _, rec := range history {
		if !rec.Completed {
			continue
		}
		d := model.DateOnly(rec.Date)
		if seen[d] {
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	// ListByHabit は日付昇順を返すが、履歴がメモリ上で組まれる経路にも備える
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// strengthFromHistory は習慣強度を履歴から導出します (完了1日につき+5、0-100)。
// 導出関数にしておくことで complete → undo の往復が厳密に元の値へ戻ります。
func strengthFromHistory(history []*model.CompletionRecord) int {
	n := len(completedDates(history)) * 5
	if n > 100 {
		n = 100
	}
	return n
}

// successRateFromHistory は成功率 (完了日数 / 作成日から最終完了日までの日数) を
// 導出します。履歴が空なら 0 です。
func successRateFromHistory(history []*model.CompletionRecord, createdAt time.Time) float64 {
	dates := completedDates(history)
	if len(dates) == 0 {
		return 0
	}
	last := dates[len(dates)-1]
	days := model.DaysBetween(createdAt, last) + 1
	if days < 1 {
		days = 1
	}
	rate := float64(len(dates)) / float64(days)
	if rate > 1 {
		rate = 1
	}
	return rate
}
