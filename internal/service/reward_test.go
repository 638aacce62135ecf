// internal/service/reward_test.go
package service

import (
	"testing"
	"time"

	"habitkeep/internal/config"
	"habitkeep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppConfig() config.AppConfig {
	return config.AppConfig{
		StreakBonusCap:        30,
		ComebackThresholdDays: 3,
		BulkLimit:             200,
	}
}

func baseHabit() *model.Habit {
	return &model.Habit{
		Name:      "読書",
		BaseXP:    10,
		BaseCoins: 5,
		Grace:     model.GraceSettings{ComebackBonus: true},
	}
}

func bonusFor(calc *model.RewardCalculation, source string) (int, int) {
	for _, b := range calc.Breakdown {
		if b.Source == source {
			return b.XP, b.Coins
		}
	}
	return 0, 0
}

func Test_CalculateRewards_StreakBonus(t *testing.T) {
	cfg := testAppConfig()
	details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierNormal, DaysSinceLast: 1}

	t.Run("正常系: ストリーク10日で基礎10/5が合計15/8になる", func(t *testing.T) {
		habit := baseHabit()
		habit.CurrentStreak = 10
		calc := CalculateRewards(cfg, habit, details, nil)
		assert.Equal(t, 15, calc.TotalXP)
		assert.Equal(t, 8, calc.TotalCoins)
	})

	t.Run("正常系: ストリーク3日未満はボーナスなし", func(t *testing.T) {
		habit := baseHabit()
		habit.CurrentStreak = 2
		calc := CalculateRewards(cfg, habit, details, nil)
		assert.Equal(t, 10, calc.TotalXP)
		assert.Equal(t, 5, calc.TotalCoins)
		assert.Empty(t, calc.Breakdown)
	})

	t.Run("正常系: ボーナスは上限まで単調増加しその後は一定", func(t *testing.T) {
		habit := baseHabit()
		prevXP := 0
		for streak := 3; streak <= 60; streak++ {
			habit.CurrentStreak = streak
			calc := CalculateRewards(cfg, habit, details, nil)
			xp, _ := bonusFor(calc, "streak")
			assert.GreaterOrEqual(t, xp, prevXP, "streak=%d", streak)
			if streak >= cfg.StreakBonusCap {
				assert.Equal(t, 15, xp, "streak=%d", streak)
			}
			prevXP = xp
		}
	})
}

func Test_CalculateRewards_ComebackBonus(t *testing.T) {
	cfg := testAppConfig()

	t.Run("正常系: 5日の空白でカムバックボーナス+10XP", func(t *testing.T) {
		habit := baseHabit()
		habit.CurrentStreak = 10 // 更新前の値に対して独立に計算される
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierNormal, DaysSinceLast: 5}
		calc := CalculateRewards(cfg, habit, details, nil)

		xp, coins := bonusFor(calc, "comeback")
		assert.Equal(t, 10, xp)
		assert.Equal(t, 0, coins)
		assert.Equal(t, 25, calc.TotalXP) // 10 + 5(streak) + 10(comeback)
		assert.Equal(t, 8, calc.TotalCoins)

		require.Len(t, calc.SpecialRewards, 1)
		assert.Equal(t, model.SpecialComeback, calc.SpecialRewards[0].Type)
	})

	t.Run("正常系: ボーナスは20XPで頭打ち", func(t *testing.T) {
		habit := baseHabit()
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierNormal, DaysSinceLast: 30}
		calc := CalculateRewards(cfg, habit, details, nil)
		xp, _ := bonusFor(calc, "comeback")
		assert.Equal(t, 20, xp)
	})

	t.Run("正常系: 猶予設定でカムバックが無効なら付与しない", func(t *testing.T) {
		habit := baseHabit()
		habit.Grace.ComebackBonus = false
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierNormal, DaysSinceLast: 5}
		calc := CalculateRewards(cfg, habit, details, nil)
		xp, _ := bonusFor(calc, "comeback")
		assert.Equal(t, 0, xp)
	})

	t.Run("正常系: 初回完了(履歴なし)はカムバック対象外", func(t *testing.T) {
		habit := baseHabit()
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierNormal, DaysSinceLast: GapNone}
		calc := CalculateRewards(cfg, habit, details, nil)
		xp, _ := bonusFor(calc, "comeback")
		assert.Equal(t, 0, xp)
	})
}

func Test_CalculateRewards_StretchAndTiming(t *testing.T) {
	cfg := testAppConfig()

	t.Run("正常系: ストレッチ達成で基礎報酬の50%/30%が加算される", func(t *testing.T) {
		habit := baseHabit()
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierStretch, DaysSinceLast: 1}
		calc := CalculateRewards(cfg, habit, details, nil)

		xp, coins := bonusFor(calc, "difficulty")
		assert.Equal(t, 5, xp)
		assert.Equal(t, 2, coins)
		require.Len(t, calc.SpecialRewards, 1)
		assert.Equal(t, model.SpecialAchievement, calc.SpecialRewards[0].Type)
	})

	t.Run("正常系: 推奨時間帯内の完了で+3XP/+2コイン", func(t *testing.T) {
		habit := baseHabit()
		habit.TimeWindows = []model.TimeWindow{{StartHour: 6, EndHour: 9}}
		completedAt := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: completedAt, Tier: model.TierNormal, DaysSinceLast: 1}
		calc := CalculateRewards(cfg, habit, details, nil)

		xp, coins := bonusFor(calc, "timing")
		assert.Equal(t, 3, xp)
		assert.Equal(t, 2, coins)
	})

	t.Run("正常系: 時間帯外の完了にはタイミングボーナスなし", func(t *testing.T) {
		habit := baseHabit()
		habit.TimeWindows = []model.TimeWindow{{StartHour: 6, EndHour: 9}}
		completedAt := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
		details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: completedAt, Tier: model.TierNormal, DaysSinceLast: 1}
		calc := CalculateRewards(cfg, habit, details, nil)

		xp, _ := bonusFor(calc, "timing")
		assert.Equal(t, 0, xp)
	})
}

func Test_CalculateRewards_StrengthTiers(t *testing.T) {
	cfg := testAppConfig()
	details := CompletionDetails{Date: day("2026-03-10"), CompletedAt: day("2026-03-10"), Tier: model.TierNormal, DaysSinceLast: 1}

	tests := []struct {
		name     string
		strength int
		wantXP   int
	}{
		{"正常系: 強度40未満はなし", 39, 0},
		{"正常系: 強度40以上で+2", 40, 2},
		{"正常系: 強度60以上で+3", 65, 3},
		{"正常系: 強度80以上で+5", 95, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit := baseHabit()
			habit.Strength = tt.strength
			calc := CalculateRewards(cfg, habit, details, nil)
			xp, _ := bonusFor(calc, "strength")
			assert.Equal(t, tt.wantXP, xp)
		})
	}
}

func Test_CalculateRewards_TemplateContext(t *testing.T) {
	cfg := testAppConfig()
	details := CompletionDetails{Date: day("2026-03-21"), CompletedAt: day("2026-03-21"), Tier: model.TierNormal, DaysSinceLast: 1}

	t.Run("正常系: 21日目のマイルストーンで+100XP/+60コイン/+5ジェム", func(t *testing.T) {
		habit := baseHabit()
		progress := &model.TemplateProgress{StartedAt: day("2026-03-01")} // 3/21は21日目
		calc := CalculateRewards(cfg, habit, details, &TemplateContext{Progress: progress})

		xp, coins := bonusFor(calc, "milestone")
		assert.Equal(t, 100, xp)
		assert.Equal(t, 60, coins)
		assert.Equal(t, 5, calc.BonusGems)

		require.Len(t, calc.SpecialRewards, 1)
		assert.Equal(t, model.SpecialMilestone, calc.SpecialRewards[0].Type)
	})

	t.Run("正常系: 到達済みマイルストーンは再度支払わない", func(t *testing.T) {
		habit := baseHabit()
		progress := &model.TemplateProgress{StartedAt: day("2026-03-01"), ReachedMilestones: []int{21}}
		calc := CalculateRewards(cfg, habit, details, &TemplateContext{Progress: progress})

		xp, _ := bonusFor(calc, "milestone")
		assert.Equal(t, 0, xp)
		assert.Equal(t, 0, calc.BonusGems)
		assert.Empty(t, calc.SpecialRewards)
	})

	t.Run("正常系: テンプレート成功率80%以上で+5XP/+3コイン", func(t *testing.T) {
		habit := baseHabit()
		progress := &model.TemplateProgress{StartedAt: day("2026-01-01")}
		calc := CalculateRewards(cfg, habit, details, &TemplateContext{Progress: progress, SuccessRate: 0.85})

		xp, coins := bonusFor(calc, "template")
		assert.Equal(t, 5, xp)
		assert.Equal(t, 3, coins)
	})

	t.Run("正常系: 同テンプレート3習慣を同日完了でシナジー+10XP", func(t *testing.T) {
		habit := baseHabit()
		progress := &model.TemplateProgress{StartedAt: day("2026-01-01")}
		calc := CalculateRewards(cfg, habit, details, &TemplateContext{Progress: progress, CompletedSameDay: 3})

		xp, _ := bonusFor(calc, "synergy")
		assert.Equal(t, 10, xp)
	})

	t.Run("正常系: テンプレート外の習慣には文脈ボーナスなし", func(t *testing.T) {
		habit := baseHabit()
		calc := CalculateRewards(cfg, habit, details, nil)
		assert.Empty(t, calc.Breakdown)
	})
}
