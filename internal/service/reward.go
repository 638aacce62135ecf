// internal/service/reward.go
package service

import (
	"fmt"
	"math"
	"time"

	"habitkeep/internal/config"
	"habitkeep/internal/model"
)

// defaultMilestones はテンプレート経過日マイルストーンの既定報酬表です。
// テンプレート定義が独自の表を持つ場合はそちらが優先されます。
var defaultMilestones = map[int]model.MilestoneReward{
	7:  {XP: 25, Coins: 15, Gems: 1},
	14: {XP: 50, Coins: 30, Gems: 2},
	21: {XP: 100, Coins: 60, Gems: 5},
	30: {XP: 150, Coins: 100, Gems: 10},
	60: {XP: 300, Coins: 200, Gems: 20},
	90: {XP: 500, Coins: 350, Gems: 50},
}

// CompletionDetails は報酬計算に必要な完了イベントの情報です
type CompletionDetails struct {
	Date          time.Time
	CompletedAt   time.Time
	Tier          model.CompletionTier
	DaysSinceLast int // ストリーク計算機が出した直前完了からの空白日数
}

// TemplateContext はテンプレート由来の習慣を完了したときの追加文脈です
type TemplateContext struct {
	Progress         *model.TemplateProgress
	SuccessRate      float64                     // テンプレート習慣全体の成功率 (0-1)
	CompletedSameDay int                         // 同テンプレート習慣のうち当日完了した数 (この完了を含む)
	Milestones       map[int]model.MilestoneReward // nil なら既定表
}

// CalculateRewards は完了イベントの報酬明細を計算します。
// 入力に対して決定的で、全ボーナスは更新前の習慣状態に対して独立に計算した
// 上で加算されます。隠れた乱数や壁時計への依存はありません。
func CalculateRewards(cfg config.AppConfig, habit *model.Habit, details CompletionDetails, tctx *TemplateContext) *model.RewardCalculation {
	calc := &model.RewardCalculation{
		BaseXP:    habit.BaseXP,
		BaseCoins: habit.BaseCoins,
	}

	addBonus := func(source string, xp, coins int) {
		if xp == 0 && coins == 0 {
			return
		}
		calc.Breakdown = append(calc.Breakdown, model.BonusComponent{Source: source, XP: xp, Coins: coins})
		calc.BonusXP += xp
		calc.BonusCoins += coins
	}

	// ストリークボーナス: 3日未満はなし、上限日数相当で頭打ち
	if streak := habit.CurrentStreak; streak >= 3 {
		capped := streak
		if capped > cfg.StreakBonusCap {
			capped = cfg.StreakBonusCap
		}
		addBonus("streak", round(float64(capped)*0.5), round(float64(capped)*0.3))
	}

	// ストレッチ達成ボーナス
	if details.Tier == model.TierStretch {
		addBonus("difficulty", round(float64(habit.BaseXP)*0.5), round(float64(habit.BaseCoins)*0.3))
		calc.SpecialRewards = append(calc.SpecialRewards, model.SpecialReward{
			Type:    model.SpecialAchievement,
			Message: fmt.Sprintf("「%s」でストレッチ目標を達成しました！", habit.Name),
		})
	}

	// カムバックボーナス: 空白期間のあとの再開を後押しする
	if details.DaysSinceLast != GapNone &&
		details.DaysSinceLast >= cfg.ComebackThresholdDays &&
		habit.Grace.ComebackBonus {
		bonus := details.DaysSinceLast * 2
		if bonus > 20 {
			bonus = 20
		}
		addBonus("comeback", bonus, 0)
		calc.SpecialRewards = append(calc.SpecialRewards, model.SpecialReward{
			Type:    model.SpecialComeback,
			XP:      bonus,
			Message: fmt.Sprintf("%d日ぶりの再開！カムバックボーナス +%dXP", details.DaysSinceLast, bonus),
		})
	}

	// 時間帯ボーナス: 宣言済みの推奨時間帯に完了した場合の固定加算
	for _, w := range habit.TimeWindows {
		if w.Contains(details.CompletedAt.Hour()) {
			addBonus("timing", 3, 2)
			break
		}
	}

	// 習慣強度ボーナス: 強度の段階に応じた固定XP
	switch {
	case habit.Strength >= 80:
		addBonus("strength", 5, 0)
	case habit.Strength >= 60:
		addBonus("strength", 3, 0)
	case habit.Strength >= 40:
		addBonus("strength", 2, 0)
	}

	// テンプレート文脈ボーナス
	if tctx != nil && tctx.Progress != nil {
		if tctx.SuccessRate >= 0.8 {
			addBonus("template", 5, 3)
		}

		milestones := tctx.Milestones
		if milestones == nil {
			milestones = defaultMilestones
		}
		day := tctx.Progress.ElapsedDay(details.Date)
		if reward, ok := milestones[day]; ok && !tctx.Progress.HasReached(day) {
			addBonus("milestone", reward.XP, reward.Coins)
			calc.BonusGems += reward.Gems
			calc.SpecialRewards = append(calc.SpecialRewards, model.SpecialReward{
				Type:    model.SpecialMilestone,
				XP:      reward.XP,
				Coins:   reward.Coins,
				Gems:    reward.Gems,
				Message: fmt.Sprintf("継続%d日のマイルストーン達成！ +%dXP +%dコイン +%dジェム", day, reward.XP, reward.Coins, reward.Gems),
			})
		}

		if tctx.CompletedSameDay >= 3 {
			addBonus("synergy", 10, 0)
			calc.SpecialRewards = append(calc.SpecialRewards, model.SpecialReward{
				Type:    model.SpecialSynergy,
				XP:      10,
				Message: fmt.Sprintf("同じテンプレートの習慣を今日%d件達成！シナジーボーナス +10XP", tctx.CompletedSameDay),
			})
		}
	}

	calc.TotalXP = calc.BaseXP + calc.BonusXP
	calc.TotalCoins = calc.BaseCoins + calc.BonusCoins
	return calc
}

func round(v float64) int {
	return int(math.Round(v))
}
