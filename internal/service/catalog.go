// internal/service/catalog.go
package service

import (
	"github.com/google/uuid"

	"habitkeep/internal/model"
)

// catalogTemplates は組み込みのスターターパック定義です。
// Code と TemplateID はクライアントが保持する可能性があるため安定させること。
func catalogTemplates() []*model.HabitTemplate {
	intPtr := func(v int) *int { return &v }
	return []*model.HabitTemplate{
		{
			TemplateID:  uuid.MustParse("0b6f4c1a-24d3-4c84-9a6e-7a15e2d3c001"),
			Code:        "morning-foundations",
			Name:        "朝の土台づくり",
			Description: "起床後の小さな3習慣で1日のリズムを作る",
			Difficulty:  model.DifficultyBeginner,
			Habits: []model.TemplateHabit{
				{
					Name:                 "コップ1杯の水を飲む",
					Area:                 "health",
					Category:             "hydration",
					TrackingType:         model.TrackingBinary,
					Frequency:            model.FrequencyDaily,
					BaseXP:               10,
					BaseCoins:            5,
					DifficultyMultiplier: 1.0,
					TinyVersion:          "ひと口だけ飲む",
					Trigger:              "起きてキッチンに立ったら",
					Reminders:            []model.ReminderSuggestion{{Type: model.ReminderTime, Hour: 7}},
					StackOrder:           0,
				},
				{
					Name:                 "3分ストレッチ",
					Area:                 "health",
					Category:             "movement",
					TrackingType:         model.TrackingDuration,
					Frequency:            model.FrequencyDaily,
					TargetValue:          intPtr(3),
					BaseXP:               10,
					BaseCoins:            5,
					DifficultyMultiplier: 1.2,
					TinyVersion:          "肩を10秒回す",
					Trigger:              "水を飲み終えたら",
					StackOrder:           1,
				},
				{
					Name:                 "今日の最優先タスクを書く",
					Area:                 "productivity",
					Category:             "planning",
					TrackingType:         model.TrackingBinary,
					Frequency:            model.FrequencyDaily,
					BaseXP:               15,
					BaseCoins:            8,
					DifficultyMultiplier: 1.0,
					TinyVersion:          "1行だけ書く",
					Barrier:              "朝は時間がない",
					StackOrder:           2,
				},
			},
		},
		{
			TemplateID:  uuid.MustParse("3f2a8c5e-61b7-4f0d-b3c2-9d40a1e7c102"),
			Code:        "deep-work",
			Name:        "ディープワーク強化",
			Description: "集中作業の時間を毎日確保する",
			Difficulty:  model.DifficultyIntermediate,
			Habits: []model.TemplateHabit{
				{
					Name:                 "90分の集中ブロック",
					Area:                 "productivity",
					Category:             "focus",
					TrackingType:         model.TrackingDuration,
					Frequency:            model.FrequencyDaily,
					TargetValue:          intPtr(90),
					BaseXP:               25,
					BaseCoins:            12,
					DifficultyMultiplier: 1.5,
					TinyVersion:          "25分だけ集中する",
					Trigger:              "午前の通知を切ったら",
					Reminders:            []model.ReminderSuggestion{{Type: model.ReminderTime, Hour: 9}},
					StackOrder:           0,
				},
				{
					Name:                 "作業ログを振り返る",
					Area:                 "productivity",
					Category:             "review",
					TrackingType:         model.TrackingBinary,
					Frequency:            model.FrequencyDaily,
					BaseXP:               10,
					BaseCoins:            6,
					DifficultyMultiplier: 1.0,
					TinyVersion:          "一言だけ記録する",
					StackOrder:           1,
				},
			},
		},
		{
			TemplateID:  uuid.MustParse("9c1d5b77-0e4a-4d69-8f21-54b8c6a9e203"),
			Code:        "athlete-reset",
			Name:        "アスリートリセット",
			Description: "運動・睡眠・栄養を立て直す上級パック",
			Difficulty:  model.DifficultyAdvanced,
			Habits: []model.TemplateHabit{
				{
					Name:                 "45分のトレーニング",
					Area:                 "health",
					Category:             "exercise",
					TrackingType:         model.TrackingDuration,
					Frequency:            model.FrequencyXPerWeek,
					TargetValue:          intPtr(45),
					BaseXP:               30,
					BaseCoins:            15,
					DifficultyMultiplier: 1.6,
					TinyVersion:          "ウォームアップだけやる",
					Reminders:            []model.ReminderSuggestion{{Type: model.ReminderTime, Hour: 18}},
					StackOrder:           0,
				},
				{
					Name:                 "23時までに就寝",
					Area:                 "health",
					Category:             "sleep",
					TrackingType:         model.TrackingBinary,
					Frequency:            model.FrequencyDaily,
					BaseXP:               20,
					BaseCoins:            10,
					DifficultyMultiplier: 1.2,
					TinyVersion:          "23時にベッドに入る",
					Reminders:            []model.ReminderSuggestion{{Type: model.ReminderTime, Hour: 22}},
					StackOrder:           1,
				},
				{
					Name:                 "タンパク質を30g摂る",
					Area:                 "health",
					Category:             "nutrition",
					TrackingType:         model.TrackingCount,
					Frequency:            model.FrequencyDaily,
					TargetValue:          intPtr(30),
					BaseXP:               15,
					BaseCoins:            8,
					DifficultyMultiplier: 1.3,
					TinyVersion:          "プロテインを1杯飲む",
					StackOrder:           2,
				},
			},
		},
	}
}

// CatalogTemplate はカタログコードからテンプレート定義を引きます
func CatalogTemplate(code string) *model.HabitTemplate {
	for _, tpl := range catalogTemplates() {
		if tpl.Code == code {
			return tpl
		}
	}
	return nil
}

// milestonesForTemplate はテンプレート固有のマイルストーン表を返します (なければ nil)
func milestonesForTemplate(code string) map[int]model.MilestoneReward {
	tpl := CatalogTemplate(code)
	if tpl == nil {
		return nil
	}
	return tpl.Milestones
}
