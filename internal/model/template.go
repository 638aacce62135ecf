// internal/model/template.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// TemplateDifficulty はテンプレート全体の難易度帯です
type TemplateDifficulty string

const (
	DifficultyBeginner     TemplateDifficulty = "beginner"
	DifficultyIntermediate TemplateDifficulty = "intermediate"
	DifficultyAdvanced     TemplateDifficulty = "advanced"
)

func (d TemplateDifficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// Factor は基礎報酬に掛かる難易度係数です
func (d TemplateDifficulty) Factor() float64 {
	switch d {
	case DifficultyIntermediate:
		return 1.3
	case DifficultyAdvanced:
		return 1.6
	default:
		return 1.0
	}
}

// ReminderType はブループリントのリマインダー提案の種別です
type ReminderType string

const (
	ReminderTime     ReminderType = "time"     // 時間帯指定。最初の1件だけ時間帯に変換される
	ReminderLocation ReminderType = "location" // 場所トリガー (展開では未使用)
)

// ReminderSuggestion はブループリントに付くリマインダー提案です
type ReminderSuggestion struct {
	Type ReminderType `json:"type"`
	Hour int          `json:"hour"` // type=time のときの開始時刻 (0-23)
}

// TemplateHabit は展開前の習慣ブループリントです。読み取り専用で、
// Template Instantiator が一度だけ消費して Habit を生成します。
type TemplateHabit struct {
	Name                 string               `json:"name" validate:"required"`
	Area                 string               `json:"area"`
	Category             string               `json:"category"`
	TrackingType         TrackingType         `json:"tracking_type" validate:"required"`
	Frequency            Frequency            `json:"frequency" validate:"required"`
	TargetValue          *int                 `json:"target_value,omitempty"`
	BaseXP               int                  `json:"base_xp" validate:"required,min=1"`
	BaseCoins            int                  `json:"base_coins" validate:"required,min=1"`
	DifficultyMultiplier float64              `json:"difficulty_multiplier" validate:"required,gt=0"`
	TinyVersion          string               `json:"tiny_version,omitempty"` // 最小実行バリアント
	Trigger              string               `json:"trigger,omitempty"`
	Barrier              string               `json:"barrier,omitempty"`
	Reminders            []ReminderSuggestion `json:"reminders,omitempty"`
	StackOrder           int                  `json:"stack_order"`
}

// HabitTemplate は複数習慣のスターターパック定義です。
// コード定義のカタログまたはリクエストで与えられ、DBには保存されません。
type HabitTemplate struct {
	TemplateID  uuid.UUID           `json:"template_id"`
	Code        string              `json:"code"` // カタログの安定ID
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Difficulty  TemplateDifficulty  `json:"difficulty" validate:"required"`
	Habits      []TemplateHabit     `json:"habits" validate:"required,min=1,dive"`
	Milestones  map[int]MilestoneReward `json:"milestones,omitempty"` // 経過日 → 固定報酬。省略時は既定表
}

// TemplateProgress はテンプレート展開後のユーザーごとの進行状態です。
// 到達済みマイルストーンの記録により、同じマイルストーンの二重払いを防ぎます。
type TemplateProgress struct {
	ProgressID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"progress_id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_template,unique" json:"user_id"`
	TemplateID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_template,unique" json:"template_id"`
	TemplateCode       string     `json:"template_code"`
	Difficulty         TemplateDifficulty `gorm:"not null" json:"difficulty"`
	StartedAt          time.Time  `gorm:"not null" json:"started_at"`
	ReachedMilestones  []int      `gorm:"serializer:json" json:"reached_milestones"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (TemplateProgress) TableName() string {
	return "template_progress"
}

// HasReached は指定の経過日マイルストーンが支払済みか返します
func (p *TemplateProgress) HasReached(day int) bool {
	for _, d := range p.ReachedMilestones {
		if d == day {
			return true
		}
	}
	return false
}

// Unreach は到達済みマイルストーンの記録を取り消します。
// マイルストーンを支払った完了記録が取り消されたときに呼ばれ、
// 同じ経過日を改めて支払えるように戻します。
func (p *TemplateProgress) Unreach(day int) {
	for i, d := range p.ReachedMilestones {
		if d == day {
			p.ReachedMilestones = append(p.ReachedMilestones[:i], p.ReachedMilestones[i+1:]...)
			return
		}
	}
}

// ElapsedDay は開始日を1日目として数えた経過日数を返します
func (p *TemplateProgress) ElapsedDay(on time.Time) int {
	return DaysBetween(p.StartedAt, on) + 1
}

// テンプレート展開リクエストDTO。CatalogCode か Template のどちらか一方を指定する
type InstantiateTemplateRequest struct {
	CatalogCode string         `json:"catalog_code,omitempty" validate:"omitempty,min=1"`
	Template    *HabitTemplate `json:"template,omitempty"`
}

// テンプレート展開レスポンスDTO
type InstantiateTemplateResponse struct {
	HabitIDs []uuid.UUID `json:"habit_ids"`
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
}
