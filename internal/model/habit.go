// internal/model/habit.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserIDKey はコンテキストにユーザーIDを格納するためのキーです
type contextKey string

const UserIDKey contextKey = "user_id"

// TrackingType は習慣の記録方式を表します
type TrackingType string

const (
	TrackingBinary   TrackingType = "binary"   // やった/やらない
	TrackingDuration TrackingType = "duration" // 分単位
	TrackingCount    TrackingType = "count"    // 回数
	TrackingScale    TrackingType = "scale"    // 1-10 などの段階評価
)

func (t TrackingType) IsValid() bool {
	switch t {
	case TrackingBinary, TrackingDuration, TrackingCount, TrackingScale:
		return true
	default:
		return false
	}
}

// Frequency は習慣の実施頻度を表します
type Frequency string

const (
	FrequencyDaily        Frequency = "daily"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyXPerWeek     Frequency = "x_per_week"
	FrequencySpecificDays Frequency = "specific_days"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyXPerWeek, FrequencySpecificDays:
		return true
	default:
		return false
	}
}

// TimeWindow は習慣の推奨実施時間帯です (時単位、StartHour <= hour < EndHour)
type TimeWindow struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Contains は完了時刻の「時」が時間帯に含まれるか判定します
func (w TimeWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// GraceSettings は習慣ごとの救済設定です
type GraceSettings struct {
	GraceDays         int  `json:"grace_days"`
	WeekendGrace      bool `json:"weekend_grace"`
	VacationMode      bool `json:"vacation_mode"`
	SickDayProtection bool `json:"sick_day_protection"`
	ComebackBonus     bool `json:"comeback_bonus"`
}

// Habit はユーザーが追跡する習慣です。
// CurrentStreak / LongestStreak / Strength / SuccessRate は完了履歴からの
// 導出キャッシュであり、履歴の方が常に真実の源です。
type Habit struct {
	HabitID      uuid.UUID    `gorm:"type:uuid;primaryKey" json:"habit_id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Name         string       `gorm:"not null" json:"name"`
	Area         string       `json:"area"`     // "health" など
	Category     string       `json:"category"` // Area 内の分類
	TrackingType TrackingType `gorm:"not null;default:binary" json:"tracking_type"`
	Frequency    Frequency    `gorm:"not null;default:daily" json:"frequency"`
	TargetValue  *int         `json:"target_value,omitempty"` // duration/count/scale の目標値
	TimeWindows  []TimeWindow `gorm:"serializer:json" json:"time_windows,omitempty"`

	// 報酬パラメータ (テンプレート展開時または作成時に確定)
	BaseXP    int `gorm:"not null" json:"base_xp"`
	BaseCoins int `gorm:"not null" json:"base_coins"`

	// 進捗状態 (導出キャッシュ)
	CurrentStreak int     `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int     `gorm:"not null;default:0" json:"longest_streak"`
	Strength      int     `gorm:"not null;default:0" json:"strength"` // 0-100
	SuccessRate   float64 `gorm:"not null;default:0" json:"success_rate"`

	// ライフサイクル
	IsActive     bool `gorm:"not null;default:true" json:"is_active"`
	IsPaused     bool `gorm:"not null;default:false" json:"is_paused"`
	VacationMode bool `gorm:"not null;default:false" json:"vacation_mode"`

	Grace GraceSettings `gorm:"embedded;embeddedPrefix:grace_" json:"grace"`

	// テンプレート由来の習慣のみ設定される
	TemplateID *uuid.UUID `gorm:"type:uuid;index" json:"template_id,omitempty"`
	StackOrder int        `gorm:"not null;default:0" json:"stack_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 関連 (Preload用)
	Completions []CompletionRecord `gorm:"foreignKey:HabitID;references:HabitID" json:"-"`
}

func (Habit) TableName() string {
	return "habits"
}

// UserStats はユーザーの累積XP/コイン/ジェム残高です
type UserStats struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalXP    int       `gorm:"not null;default:0" json:"total_xp"`
	TotalCoins int       `gorm:"not null;default:0" json:"total_coins"`
	TotalGems  int       `gorm:"not null;default:0" json:"total_gems"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// 習慣完了リクエストDTO
type CompleteHabitRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Tier        string  `json:"tier,omitempty" validate:"omitempty,oneof=normal stretch"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=500"`
	CompletedAt *string `json:"completed_at,omitempty" validate:"omitempty"` // RFC3339。省略時はサーバー時刻
}

// 習慣完了レスポンスDTO
type CompleteHabitResponse struct {
	HabitID        uuid.UUID       `json:"habit_id"`
	NewStreak      int             `json:"new_streak"`
	XPEarned       int             `json:"xp_earned"`
	CoinsEarned    int             `json:"coins_earned"`
	SpecialRewards []SpecialReward `json:"special_rewards"`
}

// 完了取り消しレスポンスDTO
type UndoCompletionResponse struct {
	HabitID   uuid.UUID `json:"habit_id"`
	XPLost    int       `json:"xp_lost"`
	CoinsLost int       `json:"coins_lost"`
	NewStreak int       `json:"new_streak"`
}

// 一括編集の1項目
type BulkUpdate struct {
	HabitID   uuid.UUID `json:"habit_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Completed bool      `json:"completed"`
	Note      *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}

// 一括編集リクエストDTO
type BulkApplyRequest struct {
	Updates []BulkUpdate `json:"updates" validate:"required,min=1,dive"`
}

// 一括編集レスポンスDTO
type BulkApplyResponse struct {
	AppliedCount   int         `json:"applied_count"`
	FailedHabitIDs []uuid.UUID `json:"failed_habit_ids"`
}
