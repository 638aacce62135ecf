// internal/model/completion.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CompletionTier は完了時の達成度です
type CompletionTier string

const (
	TierNormal  CompletionTier = "normal"
	TierStretch CompletionTier = "stretch" // 最低目標を超過した完了
)

func (t CompletionTier) IsValid() bool {
	switch t {
	case TierNormal, TierStretch:
		return true
	default:
		return false
	}
}

// CompletionMethod は記録の経路です
type CompletionMethod string

const (
	MethodManual CompletionMethod = "manual"
	MethodBatch  CompletionMethod = "batch" // 一括編集・過去日の埋め戻し
)

// CompletionRecord は習慣1件の1暦日分の完了記録です。
// HabitID + Date の複合ユニークインデックスにより同一日の記録は必ず1件に
// 収束します (同日の再記録は上書き)。
type CompletionRecord struct {
	CompletionID uuid.UUID        `gorm:"type:uuid;primaryKey" json:"completion_id"`
	HabitID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_habit_date,unique" json:"habit_id"`
	Date         time.Time        `gorm:"not null;index:idx_habit_date,unique" json:"date"` // UTC 0時に正規化した暦日
	Completed    bool             `gorm:"not null;default:true" json:"completed"`
	CompletedAt  time.Time        `gorm:"not null" json:"completed_at"` // 実際の完了時刻
	XPAwarded    int              `gorm:"not null;default:0" json:"xp_awarded"`
	CoinsAwarded int              `gorm:"not null;default:0" json:"coins_awarded"`
	// 付与額のうちマイルストーン支払い分。同日上書きの精算と取り消しの際に
	// この分を識別する
	MilestoneXP    int `gorm:"not null;default:0" json:"milestone_xp,omitempty"`
	MilestoneCoins int `gorm:"not null;default:0" json:"milestone_coins,omitempty"`
	MilestoneGems  int `gorm:"not null;default:0" json:"milestone_gems,omitempty"`
	Tier         CompletionTier   `gorm:"not null;default:normal" json:"tier"`
	Method       CompletionMethod `gorm:"not null;default:manual" json:"method"`
	Note         *string          `json:"note,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (CompletionRecord) TableName() string {
	return "completion_records"
}

// DateOnly は時刻を暦日 (UTC 0時) に正規化します。
// 日付キーの比較はすべてこの正規化を通して行います。
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween は from から to までの暦日差を返します (to が後なら正)
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
