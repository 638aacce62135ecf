// internal/repository/completion_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"habitkeep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, rec *model.CompletionRecord) error // 同一 (habit, date) は上書き
	FindByDate(ctx context.Context, db *gorm.DB, habitID uuid.UUID, date time.Time) (*model.CompletionRecord, error)
	ListByHabit(ctx context.Context, db *gorm.DB, habitID uuid.UUID) ([]*model.CompletionRecord, error) // 日付昇順
	Delete(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, date time.Time) (bool, error)           // 削除した場合 true
	CountForTemplateOnDate(ctx context.Context, db *gorm.DB, userID, templateID uuid.UUID, date time.Time) (int64, error)
}

type gormCompletionRepository struct {
}

func NewGormCompletionRepository() CompletionRepository {
	return &gormCompletionRepository{}
}

func (r *gormCompletionRepository) Upsert(ctx context.Context, tx *gorm.DB, rec *model.CompletionRecord) error {
	rec.Date = model.DateOnly(rec.Date)
	// (habit_id, date) のユニークインデックスに衝突したら既存行を置き換える。
	// 暦日キーの last-write-wins はここで担保される。
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "habit_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed", "completed_at", "xp_awarded", "coins_awarded",
			"milestone_xp", "milestone_coins", "milestone_gems", "tier", "method", "note",
		}),
	}).Create(rec)
	return result.Error
}

func (r *gormCompletionRepository) FindByDate(ctx context.Context, db *gorm.DB, habitID uuid.UUID, date time.Time) (*model.CompletionRecord, error) {
	var rec model.CompletionRecord
	result := db.WithContext(ctx).
		Where("habit_id = ? AND date = ?", habitID, model.DateOnly(date)).
		First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &rec, nil
}

func (r *gormCompletionRepository) ListByHabit(ctx context.Context, db *gorm.DB, habitID uuid.UUID) ([]*model.CompletionRecord, error) {
	var recs []*model.CompletionRecord
	result := db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("date ASC").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	return recs, nil
}

func (r *gormCompletionRepository) Delete(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, date time.Time) (bool, error) {
	result := tx.WithContext(ctx).
		Where("habit_id = ? AND date = ?", habitID, model.DateOnly(date)).
		Delete(&model.CompletionRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormCompletionRepository) CountForTemplateOnDate(ctx context.Context, db *gorm.DB, userID, templateID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	// 同一テンプレート由来の習慣のうち、指定の暦日に完了済みのものを数える
	result := db.WithContext(ctx).
		Model(&model.CompletionRecord{}).
		Joins("JOIN habits ON habits.habit_id = completion_records.habit_id").
		Where("habits.user_id = ? AND habits.template_id = ?", userID, templateID).
		Where("completion_records.date = ? AND completion_records.completed = ?", model.DateOnly(date), true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
