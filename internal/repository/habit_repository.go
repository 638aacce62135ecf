// internal/repository/habit_repository.go
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

type HabitRepository interface {
	Create(ctx context.Context, tx *gorm.DB, habit *model.Habit) error
	BatchCreate(ctx context.Context, tx *gorm.DB, habits []*model.Habit) error // トランザクション内で全件または0件
	FindByID(ctx context.Context, db *gorm.DB, userID, habitID uuid.UUID) (*model.Habit, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, userID, habitID uuid.UUID) (*model.Habit, error) // 行ロック付き
	FindByTemplate(ctx context.Context, db *gorm.DB, userID, templateID uuid.UUID) ([]*model.Habit, error)
	Update(ctx context.Context, tx *gorm.DB, habit *model.Habit) error
}

type gormHabitRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormHabitRepository() HabitRepository {
	return &gormHabitRepository{}
}

func (r *gormHabitRepository) Create(ctx context.Context, tx *gorm.DB, habit *model.Habit) error {
	// HabitID はService層で設定済み想定
	result := tx.WithContext(ctx).Create(habit)
	return result.Error
}

func (r *gormHabitRepository) BatchCreate(ctx context.Context, tx *gorm.DB, habits []*model.Habit) error {
	if len(habits) == 0 {
		return nil
	}
	// 呼び出し元のトランザクションが失敗時に全件ロールバックする
	result := tx.WithContext(ctx).Create(habits)
	return result.Error
}

func (r *gormHabitRepository) FindByID(ctx context.Context, db *gorm.DB, userID, habitID uuid.UUID) (*model.Habit, error) {
	var habit model.Habit
	result := db.WithContext(ctx).
		Where("user_id = ? AND habit_id = ?", userID, habitID).
		First(&habit)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *gormHabitRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, userID, habitID uuid.UUID) (*model.Habit, error) {
	var habit model.Habit
	// 同一習慣への並行した完了/取り消しを直列化するための行ロック。
	// ストリーク計算は read-modify-write のため、ロックなしでは壊れる。
	result := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND habit_id = ?", userID, habitID).
		First(&habit)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *gormHabitRepository) FindByTemplate(ctx context.Context, db *gorm.DB, userID, templateID uuid.UUID) ([]*model.Habit, error) {
	var habits []*model.Habit
	result := db.WithContext(ctx).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		Order("stack_order ASC").
		Find(&habits)
	if result.Error != nil {
		return nil, result.Error
	}
	return habits, nil
}

func (r *gormHabitRepository) Update(ctx context.Context, tx *gorm.DB, habit *model.Habit) error {
	habit.UpdatedAt = time.Now()
	result := tx.WithContext(ctx).Save(habit)
	return result.Error
}
