// internal/repository/stats_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"habitkeep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatsRepository interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.UserStats, error)
	Update(ctx context.Context, tx *gorm.DB, stats *model.UserStats) error
}

type gormUserStatsRepository struct {
}

func NewGormUserStatsRepository() UserStatsRepository {
	return &gormUserStatsRepository{}
}

func (r *gormUserStatsRepository) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.UserStats, error) {
	var stats model.UserStats
	result := tx.WithContext(ctx).Where("user_id = ?", userID).First(&stats)
	if result.Error == nil {
		return &stats, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	stats = model.UserStats{UserID: userID, UpdatedAt: time.Now()}
	if err := tx.WithContext(ctx).Create(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *gormUserStatsRepository) Update(ctx context.Context, tx *gorm.DB, stats *model.UserStats) error {
	stats.UpdatedAt = time.Now()
	result := tx.WithContext(ctx).Save(stats)
	return result.Error
}
