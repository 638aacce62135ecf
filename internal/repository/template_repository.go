// internal/repository/template_repository.go
package repository

import (
	"context"
	"errors"

	"habitkeep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.TemplateProgress) error
	FindByTemplate(ctx context.Context, db *gorm.DB, userID, templateID uuid.UUID) (*model.TemplateProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *model.TemplateProgress) error
}

type gormTemplateProgressRepository struct {
}

func NewGormTemplateProgressRepository() TemplateProgressRepository {
	return &gormTemplateProgressRepository{}
}

func (r *gormTemplateProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.TemplateProgress) error {
	// (user_id, template_id) のユニークインデックスが二重展開を防ぐ
	result := tx.WithContext(ctx).Create(progress)
	return result.Error
}

func (r *gormTemplateProgressRepository) FindByTemplate(ctx context.Context, db *gorm.DB, userID, templateID uuid.UUID) (*model.TemplateProgress, error) {
	var progress model.TemplateProgress
	result := db.WithContext(ctx).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &progress, nil
}

func (r *gormTemplateProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.TemplateProgress) error {
	result := tx.WithContext(ctx).Save(progress)
	return result.Error
}
