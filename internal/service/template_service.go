// internal/service/template_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
	"habitkeep/internal/repository"
)

// TemplateService はテンプレートの展開とカタログの公開を扱います
type TemplateService interface {
	InstantiateTemplate(ctx context.Context, userID uuid.UUID, req *model.InstantiateTemplateRequest) (*model.InstantiateTemplateResponse, error)
	ListCatalog(ctx context.Context) []*model.HabitTemplate
}

type templateService struct {
	db        *gorm.DB
	habitRepo repository.HabitRepository
	progRepo  repository.TemplateProgressRepository
	now       func() time.Time
}

func NewTemplateService(db *gorm.DB, habitRepo repository.HabitRepository, progRepo repository.TemplateProgressRepository) TemplateService {
	return &templateService{
		db:        db,
		habitRepo: habitRepo,
		progRepo:  progRepo,
		now:       time.Now,
	}
}

// ExpandTemplate はテンプレート定義から習慣の実体を組み立てます。
// 純粋な変換で、DBには触れません。基礎報酬はブループリントの係数と
// テンプレート難易度の係数を掛けて確定します。
func ExpandTemplate(tpl *model.HabitTemplate, userID uuid.UUID, startedAt time.Time) []*model.Habit {
	factor := tpl.Difficulty.Factor()
	habits := make([]*model.Habit, 0, len(tpl.Habits))
	for i, bp := range tpl.Habits {
		templateID := tpl.TemplateID
		habit := &model.Habit{
			HabitID:      uuid.New(),
			UserID:       userID,
			Name:         bp.Name,
			Area:         bp.Area,
			Category:     bp.Category,
			TrackingType: bp.TrackingType,
			Frequency:    bp.Frequency,
			TargetValue:  bp.TargetValue,
			BaseXP:       round(float64(bp.BaseXP) * bp.DifficultyMultiplier * factor),
			BaseCoins:    round(float64(bp.BaseCoins) * bp.DifficultyMultiplier * factor),
			IsActive:     true,
			TemplateID:   &templateID,
			StackOrder:   bp.StackOrder,
			CreatedAt:    startedAt,
		}
		if habit.StackOrder == 0 && i > 0 {
			// ブループリントが順序を省略した場合は配列順を維持する
			habit.StackOrder = i
		}

		// 猶予設定の既定値。ビギナー向けは序盤の失敗に寛容にする
		habit.Grace = model.GraceSettings{
			SickDayProtection: true,
			ComebackBonus:     true,
		}
		if tpl.Difficulty == model.DifficultyBeginner {
			habit.Grace.GraceDays = 2
			if bp.Frequency == model.FrequencyDaily {
				habit.Grace.WeekendGrace = true
			}
		}

		// 最初の時間リマインダー提案を2時間の推奨時間帯に変換する
		for _, rem := range bp.Reminders {
			if rem.Type != model.ReminderTime {
				continue
			}
			end := rem.Hour + 2
			if end > 24 {
				end = 24
			}
			habit.TimeWindows = []model.TimeWindow{{StartHour: rem.Hour, EndHour: end}}
			break
		}

		habits = append(habits, habit)
	}
	return habits
}

func (s *templateService) InstantiateTemplate(ctx context.Context, userID uuid.UUID, req *model.InstantiateTemplateRequest) (*model.InstantiateTemplateResponse, error) {
	logger := middleware.GetLogger(ctx)

	tpl, err := s.resolveTemplate(req)
	if err != nil {
		return nil, err
	}

	startedAt := model.DateOnly(s.now())
	habits := ExpandTemplate(tpl, userID, startedAt)

	progress := &model.TemplateProgress{
		ProgressID:   uuid.New(),
		UserID:       userID,
		TemplateID:   tpl.TemplateID,
		TemplateCode: tpl.Code,
		Difficulty:   tpl.Difficulty,
		StartedAt:    startedAt,
	}

	// 進行レコードと全習慣を同一トランザクションで作成する。
	// 途中で失敗したら何も残らない (全件または0件)。
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.progRepo.Create(ctx, tx, progress); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				return model.NewAppError("TEMPLATE_ALREADY_INSTANTIATED", "テンプレートは展開済みです。", "", model.ErrConflict)
			}
			logger.Error("Error creating template progress", "error", err, "template_id", tpl.TemplateID)
			return model.NewAppError("DB_ERROR", "テンプレートの展開に失敗しました。", "", model.ErrInternalServer)
		}
		if err := s.habitRepo.BatchCreate(ctx, tx, habits); err != nil {
			logger.Error("Error creating habits from template", "error", err, "template_id", tpl.TemplateID)
			return model.NewAppError("DB_ERROR", "テンプレートの展開に失敗しました。", "", model.ErrInternalServer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(habits))
	for i, h := range habits {
		ids[i] = h.HabitID
	}

	logger.Info("Template instantiated", "template_id", tpl.TemplateID, "code", tpl.Code, "habit_count", len(ids))
	return &model.InstantiateTemplateResponse{
		HabitIDs: ids,
		Success:  true,
		Message:  fmt.Sprintf("%d件の習慣を作成しました。", len(ids)),
	}, nil
}

// resolveTemplate はカタログコードまたはインライン定義からテンプレートを確定します
func (s *templateService) resolveTemplate(req *model.InstantiateTemplateRequest) (*model.HabitTemplate, error) {
	if req.CatalogCode != "" {
		tpl := CatalogTemplate(req.CatalogCode)
		if tpl == nil {
			return nil, model.NewAppError("NOT_FOUND", "テンプレートが見つかりません。", "catalog_code", model.ErrNotFound)
		}
		return tpl, nil
	}

	if req.Template == nil {
		return nil, model.NewAppError("INVALID_TEMPLATE", "catalog_code か template のいずれかを指定してください。", "", model.ErrInvalidInput)
	}

	tpl := req.Template
	if !tpl.Difficulty.IsValid() {
		return nil, model.NewAppError("INVALID_TEMPLATE", "難易度の指定が正しくありません。", "difficulty", model.ErrInvalidInput)
	}
	if len(tpl.Habits) == 0 {
		return nil, model.NewAppError("INVALID_TEMPLATE", "テンプレートには習慣が1件以上必要です。", "habits", model.ErrInvalidInput)
	}
	for _, bp := range tpl.Habits {
		if !bp.TrackingType.IsValid() || !bp.Frequency.IsValid() {
			return nil, model.NewAppError("INVALID_TEMPLATE", "習慣ブループリントの内容が正しくありません。", "habits", model.ErrInvalidInput)
		}
	}
	if tpl.TemplateID == uuid.Nil {
		tpl.TemplateID = uuid.New()
	}
	return tpl, nil
}

func (s *templateService) ListCatalog(ctx context.Context) []*model.HabitTemplate {
	return catalogTemplates()
}
