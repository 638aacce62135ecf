// internal/service/template_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"habitkeep/internal/model"
	"habitkeep/internal/repository"
	"habitkeep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func testTemplate() *model.HabitTemplate {
	return &model.HabitTemplate{
		TemplateID:  uuid.New(),
		Code:        "test-pack",
		Name:        "テストパック",
		Difficulty:  model.DifficultyIntermediate,
		Habits: []model.TemplateHabit{
			{
				Name: "瞑想", Area: "health", Category: "mindfulness",
				TrackingType: model.TrackingDuration, Frequency: model.FrequencyDaily,
				TargetValue: intPtr(10), BaseXP: 10, BaseCoins: 5, DifficultyMultiplier: 1.0,
				Reminders:  []model.ReminderSuggestion{{Type: model.ReminderTime, Hour: 6}},
				StackOrder: 0,
			},
			{
				Name: "日記", Area: "growth", Category: "journaling",
				TrackingType: model.TrackingBinary, Frequency: model.FrequencyDaily,
				BaseXP: 10, BaseCoins: 5, DifficultyMultiplier: 1.5,
				StackOrder: 1,
			},
		},
	}
}

func Test_ExpandTemplate(t *testing.T) {
	userID := uuid.New()
	startedAt := day("2026-03-10")

	t.Run("正常系: ブループリント数と同数の習慣が順序付きで生成される", func(t *testing.T) {
		tpl := testTemplate()
		habits := ExpandTemplate(tpl, userID, startedAt)
		require.Len(t, habits, 2)

		for i, h := range habits {
			assert.Equal(t, userID, h.UserID)
			require.NotNil(t, h.TemplateID)
			assert.Equal(t, tpl.TemplateID, *h.TemplateID)
			assert.Equal(t, i, h.StackOrder)
			assert.True(t, h.IsActive)
			assert.Equal(t, 0, h.CurrentStreak)
			assert.Equal(t, 0, h.Strength)
		}
		assert.Equal(t, "瞑想", habits[0].Name)
		assert.Equal(t, "日記", habits[1].Name)
	})

	t.Run("正常系: 基礎報酬は係数と難易度係数の積で確定する", func(t *testing.T) {
		tpl := testTemplate()
		habits := ExpandTemplate(tpl, userID, startedAt)

		// intermediate は係数1.3
		assert.Equal(t, 13, habits[0].BaseXP)    // round(10 * 1.0 * 1.3)
		assert.Equal(t, 7, habits[0].BaseCoins)  // round(5 * 1.0 * 1.3)
		assert.Equal(t, 20, habits[1].BaseXP)    // round(10 * 1.5 * 1.3)
		assert.Equal(t, 10, habits[1].BaseCoins) // round(5 * 1.5 * 1.3)
	})

	t.Run("正常系: 時間リマインダー提案は2時間の推奨時間帯になる", func(t *testing.T) {
		tpl := testTemplate()
		habits := ExpandTemplate(tpl, userID, startedAt)

		require.Len(t, habits[0].TimeWindows, 1)
		assert.Equal(t, 6, habits[0].TimeWindows[0].StartHour)
		assert.Equal(t, 8, habits[0].TimeWindows[0].EndHour)
		assert.Empty(t, habits[1].TimeWindows)
	})

	t.Run("正常系: ビギナーテンプレートは猶予が寛容になる", func(t *testing.T) {
		tpl := testTemplate()
		tpl.Difficulty = model.DifficultyBeginner
		habits := ExpandTemplate(tpl, userID, startedAt)

		assert.Equal(t, 2, habits[0].Grace.GraceDays)
		assert.True(t, habits[0].Grace.WeekendGrace)
		assert.True(t, habits[0].Grace.ComebackBonus)
		assert.True(t, habits[0].Grace.SickDayProtection)
	})

	t.Run("正常系: 深夜の時間帯提案は24時で切り詰める", func(t *testing.T) {
		tpl := testTemplate()
		tpl.Habits[0].Reminders = []model.ReminderSuggestion{{Type: model.ReminderTime, Hour: 23}}
		habits := ExpandTemplate(tpl, userID, startedAt)

		require.Len(t, habits[0].TimeWindows, 1)
		assert.Equal(t, 23, habits[0].TimeWindows[0].StartHour)
		assert.Equal(t, 24, habits[0].TimeWindows[0].EndHour)
	})
}

func Test_templateService_InstantiateTemplate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newService := func(db *gorm.DB) *templateService {
		svc := NewTemplateService(db, repository.NewGormHabitRepository(), repository.NewGormTemplateProgressRepository()).(*templateService)
		svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
		return svc
	}

	t.Run("正常系: インラインテンプレートの展開", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newService(db)

		resp, err := svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{Template: testTemplate()})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Len(t, resp.HabitIDs, 2)

		var habitCount int64
		require.NoError(t, db.Model(&model.Habit{}).Where("user_id = ?", userID).Count(&habitCount).Error)
		assert.Equal(t, int64(2), habitCount)

		var progress model.TemplateProgress
		require.NoError(t, db.First(&progress, "user_id = ?", userID).Error)
		assert.Equal(t, "test-pack", progress.TemplateCode)
		assert.Empty(t, progress.ReachedMilestones)
	})

	t.Run("正常系: カタログコードからの展開", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newService(db)

		resp, err := svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{CatalogCode: "morning-foundations"})
		require.NoError(t, err)
		assert.Len(t, resp.HabitIDs, 3)

		// カタログの展開順は stack_order に従う
		var habits []*model.Habit
		require.NoError(t, db.Where("user_id = ?", userID).Order("stack_order ASC").Find(&habits).Error)
		require.Len(t, habits, 3)
		assert.Equal(t, "コップ1杯の水を飲む", habits[0].Name)
	})

	t.Run("異常系: 同じテンプレートの二重展開は拒否される", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newService(db)
		tpl := testTemplate()

		_, err := svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{Template: tpl})
		require.NoError(t, err)
		_, err = svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{Template: tpl})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)

		// 習慣は最初の2件のまま
		var habitCount int64
		require.NoError(t, db.Model(&model.Habit{}).Where("user_id = ?", userID).Count(&habitCount).Error)
		assert.Equal(t, int64(2), habitCount)
	})

	t.Run("異常系: 存在しないカタログコード", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newService(db)

		_, err := svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{CatalogCode: "no-such-pack"})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: コードもテンプレートも指定なし", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newService(db)

		_, err := svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 習慣作成が失敗したら何も残らない", func(t *testing.T) {
		db := setupTestDB(t)
		mockHabitRepo := new(mocks.HabitRepository)
		svc := NewTemplateService(db, mockHabitRepo, repository.NewGormTemplateProgressRepository()).(*templateService)
		svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

		mockHabitRepo.On("BatchCreate", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("[]*model.Habit")).
			Return(errors.New("db error on batch create")).Once()

		_, err := svc.InstantiateTemplate(ctx, userID, &model.InstantiateTemplateRequest{Template: testTemplate()})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInternalServer)

		// 進行レコードもロールバックされている
		var progressCount int64
		require.NoError(t, db.Model(&model.TemplateProgress{}).Count(&progressCount).Error)
		assert.Equal(t, int64(0), progressCount)

		mockHabitRepo.AssertExpectations(t)
	})
}
