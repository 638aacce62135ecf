// internal/handlers/habit_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habitkeep/internal/config"
	"habitkeep/internal/handlers"
	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
	"habitkeep/internal/repository"
	"habitkeep/internal/service"
)

// テスト用のルーターと依存を一式組み立てる
func setupTestServer(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Habit{},
		&model.CompletionRecord{},
		&model.TemplateProgress{},
		&model.UserStats{},
	))

	habitRepo := repository.NewGormHabitRepository()
	compRepo := repository.NewGormCompletionRepository()
	progRepo := repository.NewGormTemplateProgressRepository()
	statsRepo := repository.NewGormUserStatsRepository()

	appCfg := config.AppConfig{StreakBonusCap: 30, ComebackThresholdDays: 3, BulkLimit: 200}
	habitService := service.NewHabitService(db, habitRepo, compRepo, progRepo, statsRepo, &service.LogNotifier{}, appCfg)
	templateService := service.NewTemplateService(db, habitRepo, progRepo)
	bulkService := service.NewBulkService(db, habitRepo, compRepo, progRepo, statsRepo, appCfg)

	habitHandler := handlers.NewHabitHandler(habitService, bulkService, nil)
	templateHandler := handlers.NewTemplateHandler(templateService, nil)

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.UserContextMiddleware)
		r.Route("/habits", func(r chi.Router) {
			r.Post("/bulk", habitHandler.BulkApply)
			r.Get("/{habit_id}", habitHandler.GetHabit)
			r.Post("/{habit_id}/completions", habitHandler.CompleteHabit)
			r.Delete("/{habit_id}/completions/{date}", habitHandler.UndoCompletion)
		})
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templateHandler.ListTemplates)
			r.Post("/instantiate", templateHandler.InstantiateTemplate)
		})
	})
	return router, db
}

func doRequest(t *testing.T, router *chi.Mux, method, path string, userID *uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func createHabitViaDB(t *testing.T, db *gorm.DB, userID uuid.UUID) *model.Habit {
	t.Helper()
	habit := &model.Habit{
		HabitID:   uuid.New(),
		UserID:    userID,
		Name:      "ランニング",
		BaseXP:    10,
		BaseCoins: 5,
		IsActive:  true,
	}
	require.NoError(t, db.Create(habit).Error)
	return habit
}

func TestHabitHandler_CompleteHabit(t *testing.T) {
	router, db := setupTestServer(t)
	userID := uuid.New()
	habit := createHabitViaDB(t, db, userID)

	t.Run("正常系: 完了を記録できる", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/"+habit.HabitID.String()+"/completions",
			&userID, model.CompleteHabitRequest{Date: "2026-03-10"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp model.CompleteHabitResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, habit.HabitID, resp.HabitID)
		assert.Equal(t, 1, resp.NewStreak)
		assert.Equal(t, 10, resp.XPEarned)
	})

	t.Run("異常系: X-User-IDヘッダなしは401で拒否", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/"+habit.HabitID.String()+"/completions",
			nil, model.CompleteHabitRequest{Date: "2026-03-10"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("異常系: 日付なしはバリデーションエラー", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/"+habit.HabitID.String()+"/completions",
			&userID, model.CompleteHabitRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var errResp model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
	})

	t.Run("異常系: 存在しない習慣は404", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/"+uuid.NewString()+"/completions",
			&userID, model.CompleteHabitRequest{Date: "2026-03-10"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("異常系: habit_idが不正な形式は400", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/not-a-uuid/completions",
			&userID, model.CompleteHabitRequest{Date: "2026-03-10"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHabitHandler_UndoCompletion(t *testing.T) {
	router, db := setupTestServer(t)
	userID := uuid.New()
	habit := createHabitViaDB(t, db, userID)

	t.Run("正常系: 記録した完了を取り消せる", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/"+habit.HabitID.String()+"/completions",
			&userID, model.CompleteHabitRequest{Date: "2026-03-09"})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doRequest(t, router, "DELETE", "/api/v1/habits/"+habit.HabitID.String()+"/completions/2026-03-09",
			&userID, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp model.UndoCompletionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 10, resp.XPLost)
		assert.Equal(t, 0, resp.NewStreak)
	})

	t.Run("正常系: 記録のない日の取り消しは204", func(t *testing.T) {
		rr := doRequest(t, router, "DELETE", "/api/v1/habits/"+habit.HabitID.String()+"/completions/2026-02-01",
			&userID, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestHabitHandler_BulkApply(t *testing.T) {
	router, db := setupTestServer(t)
	userID := uuid.New()
	habit := createHabitViaDB(t, db, userID)

	t.Run("正常系: 一括編集が適用される", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/bulk", &userID, model.BulkApplyRequest{
			Updates: []model.BulkUpdate{
				{HabitID: habit.HabitID, Date: "2026-03-08", Completed: true},
				{HabitID: habit.HabitID, Date: "2026-03-09", Completed: true},
			},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp model.BulkApplyResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.AppliedCount)
		assert.Empty(t, resp.FailedHabitIDs)
	})

	t.Run("異常系: 空のupdatesはバリデーションエラー", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/habits/bulk", &userID, model.BulkApplyRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTemplateHandler_InstantiateTemplate(t *testing.T) {
	router, db := setupTestServer(t)
	userID := uuid.New()

	t.Run("正常系: カタログコードで展開できる", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/templates/instantiate", &userID,
			model.InstantiateTemplateRequest{CatalogCode: "morning-foundations"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp model.InstantiateTemplateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Len(t, resp.HabitIDs, 3)

		var count int64
		require.NoError(t, db.Model(&model.Habit{}).Where("user_id = ?", userID).Count(&count).Error)
		assert.Equal(t, int64(3), count)
	})

	t.Run("異常系: 二重展開は409", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/v1/templates/instantiate", &userID,
			model.InstantiateTemplateRequest{CatalogCode: "morning-foundations"})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("正常系: カタログ一覧を取得できる", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/v1/templates/", &userID, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var templates []*model.HabitTemplate
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &templates))
		assert.NotEmpty(t, templates)
	})
}
