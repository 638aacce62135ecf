// internal/handlers/habit_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
	"habitkeep/internal/service"
	"habitkeep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type HabitHandler struct {
	habitService service.HabitService
	bulkService  service.BulkService
	logger       *slog.Logger
}

func NewHabitHandler(habitService service.HabitService, bulkService service.BulkService, logger *slog.Logger) *HabitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HabitHandler{
		habitService: habitService,
		bulkService:  bulkService,
		logger:       logger,
	}
}

// CompleteHabit は習慣の完了を記録するためのハンドラ
func (h *HabitHandler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CompleteHabit"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "ユーザー情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	habitIDStr := chi.URLParam(r, "habit_id")
	habitID, err := uuid.Parse(habitIDStr)
	if err != nil {
		logger.Warn("Invalid habit ID format in URL", slog.String("habit_id_str", habitIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "habit_idの形式が正しくありません。", "habit_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("habit_id", habitID.String()))

	var req model.CompleteHabitRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()), slog.Any("request", req))
			webutil.HandleError(w, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, err)
		}
		return
	}

	resp, err := h.habitService.CompleteHabit(r.Context(), userID, habitID, &req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidInput) {
			logger.Info("Completion rejected", slog.Any("error", err))
		} else {
			logger.Error("Error completing habit in service", slog.Any("error", err), slog.Any("request", req))
		}
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Habit completion recorded", slog.Int("new_streak", resp.NewStreak), slog.Int("xp", resp.XPEarned))
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// UndoCompletion は記録済みの完了を取り消すためのハンドラ
func (h *HabitHandler) UndoCompletion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UndoCompletion"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "ユーザー情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	habitIDStr := chi.URLParam(r, "habit_id")
	habitID, err := uuid.Parse(habitIDStr)
	if err != nil {
		logger.Warn("Invalid habit ID format in URL", slog.String("habit_id_str", habitIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "habit_idの形式が正しくありません。", "habit_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("habit_id", habitID.String()))

	date := chi.URLParam(r, "date")

	resp, err := h.habitService.UndoCompletion(r.Context(), userID, habitID, date)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Habit not found for undo", slog.Any("error", err))
		} else {
			logger.Error("Error undoing completion in service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	// 記録が存在しなかった場合は取り消すものがない
	if resp == nil {
		logger.Info("No completion record to undo", slog.String("date", date))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	logger.Info("Completion undone", slog.Int("xp_lost", resp.XPLost), slog.Int("new_streak", resp.NewStreak))
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// BulkApply は過去日の埋め戻しと一括編集のためのハンドラ
func (h *HabitHandler) BulkApply(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "BulkApply"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "ユーザー情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.BulkApplyRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			webutil.HandleError(w, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, err)
		}
		return
	}

	resp, err := h.bulkService.BulkApply(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error applying bulk updates in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Bulk updates applied", slog.Int("applied", resp.AppliedCount), slog.Int("failed_habits", len(resp.FailedHabitIDs)))
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// GetHabit は特定の習慣の現在状態を取得するためのハンドラ
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetHabit"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "ユーザー情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	habitIDStr := chi.URLParam(r, "habit_id")
	habitID, err := uuid.Parse(habitIDStr)
	if err != nil {
		logger.Warn("Invalid habit ID format in URL", slog.String("habit_id_str", habitIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "habit_idの形式が正しくありません。", "habit_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}

	habit, err := h.habitService.GetHabit(r.Context(), userID, habitID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Habit not found", slog.Any("error", err))
		} else {
			logger.Error("Error getting habit from service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, habit)
}
