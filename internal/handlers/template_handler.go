// internal/handlers/template_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
	"habitkeep/internal/service"
	"habitkeep/internal/webutil"
)

type TemplateHandler struct {
	service service.TemplateService
	logger  *slog.Logger
}

func NewTemplateHandler(s service.TemplateService, logger *slog.Logger) *TemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateHandler{
		service: s,
		logger:  logger,
	}
}

// InstantiateTemplate はテンプレートを展開して習慣一式を作成するためのハンドラ
func (h *TemplateHandler) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "InstantiateTemplate"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "ユーザー情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.InstantiateTemplateRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}

	resp, err := h.service.InstantiateTemplate(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrConflict):
			logger.Info("Template already instantiated", slog.Any("error", err))
		case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrInvalidInput):
			logger.Info("Instantiation rejected", slog.Any("error", err))
		default:
			logger.Error("Error instantiating template in service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Template instantiated successfully", slog.Int("habit_count", len(resp.HabitIDs)))
	webutil.RespondWithJSON(w, http.StatusCreated, resp)
}

// ListTemplates は組み込みテンプレートカタログを返すためのハンドラ
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := h.service.ListCatalog(r.Context())
	webutil.RespondWithJSON(w, http.StatusOK, templates)
}
