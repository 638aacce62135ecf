package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"habitkeep/internal/config"
	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
)

type Notifier interface {
	Push(ctx context.Context, userID uuid.UUID, n model.Notification) error
}

// --- LogNotifier ---
type LogNotifier struct{}

func (m *LogNotifier) Push(ctx context.Context, userID uuid.UUID, n model.Notification) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Pushing notification (LogNotifier) ---",
		"user_id", userID,
		"type", n.Type,
		"title", n.Title,
		"message", n.Message,
	)
	return nil
}

// --- NewNotifier ファクトリ関数 ---
func NewNotifier(cfg *config.Config) Notifier {
	logger := slog.Default()
	switch cfg.Notifier.Type {
	case "ses":
		logger.Info("Initializing SES notifier...")
		return NewSESNotifier(cfg)
	case "log":
		logger.Info("Initializing Log notifier...")
		return &LogNotifier{}
	default:
		logger.Warn("Unknown notifier type, defaulting to LogNotifier", "type", cfg.Notifier.Type)
		return &LogNotifier{}
	}
}
