// internal/service/habit_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitkeep/internal/config"
	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
	"habitkeep/internal/repository"
)

// HabitService は完了記録とその取り消しを扱います
type HabitService interface {
	CompleteHabit(ctx context.Context, userID, habitID uuid.UUID, req *model.CompleteHabitRequest) (*model.CompleteHabitResponse, error)
	UndoCompletion(ctx context.Context, userID, habitID uuid.UUID, date string) (*model.UndoCompletionResponse, error)
	GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*model.Habit, error)
}

type habitService struct {
	db        *gorm.DB
	habitRepo repository.HabitRepository
	compRepo  repository.CompletionRepository
	progRepo  repository.TemplateProgressRepository
	statsRepo repository.UserStatsRepository
	notifier  Notifier
	cfg       config.AppConfig
	now       func() time.Time // テストで固定できるようにする
}

func NewHabitService(
	db *gorm.DB,
	habitRepo repository.HabitRepository,
	compRepo repository.CompletionRepository,
	progRepo repository.TemplateProgressRepository,
	statsRepo repository.UserStatsRepository,
	notifier Notifier,
	cfg config.AppConfig,
) HabitService {
	return &habitService{
		db:        db,
		habitRepo: habitRepo,
		compRepo:  compRepo,
		progRepo:  progRepo,
		statsRepo: statsRepo,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

// parseCompletionDate は "2006-01-02" の暦日を検証付きでパースします。
// 未来日は記録できません。
func parseCompletionDate(dateStr string, now time.Time) (time.Time, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, model.NewAppError("INVALID_COMPLETION", "日付の形式が正しくありません。", "date", model.ErrInvalidInput)
	}
	date = model.DateOnly(date)
	if date.After(model.DateOnly(now)) {
		return time.Time{}, model.NewAppError("INVALID_COMPLETION", "未来の日付には記録できません。", "date", model.ErrInvalidInput)
	}
	return date, nil
}

func (s *habitService) CompleteHabit(ctx context.Context, userID, habitID uuid.UUID, req *model.CompleteHabitRequest) (*model.CompleteHabitResponse, error) {
	logger := middleware.GetLogger(ctx)

	date, err := parseCompletionDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}

	tier := model.TierNormal
	if req.Tier != "" {
		tier = model.CompletionTier(req.Tier)
		if tier != model.TierNormal && tier != model.TierStretch {
			return nil, model.NewAppError("INVALID_COMPLETION", "達成度の指定が正しくありません。", "tier", model.ErrInvalidInput)
		}
	}

	completedAt := s.now()
	if req.CompletedAt != nil {
		completedAt, err = time.Parse(time.RFC3339, *req.CompletedAt)
		if err != nil {
			return nil, model.NewAppError("INVALID_COMPLETION", "完了時刻の形式が正しくありません。", "completed_at", model.ErrInvalidInput)
		}
	}

	var resp *model.CompleteHabitResponse

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habit, err := s.habitRepo.FindByIDForUpdate(ctx, tx, userID, habitID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "習慣が見つかりません。", "habit_id", model.ErrNotFound)
			}
			logger.Error("Error finding habit for completion", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		history, err := s.compRepo.ListByHabit(ctx, tx, habitID)
		if err != nil {
			logger.Error("Error listing completion history", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		// 同一暦日の既存記録 (あれば上書きになる)。上書き時の精算のため付与済み額を控えておく
		var existing *model.CompletionRecord
		priorXP, priorCoins := 0, 0
		for _, rec := range history {
			if rec.Date.Equal(date) {
				existing = rec
				priorXP = rec.XPAwarded
				priorCoins = rec.CoinsAwarded
				break
			}
		}

		streak := ComputeStreak(habit, history, date)
		newStreak := streak.Current
		if existing != nil && existing.Completed {
			// 同日再記録はストリークを動かさない
			newStreak = habit.CurrentStreak
		}

		// テンプレート文脈の収集
		var tctx *TemplateContext
		var progress *model.TemplateProgress
		if habit.TemplateID != nil {
			progress, err = s.progRepo.FindByTemplate(ctx, tx, userID, *habit.TemplateID)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error finding template progress", "error", err, "template_id", *habit.TemplateID)
				return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
			}
			if progress != nil {
				siblings, err := s.habitRepo.FindByTemplate(ctx, tx, userID, *habit.TemplateID)
				if err != nil {
					logger.Error("Error listing template habits", "error", err, "template_id", *habit.TemplateID)
					return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
				}
				var avgRate float64
				if len(siblings) > 0 {
					var sum float64
					for _, sib := range siblings {
						sum += sib.SuccessRate
					}
					avgRate = sum / float64(len(siblings))
				}

				sameDay, err := s.compRepo.CountForTemplateOnDate(ctx, tx, userID, *habit.TemplateID, date)
				if err != nil {
					logger.Error("Error counting template completions", "error", err, "template_id", *habit.TemplateID)
					return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
				}
				if existing == nil || !existing.Completed {
					sameDay++ // この完了自身を含める
				}

				tctx = &TemplateContext{
					Progress:         progress,
					SuccessRate:      avgRate,
					CompletedSameDay: int(sameDay),
					Milestones:       milestonesForTemplate(progress.TemplateCode),
				}
			}
		}

		calc := CalculateRewards(s.cfg, habit, CompletionDetails{
			Date:          date,
			CompletedAt:   completedAt,
			Tier:          tier,
			DaysSinceLast: streak.DaysSinceLast,
		}, tctx)

		// マイルストーン支払い分は記録上で識別できるよう分離して持つ。
		// 同日の再記録では支払い済み分を新しい記録へ引き継ぐことで、
		// 上書きの精算が支払い済みマイルストーンを取り消さないようにする
		awardXP, awardCoins := calc.TotalXP, calc.TotalCoins
		msXP, msCoins, msGems := milestonePortion(calc)
		if existing != nil && msXP == 0 && msCoins == 0 && msGems == 0 {
			msXP, msCoins, msGems = existing.MilestoneXP, existing.MilestoneCoins, existing.MilestoneGems
			awardXP += msXP
			awardCoins += msCoins
		}

		rec := &model.CompletionRecord{
			CompletionID:   uuid.New(),
			HabitID:        habitID,
			Date:           date,
			Completed:      true,
			CompletedAt:    completedAt,
			XPAwarded:      awardXP,
			CoinsAwarded:   awardCoins,
			MilestoneXP:    msXP,
			MilestoneCoins: msCoins,
			MilestoneGems:  msGems,
			Tier:           tier,
			Method:         model.MethodManual,
			Note:           req.Note,
		}
		if err := s.compRepo.Upsert(ctx, tx, rec); err != nil {
			logger.Error("Error upserting completion record", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "記録の保存に失敗しました。", "", model.ErrInternalServer)
		}

		// 導出キャッシュの更新 (新しい記録を含めた履歴から再導出)
		updatedHistory := history
		if existing == nil {
			updatedHistory = append(updatedHistory, rec)
		} else {
			*existing = *rec
		}
		habit.CurrentStreak = newStreak
		if newStreak > habit.LongestStreak {
			habit.LongestStreak = newStreak
		}
		habit.Strength = strengthFromHistory(updatedHistory)
		habit.SuccessRate = successRateFromHistory(updatedHistory, habit.CreatedAt)
		if err := s.habitRepo.Update(ctx, tx, habit); err != nil {
			logger.Error("Error updating habit caches", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		// マイルストーンは一度だけ支払う
		for _, sp := range calc.SpecialRewards {
			if sp.Type == model.SpecialMilestone && progress != nil {
				progress.ReachedMilestones = append(progress.ReachedMilestones, progress.ElapsedDay(date))
				if err := s.progRepo.Update(ctx, tx, progress); err != nil {
					logger.Error("Error updating template progress", "error", err, "template_id", progress.TemplateID)
					return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
				}
				break
			}
		}

		stats, err := s.statsRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			logger.Error("Error loading user stats", "error", err, "user_id", userID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}
		// 同日上書きの場合は前回付与分を精算してから加算する。
		// 引き継いだマイルストーン分は awardXP と priorXP の両方に含まれる
		// ため差し引きで相殺され、二重払いも取り消しも起きない
		stats.TotalXP += awardXP - priorXP
		stats.TotalCoins += awardCoins - priorCoins
		stats.TotalGems += calc.BonusGems
		if err := s.statsRepo.Update(ctx, tx, stats); err != nil {
			logger.Error("Error updating user stats", "error", err, "user_id", userID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		resp = &model.CompleteHabitResponse{
			HabitID:        habitID,
			NewStreak:      newStreak,
			XPEarned:       calc.TotalXP,
			CoinsEarned:    calc.TotalCoins,
			SpecialRewards: calc.SpecialRewards,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 通知はコミット後にのみ送る。失敗してもAPIのレスポンスには影響させない
	for _, sp := range resp.SpecialRewards {
		n := model.Notification{Type: sp.Type, Title: "おめでとうございます！", Message: sp.Message}
		if err := s.notifier.Push(ctx, userID, n); err != nil {
			logger.Warn("Failed to push reward notification", "error", err, "type", sp.Type)
		}
	}

	logger.Info("Habit completed", "habit_id", habitID, "date", req.Date, "new_streak", resp.NewStreak, "xp", resp.XPEarned)
	return resp, nil
}

// milestonePortion は報酬明細からマイルストーン支払い分を取り出します
func milestonePortion(calc *model.RewardCalculation) (xp, coins, gems int) {
	for _, sp := range calc.SpecialRewards {
		if sp.Type == model.SpecialMilestone {
			return sp.XP, sp.Coins, sp.Gems
		}
	}
	return 0, 0, 0
}

func (s *habitService) UndoCompletion(ctx context.Context, userID, habitID uuid.UUID, dateStr string) (*model.UndoCompletionResponse, error) {
	logger := middleware.GetLogger(ctx)

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, model.NewAppError("INVALID_COMPLETION", "日付の形式が正しくありません。", "date", model.ErrInvalidInput)
	}
	date = model.DateOnly(date)

	var resp *model.UndoCompletionResponse

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habit, err := s.habitRepo.FindByIDForUpdate(ctx, tx, userID, habitID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "習慣が見つかりません。", "habit_id", model.ErrNotFound)
			}
			logger.Error("Error finding habit for undo", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		rec, err := s.compRepo.FindByDate(ctx, tx, habitID, date)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// 存在しない記録の取り消しは何もしない (冪等)
				resp = nil
				return nil
			}
			logger.Error("Error finding completion record for undo", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		if _, err := s.compRepo.Delete(ctx, tx, habitID, date); err != nil {
			logger.Error("Error deleting completion record", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "記録の削除に失敗しました。", "", model.ErrInternalServer)
		}

		history, err := s.compRepo.ListByHabit(ctx, tx, habitID)
		if err != nil {
			logger.Error("Error listing history after undo", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		// 編集後の履歴だけを信頼して全量を導出し直す。
		// これにより complete → undo の往復で状態が厳密に元へ戻る。
		current, longest := RecomputeFromHistory(history)
		habit.CurrentStreak = current
		habit.LongestStreak = longest
		habit.Strength = strengthFromHistory(history)
		habit.SuccessRate = successRateFromHistory(history, habit.CreatedAt)
		if err := s.habitRepo.Update(ctx, tx, habit); err != nil {
			logger.Error("Error updating habit caches after undo", "error", err, "habit_id", habitID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		// 取り消した記録がマイルストーンを支払っていた場合は到達済みマークも
		// 戻し、再完了で改めて支払えるようにする
		if habit.TemplateID != nil && (rec.MilestoneXP > 0 || rec.MilestoneCoins > 0 || rec.MilestoneGems > 0) {
			progress, err := s.progRepo.FindByTemplate(ctx, tx, userID, *habit.TemplateID)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error finding template progress for undo", "error", err, "template_id", *habit.TemplateID)
				return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
			}
			if progress != nil {
				progress.Unreach(progress.ElapsedDay(date))
				if err := s.progRepo.Update(ctx, tx, progress); err != nil {
					logger.Error("Error updating template progress for undo", "error", err, "template_id", *habit.TemplateID)
					return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
				}
			}
		}

		stats, err := s.statsRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			logger.Error("Error loading user stats for undo", "error", err, "user_id", userID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}
		// 付与額はジェムも含めて全額取り消す。マイルストーンは再到達可能に
		// 戻るため、ジェムを残すと再完了時に二重払いになる
		stats.TotalXP -= rec.XPAwarded
		stats.TotalCoins -= rec.CoinsAwarded
		stats.TotalGems -= rec.MilestoneGems
		if err := s.statsRepo.Update(ctx, tx, stats); err != nil {
			logger.Error("Error updating user stats for undo", "error", err, "user_id", userID)
			return model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
		}

		resp = &model.UndoCompletionResponse{
			HabitID:   habitID,
			XPLost:    rec.XPAwarded,
			CoinsLost: rec.CoinsAwarded,
			NewStreak: current,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp != nil {
		logger.Info("Completion undone", "habit_id", habitID, "date", dateStr, "xp_lost", resp.XPLost)
	}
	return resp, nil
}

func (s *habitService) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*model.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, s.db, userID, habitID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "習慣が見つかりません。", "habit_id", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Error finding habit", "error", err, "habit_id", habitID)
		return nil, model.NewAppError("DB_ERROR", "処理中にエラーが発生しました。", "", model.ErrInternalServer)
	}
	return habit, nil
}
