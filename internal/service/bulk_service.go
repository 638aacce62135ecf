// internal/service/bulk_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitkeep/internal/config"
	"habitkeep/internal/middleware"
	"habitkeep/internal/model"
	"habitkeep/internal/repository"
)

// BulkService は過去日の埋め戻しと一括編集を扱います
type BulkService interface {
	BulkApply(ctx context.Context, userID uuid.UUID, req *model.BulkApplyRequest) (*model.BulkApplyResponse, error)
}

type bulkService struct {
	db        *gorm.DB
	habitRepo repository.HabitRepository
	compRepo  repository.CompletionRepository
	progRepo  repository.TemplateProgressRepository
	statsRepo repository.UserStatsRepository
	cfg       config.AppConfig
	now       func() time.Time
}

func NewBulkService(
	db *gorm.DB,
	habitRepo repository.HabitRepository,
	compRepo repository.CompletionRepository,
	progRepo repository.TemplateProgressRepository,
	statsRepo repository.UserStatsRepository,
	cfg config.AppConfig,
) BulkService {
	return &bulkService{
		db:        db,
		habitRepo: habitRepo,
		compRepo:  compRepo,
		progRepo:  progRepo,
		statsRepo: statsRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

// parsedBulkUpdate は日付を正規化済みの編集項目です
type parsedBulkUpdate struct {
	model.BulkUpdate
	date time.Time
}

// BulkApply は編集項目を習慣ごとにまとめて適用します。
// 習慣単位でトランザクションを切るため、ある習慣の失敗は他の習慣に
// 波及しません。失敗した習慣は FailedHabitIDs で報告されます。
//
// 一括適用の記録は基礎報酬のみ (ボーナスなし、method=batch) で付与され、
// ストリークと強度は適用後の履歴全体から再導出されます。
func (s *bulkService) BulkApply(ctx context.Context, userID uuid.UUID, req *model.BulkApplyRequest) (*model.BulkApplyResponse, error) {
	logger := middleware.GetLogger(ctx)

	if len(req.Updates) == 0 {
		return nil, model.NewAppError("INVALID_BULK", "編集項目が空です。", "updates", model.ErrInvalidInput)
	}
	if len(req.Updates) > s.cfg.BulkLimit {
		return nil, model.NewAppError("INVALID_BULK",
			fmt.Sprintf("一括編集は%d件までです。", s.cfg.BulkLimit), "updates", model.ErrInvalidInput)
	}

	// 日付は適用前に全件検証する。1件でも不正ならリクエスト全体を拒否する
	today := model.DateOnly(s.now())
	byHabit := make(map[uuid.UUID][]parsedBulkUpdate)
	var order []uuid.UUID
	for i, u := range req.Updates {
		date, err := time.Parse("2006-01-02", u.Date)
		if err != nil {
			return nil, model.NewAppError("INVALID_BULK",
				fmt.Sprintf("updates[%d] の日付の形式が正しくありません。", i), "date", model.ErrInvalidInput)
		}
		date = model.DateOnly(date)
		if date.After(today) {
			return nil, model.NewAppError("INVALID_BULK",
				fmt.Sprintf("updates[%d] は未来の日付です。", i), "date", model.ErrInvalidInput)
		}
		if _, ok := byHabit[u.HabitID]; !ok {
			order = append(order, u.HabitID)
		}
		byHabit[u.HabitID] = append(byHabit[u.HabitID], parsedBulkUpdate{BulkUpdate: u, date: date})
	}

	resp := &model.BulkApplyResponse{}
	for _, habitID := range order {
		updates := byHabit[habitID]
		if err := s.applyForHabit(ctx, userID, habitID, updates); err != nil {
			logger.Warn("Bulk apply failed for habit", "error", err, "habit_id", habitID, "updates", len(updates))
			resp.FailedHabitIDs = append(resp.FailedHabitIDs, habitID)
			continue
		}
		resp.AppliedCount += len(updates)
	}

	logger.Info("Bulk apply finished", "applied", resp.AppliedCount, "failed_habits", len(resp.FailedHabitIDs))
	return resp, nil
}

// applyForHabit は1つの習慣への編集を単一トランザクションで適用します
func (s *bulkService) applyForHabit(ctx context.Context, userID, habitID uuid.UUID, updates []parsedBulkUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habit, err := s.habitRepo.FindByIDForUpdate(ctx, tx, userID, habitID)
		if err != nil {
			return err
		}

		history, err := s.compRepo.ListByHabit(ctx, tx, habitID)
		if err != nil {
			return err
		}
		prior := make(map[time.Time]*model.CompletionRecord, len(history))
		for _, rec := range history {
			prior[model.DateOnly(rec.Date)] = rec
		}

		var xpDelta, coinsDelta, gemsDelta int
		for _, u := range updates {
			existing := prior[u.date]
			if u.Completed {
				rec := &model.CompletionRecord{
					CompletionID: uuid.New(),
					HabitID:      habitID,
					Date:         u.date,
					Completed:    true,
					CompletedAt:  u.date,
					XPAwarded:    habit.BaseXP,
					CoinsAwarded: habit.BaseCoins,
					Tier:         model.TierNormal,
					Method:       model.MethodBatch,
					Note:         u.Note,
				}
				// 上書きされる記録が支払い済みマイルストーンを持つ場合は
				// 引き継ぎ、精算で取り消されないようにする
				if existing != nil {
					rec.MilestoneXP = existing.MilestoneXP
					rec.MilestoneCoins = existing.MilestoneCoins
					rec.MilestoneGems = existing.MilestoneGems
					rec.XPAwarded += rec.MilestoneXP
					rec.CoinsAwarded += rec.MilestoneCoins
				}
				if err := s.compRepo.Upsert(ctx, tx, rec); err != nil {
					return err
				}
				if existing != nil {
					xpDelta -= existing.XPAwarded
					coinsDelta -= existing.CoinsAwarded
					*existing = *rec
				} else {
					prior[u.date] = rec
				}
				xpDelta += rec.XPAwarded
				coinsDelta += rec.CoinsAwarded
			} else {
				deleted, err := s.compRepo.Delete(ctx, tx, habitID, u.date)
				if err != nil {
					return err
				}
				if deleted && existing != nil {
					xpDelta -= existing.XPAwarded
					coinsDelta -= existing.CoinsAwarded
					gemsDelta -= existing.MilestoneGems
					if err := s.rollbackMilestone(ctx, tx, userID, habit, existing); err != nil {
						return err
					}
					delete(prior, u.date)
				}
			}
		}

		// 適用後の履歴からストリークと強度を再導出する
		finalHistory := make([]*model.CompletionRecord, 0, len(prior))
		for _, rec := range prior {
			finalHistory = append(finalHistory, rec)
		}
		current, longest := RecomputeFromHistory(finalHistory)
		habit.CurrentStreak = current
		habit.LongestStreak = longest
		habit.Strength = strengthFromHistory(finalHistory)
		habit.SuccessRate = successRateFromHistory(finalHistory, habit.CreatedAt)
		if err := s.habitRepo.Update(ctx, tx, habit); err != nil {
			return err
		}

		if xpDelta != 0 || coinsDelta != 0 || gemsDelta != 0 {
			stats, err := s.statsRepo.GetOrCreate(ctx, tx, userID)
			if err != nil {
				return err
			}
			stats.TotalXP += xpDelta
			stats.TotalCoins += coinsDelta
			stats.TotalGems += gemsDelta
			if err := s.statsRepo.Update(ctx, tx, stats); err != nil {
				return err
			}
		}
		return nil
	})
}

// rollbackMilestone はマイルストーンを支払っていた記録の削除に伴い、
// 到達済みマークを戻して再到達を可能にします
func (s *bulkService) rollbackMilestone(ctx context.Context, tx *gorm.DB, userID uuid.UUID, habit *model.Habit, rec *model.CompletionRecord) error {
	if habit.TemplateID == nil || (rec.MilestoneXP == 0 && rec.MilestoneCoins == 0 && rec.MilestoneGems == 0) {
		return nil
	}
	progress, err := s.progRepo.FindByTemplate(ctx, tx, userID, *habit.TemplateID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}
	progress.Unreach(progress.ElapsedDay(rec.Date))
	return s.progRepo.Update(ctx, tx, progress)
}
