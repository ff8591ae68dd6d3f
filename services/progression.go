package services

import (
	"errors"
	"fmt"
	"time"

	"hunter-progression-system/models"
	"hunter-progression-system/progression"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressionService struct {
	DB      *gorm.DB
	Weights progression.XPWeights
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db, Weights: progression.DefaultXPWeights}
}

// SeedAchievementCatalog inserts any catalog definitions missing from the
// achievement_types table. Idempotent; safe to run on every startup.
func (s *ProgressionService) SeedAchievementCatalog() error {
	for _, def := range progression.Catalog {
		row := models.AchievementTypeFromDef(def)
		err := s.DB.Where("code = ?", def.Code).FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", def.Code, err)
		}
	}
	return nil
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.Where("user_id = ?", userID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state := progression.NewState()
		prog = models.UserProgress{UserID: userID}
		prog.ApplyState(state)
		if err := s.DB.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// lockProgress fetches the user's progress row FOR UPDATE so concurrent
// grants for the same user serialize on the row lock.
func (s *ProgressionService) lockProgress(tx *gorm.DB, userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&prog).Error
	if err != nil {
		return nil, fmt.Errorf("progress record not found for %s: %w", userID, err)
	}
	return &prog, nil
}

// ActivityResult is the outcome of one XP-granting action.
type ActivityResult struct {
	XPGained      int64                      `json:"xp_gained"`
	LevelUp       progression.LevelUpResult  `json:"level_up"`
	Notifications []progression.Notification `json:"notifications"`
}

// GrantXP atomically adds XP and recomputes level/rank without touching counters.
func (s *ProgressionService) GrantXP(userID string, xp int64, reason string) (*ActivityResult, error) {
	var result *ActivityResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.applyInTx(tx, userID, "", 0, xp, reason)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessActivity increments a progress counter, grants the activity's XP
// and evaluates achievements. The whole batch commits atomically or not at all.
func (s *ProgressionService) ProcessActivity(userID string, counter progression.Counter, delta, xp int64, reason string) (*ActivityResult, error) {
	var result *ActivityResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.applyInTx(tx, userID, counter, delta, xp, reason)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyInTx does the actual mutation inside an already-open transaction.
// An empty counter means XP-only (admin grants, quest rewards add their own
// counter explicitly).
func (s *ProgressionService) applyInTx(tx *gorm.DB, userID string, counter progression.Counter, delta, xp int64, reason string) (*ActivityResult, error) {
	prog, err := s.lockProgress(tx, userID)
	if err != nil {
		return nil, err
	}

	state := prog.ToState()
	if counter != "" {
		if err := state.RecordActivity(counter, delta); err != nil {
			return nil, err
		}
	}
	levelRes, err := state.GrantXP(xp)
	if err != nil {
		return nil, err
	}

	earnedSet, err := s.earnedCodes(tx, userID)
	if err != nil {
		return nil, err
	}
	newly := state.EvaluateAchievements(earnedSet)
	if err := s.recordEarned(tx, userID, newly); err != nil {
		return nil, err
	}

	prog.ApplyState(state)
	now := time.Now()
	if levelRes.LeveledUp {
		prog.LastLevelUpAt = &now
	}
	if levelRes.RankedUp {
		prog.LastRankUpAt = &now
	}
	if err := tx.Save(prog).Error; err != nil {
		return nil, err
	}

	fmt.Printf("🎮 XP Awarded: %s → XP=%d, Lvl=%d, Rank=%s (reason: %s)\n",
		userID, prog.XP, prog.Level, prog.Rank, reason)

	return &ActivityResult{
		XPGained:      xp,
		LevelUp:       levelRes,
		Notifications: progression.CollectNotifications(levelRes, newly),
	}, nil
}

// earnedCodes returns the set of achievement codes the user already holds.
func (s *ProgressionService) earnedCodes(tx *gorm.DB, userID string) (map[string]bool, error) {
	var codes []string
	err := tx.Model(&models.EarnedAchievement{}).
		Joins("INNER JOIN achievement_types ON achievement_types.id = earned_achievements.achievement_type_id").
		Where("earned_achievements.user_id = ?", userID).
		Pluck("achievement_types.code", &codes).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set, nil
}

func (s *ProgressionService) recordEarned(tx *gorm.DB, userID string, defs []progression.AchievementDef) error {
	for _, def := range defs {
		var at models.AchievementType
		if err := tx.Where("code = ?", def.Code).First(&at).Error; err != nil {
			return fmt.Errorf("achievement %s not seeded: %w", def.Code, err)
		}
		earned := models.EarnedAchievement{
			UserID:            userID,
			AchievementTypeID: at.ID,
		}
		if err := tx.Create(&earned).Error; err != nil {
			return err
		}
		fmt.Printf("🎖️ Achievement earned: %s → %s\n", def.Title, userID)
	}
	return nil
}

// QuestCompletionResult reports a quest completion. AlreadyCompleted marks
// the idempotent replay: no XP granted, nothing changed.
type QuestCompletionResult struct {
	AlreadyCompleted bool                       `json:"already_completed"`
	XPGained         int64                      `json:"xp_gained"`
	Notifications    []progression.Notification `json:"notifications"`
}

// CompleteQuest flips the quest's one-way completed flag and grants its XP
// reward. The completed-check and the grant run in one transaction with the
// quest row locked, so two concurrent completions cannot both grant XP.
func (s *ProgressionService) CompleteQuest(userID, questID string) (*QuestCompletionResult, error) {
	var result *QuestCompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", questID, userID).
			First(&quest).Error
		if err != nil {
			return err
		}

		if quest.Completed {
			result = &QuestCompletionResult{AlreadyCompleted: true}
			return nil
		}

		now := time.Now()
		quest.Completed = true
		quest.CompletedAt = &now
		if err := tx.Save(&quest).Error; err != nil {
			return err
		}

		activity, err := s.applyInTx(tx, userID,
			progression.CounterQuestsCompleted, 1, quest.XPReward,
			fmt.Sprintf("quest_%s", quest.Slug))
		if err != nil {
			return err
		}

		result = &QuestCompletionResult{
			XPGained:      activity.XPGained,
			Notifications: activity.Notifications,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateLoginStreak advances the consecutive-day login counter for today.
// Invoked on session start; repeat calls the same day are no-ops.
func (s *ProgressionService) UpdateLoginStreak(userID string, today time.Time) (int, error) {
	var streak int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := s.lockProgress(tx, userID)
		if err != nil {
			return err
		}
		state := prog.ToState()
		streak = state.UpdateLoginStreak(today)
		prog.ApplyState(state)
		return tx.Save(prog).Error
	})
	if err != nil {
		return 0, err
	}
	return streak, nil
}

// GetProgressSnapshot is a pure read of the user's progress view. It never
// writes; a missing progress record surfaces as gorm.ErrRecordNotFound.
func (s *ProgressionService) GetProgressSnapshot(userID string) (*progression.ProgressSnapshot, error) {
	var prog models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return nil, err
	}

	earned, err := s.GetEarnedAchievements(userID)
	if err != nil {
		return nil, err
	}

	refs := make([]progression.EarnedRef, len(earned))
	for i, ea := range earned {
		refs[i] = progression.EarnedRef{
			Code:     ea.AchievementType.Code,
			Title:    ea.AchievementType.Title,
			EarnedAt: ea.EarnedAt,
		}
	}

	state := prog.ToState()
	snap := state.Snapshot(refs)
	return &snap, nil
}

// GetEarnedAchievements lists the user's achievements with their timestamps.
func (s *ProgressionService) GetEarnedAchievements(userID string) ([]models.EarnedAchievement, error) {
	var earned []models.EarnedAchievement
	err := s.DB.Preload("AchievementType").
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&earned).Error
	return earned, err
}

// GetLeaderboard returns the top hunters by XP.
func (s *ProgressionService) GetLeaderboard(limit int) ([]models.UserProgress, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var top []models.UserProgress
	err := s.DB.Order("xp DESC").Limit(limit).Find(&top).Error
	return top, err
}
