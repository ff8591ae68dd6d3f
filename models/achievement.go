package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hunter-progression-system/progression"
)

// AchievementType: static catalog row, seeded once from progression.Catalog
// and read-only afterwards.
type AchievementType struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "beginner-hunter"
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"type:varchar(32)" json:"category"` // quests, reading, meditation, ...
	Icon        string    `json:"icon"`
	XPBonus     int64     `json:"xp_bonus"`
	Counter     string    `gorm:"type:varchar(32);not null" json:"counter"`
	Threshold   int64     `gorm:"not null" json:"threshold"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *AchievementType) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// EarnedAchievement: awarded instance. The composite unique index makes
// re-earning a database-level no-op as well.
type EarnedAchievement struct {
	ID                string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID            string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementTypeID string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_type_id"`
	EarnedAt          time.Time `gorm:"autoCreateTime" json:"earned_at"`

	AchievementType AchievementType `gorm:"foreignKey:AchievementTypeID" json:"achievement_type,omitempty"`
}

func (e *EarnedAchievement) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// AchievementTypeFromDef maps a catalog definition onto its seed row.
func AchievementTypeFromDef(def progression.AchievementDef) AchievementType {
	return AchievementType{
		Code:        def.Code,
		Title:       def.Title,
		Description: def.Description,
		Category:    def.Category,
		Icon:        def.Icon,
		XPBonus:     def.XPBonus,
		Counter:     string(def.Counter),
		Threshold:   def.Threshold,
	}
}
