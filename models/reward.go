package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardType indicates whether the reward is a shop item or a cosmetic title
type RewardType string

const (
	RewardTypeItem     RewardType = "item"
	RewardTypeCosmetic RewardType = "cosmetic"
)

type RewardCategory string

const (
	RewardCategoryLevelUp     RewardCategory = "levelup"
	RewardCategoryStreak      RewardCategory = "streak"
	RewardCategoryAchievement RewardCategory = "achievement"
	RewardCategoryMilestone   RewardCategory = "milestone"
	RewardCategoryOther       RewardCategory = "other"
)

// RewardStatus indicates the publishing status of the reward
type RewardStatus string

const (
	RewardStatusDraft     RewardStatus = "draft"
	RewardStatusPublished RewardStatus = "published"
	RewardStatusArchived  RewardStatus = "archived"
)

// Reward is a level-gated shop item a hunter can claim once their level
// reaches the reward's minimum level.
type Reward struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Type        RewardType     `gorm:"not null" json:"type"`
	Category    RewardCategory `gorm:"not null" json:"category"`
	ImageURL    string         `gorm:"type:text" json:"image_url"`
	Emoji       string         `gorm:"size:10" json:"emoji"`
	Excerpt     string         `gorm:"type:text" json:"excerpt"`
	ItemDetails string         `json:"item_details"`
	ExpiryDate  *time.Time     `json:"expiry_date,omitempty"`
	Claimed     bool           `gorm:"default:false" json:"claimed"`
	Viewed      bool           `gorm:"default:false;index" json:"viewed"`
	UserID      string         `gorm:"index" json:"user_id"` // empty until claimed
	MinLevel    int            `json:"min_level"`
	Status      RewardStatus   `gorm:"not null;default:'draft'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
