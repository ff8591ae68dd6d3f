package models

import "time"

// Quest is a user-created task with a fixed XP reward and a one-way
// completed flag. Completing it is what feeds the progression engine.
type Quest struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"index" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	Difficulty string `json:"difficulty" gorm:"type:varchar(2);check:difficulty IN ('E','D','C','B','A','S')"`
	XPReward   int64  `json:"xp_reward" gorm:"default:100"`
	QuestType  string `json:"quest_type" gorm:"type:varchar(16);check:quest_type IN ('daily','weekly','achievement')"`

	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Expired     bool       `json:"expired" gorm:"default:false;index"`

	Timestamps
}
