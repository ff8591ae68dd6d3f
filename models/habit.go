package models

import "time"

// Habit records a recurring practice with its own per-habit streak,
// separate from the account-wide login streak.
type Habit struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Frequency   string `json:"frequency" gorm:"type:varchar(16);check:frequency IN ('daily','weekly','monthly')"`

	CurrentStreak int        `json:"current_streak" gorm:"default:0"`
	BestStreak    int        `json:"best_streak" gorm:"default:0"`
	LastCompleted *time.Time `json:"last_completed,omitempty"`

	Timestamps
}
