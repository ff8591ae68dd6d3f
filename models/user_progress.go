package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hunter-progression-system/progression"
)

// UserProgress tracks gamified progression for each user (denormalized for performance)
type UserProgress struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	// Core progression
	XP    int64  `json:"xp" gorm:"default:0"`
	Level int    `json:"level" gorm:"default:1"`
	Rank  string `json:"rank" gorm:"type:varchar(32);default:'E-Rank Hunter'"`

	// System-defined base stats, explicit columns instead of a JSON blob
	Strength     int `json:"strength" gorm:"default:10"`
	Intelligence int `json:"intelligence" gorm:"default:10"`
	Agility      int `json:"agility" gorm:"default:10"`
	Willpower    int `json:"willpower" gorm:"default:10"`
	Discipline   int `json:"discipline" gorm:"default:10"`

	// Progress counters (closed set)
	MeditationStreak int64 `json:"meditation_streak" gorm:"default:0"`
	BooksRead        int64 `json:"books_read" gorm:"default:0"`
	HabitsCompleted  int64 `json:"habits_completed" gorm:"default:0"`
	GoalsAchieved    int64 `json:"goals_achieved" gorm:"default:0"`
	QuestsCompleted  int64 `json:"quests_completed" gorm:"default:0"`

	// Login streak
	LastActiveDate *time.Time `json:"last_active_date,omitempty" gorm:"type:date"`
	LoginStreak    int        `json:"login_streak" gorm:"default:0"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`
	LastRankUpAt  *time.Time `json:"last_rank_up_at,omitempty"`

	Timestamps
}

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ToState copies the persisted row into the plain record the progression
// engine mutates.
func (p *UserProgress) ToState() progression.State {
	return progression.State{
		XP:    p.XP,
		Level: p.Level,
		Rank:  p.Rank,
		Stats: progression.CoreStats{
			Strength:     p.Strength,
			Intelligence: p.Intelligence,
			Agility:      p.Agility,
			Willpower:    p.Willpower,
			Discipline:   p.Discipline,
		},
		Counters: progression.CounterSet{
			MeditationStreak: p.MeditationStreak,
			BooksRead:        p.BooksRead,
			HabitsCompleted:  p.HabitsCompleted,
			GoalsAchieved:    p.GoalsAchieved,
			QuestsCompleted:  p.QuestsCompleted,
		},
		LastActiveDate: p.LastActiveDate,
		LoginStreak:    p.LoginStreak,
	}
}

// ApplyState writes an engine-mutated record back onto the row.
func (p *UserProgress) ApplyState(s progression.State) {
	p.XP = s.XP
	p.Level = s.Level
	p.Rank = s.Rank
	p.Strength = s.Stats.Strength
	p.Intelligence = s.Stats.Intelligence
	p.Agility = s.Stats.Agility
	p.Willpower = s.Stats.Willpower
	p.Discipline = s.Stats.Discipline
	p.MeditationStreak = s.Counters.MeditationStreak
	p.BooksRead = s.Counters.BooksRead
	p.HabitsCompleted = s.Counters.HabitsCompleted
	p.GoalsAchieved = s.Counters.GoalsAchieved
	p.QuestsCompleted = s.Counters.QuestsCompleted
	p.LastActiveDate = s.LastActiveDate
	p.LoginStreak = s.LoginStreak
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
