package progression

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNegativeXP     = errors.New("xp amount must be non-negative")
	ErrUnknownCounter = errors.New("unknown progress counter")
)

// Counter names the closed set of tracked progress counters.
type Counter string

const (
	CounterMeditationStreak Counter = "meditation_streak"
	CounterBooksRead        Counter = "books_read"
	CounterHabitsCompleted  Counter = "habits_completed"
	CounterGoalsAchieved    Counter = "goals_achieved"
	CounterQuestsCompleted  Counter = "quests_completed"
)

// Counters lists every valid counter in a stable order.
var Counters = []Counter{
	CounterMeditationStreak,
	CounterBooksRead,
	CounterHabitsCompleted,
	CounterGoalsAchieved,
	CounterQuestsCompleted,
}

func (c Counter) Valid() bool {
	switch c {
	case CounterMeditationStreak, CounterBooksRead, CounterHabitsCompleted,
		CounterGoalsAchieved, CounterQuestsCompleted:
		return true
	}
	return false
}

// CoreStats are the five system-defined base stats. They start at 10 and
// grow only through level-ups.
type CoreStats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Agility      int `json:"agility"`
	Willpower    int `json:"willpower"`
	Discipline   int `json:"discipline"`
}

// CounterSet mirrors the progress counters with fixed fields (no duck-typed
// JSON blobs; the counter names are a small closed set).
type CounterSet struct {
	MeditationStreak int64 `json:"meditation_streak"`
	BooksRead        int64 `json:"books_read"`
	HabitsCompleted  int64 `json:"habits_completed"`
	GoalsAchieved    int64 `json:"goals_achieved"`
	QuestsCompleted  int64 `json:"quests_completed"`
}

// State is the plain progression record the engine operates on. Callers load
// it from storage, mutate it through the engine, and persist the result;
// the engine itself performs no I/O.
type State struct {
	XP    int64
	Level int
	Rank  string

	Stats    CoreStats
	Counters CounterSet

	// Login streak. LastActiveDate is a calendar date, not a timestamp.
	LastActiveDate *time.Time
	LoginStreak    int
}

// NewState returns the progression record for a fresh registration.
func NewState() State {
	return State{
		XP:    0,
		Level: 1,
		Rank:  RankForLevel(1),
		Stats: CoreStats{
			Strength:     10,
			Intelligence: 10,
			Agility:      10,
			Willpower:    10,
			Discipline:   10,
		},
	}
}

// LevelUpResult reports the outcome of a single XP grant.
type LevelUpResult struct {
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level,omitempty"`
	NewRank   string `json:"new_rank,omitempty"`
	RankedUp  bool   `json:"ranked_up,omitempty"`
}

// GrantXP adds a non-negative amount of XP and recomputes level and rank.
// Level is always the largest one whose threshold the new total meets; rank
// follows level. Nothing is mutated when the amount is invalid.
func (s *State) GrantXP(amount int64) (LevelUpResult, error) {
	if amount < 0 {
		return LevelUpResult{}, fmt.Errorf("%w: %d", ErrNegativeXP, amount)
	}

	oldLevel := s.Level
	oldRank := s.Rank

	s.XP += amount
	s.Level = LevelForXP(s.XP)
	s.Rank = RankForLevel(s.Level)

	res := LevelUpResult{}
	if s.Level > oldLevel {
		res.LeveledUp = true
		res.NewLevel = s.Level
		res.NewRank = s.Rank
		res.RankedUp = s.Rank != oldRank

		// Core stats grow with every level gained
		gained := s.Level - oldLevel
		s.Stats.Strength += gained
		s.Stats.Intelligence += gained
		s.Stats.Agility += gained
		s.Stats.Willpower += gained
		s.Stats.Discipline += gained
	}
	return res, nil
}

// RecordActivity increments the named progress counter. This is the only
// mutation path for counters; unknown names are rejected before any change.
func (s *State) RecordActivity(counter Counter, delta int64) error {
	ref := s.counterRef(counter)
	if ref == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	*ref += delta
	return nil
}

// CounterValue reads a counter by name, for catalog condition checks.
func (s *State) CounterValue(counter Counter) (int64, error) {
	ref := s.counterRef(counter)
	if ref == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	return *ref, nil
}

func (s *State) counterRef(counter Counter) *int64 {
	switch counter {
	case CounterMeditationStreak:
		return &s.Counters.MeditationStreak
	case CounterBooksRead:
		return &s.Counters.BooksRead
	case CounterHabitsCompleted:
		return &s.Counters.HabitsCompleted
	case CounterGoalsAchieved:
		return &s.Counters.GoalsAchieved
	case CounterQuestsCompleted:
		return &s.Counters.QuestsCompleted
	}
	return nil
}

// UpdateLoginStreak advances the consecutive-day login counter for a
// session-start event and returns the resulting streak.
//
// Transitions, given today's calendar date:
//   - no recorded date        → streak = 1
//   - last active today       → no-op (safe to call many times per day)
//   - last active yesterday   → streak + 1
//   - older than yesterday    → streak resets to 1
//   - date in the future      → no-op (clock skew / corrupted row)
func (s *State) UpdateLoginStreak(today time.Time) int {
	today = DayOf(today)

	if s.LastActiveDate != nil {
		last := DayOf(*s.LastActiveDate)
		switch {
		case last.Equal(today):
			return s.LoginStreak
		case last.After(today):
			// Future last-active date, treat as clock skew and leave untouched
			return s.LoginStreak
		case last.AddDate(0, 0, 1).Equal(today):
			s.LoginStreak++
		default:
			s.LoginStreak = 1
		}
	} else {
		s.LoginStreak = 1
	}

	s.LastActiveDate = &today
	return s.LoginStreak
}

// DayOf truncates a timestamp to its wall-clock calendar date. All day
// comparisons (login streak, habit tracking) go through this so the day
// boundary is the same everywhere.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
