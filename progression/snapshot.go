package progression

import (
	"fmt"
	"time"
)

// EarnedRef points a snapshot at one earned achievement.
type EarnedRef struct {
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	EarnedAt time.Time `json:"earned_at"`
}

// ProgressSnapshot is the display view of a user's progression.
type ProgressSnapshot struct {
	Level             int         `json:"level"`
	Rank              string      `json:"rank"`
	XP                int64       `json:"xp"`
	XPProgressPercent float64     `json:"xp_progress"`
	XPToNextLevel     int64       `json:"xp_needed"`
	AtMaxLevel        bool        `json:"at_max_level"`
	LoginStreak       int         `json:"login_streak"`
	Stats             CoreStats   `json:"stats"`
	Counters          CounterSet  `json:"progress"`
	Achievements      []EarnedRef `json:"achievements"`
}

// Snapshot computes the progress view. Pure read, safe to call repeatedly.
// At the final defined level there is no next threshold: xp_needed stays 0
// and at_max_level flags it instead of dividing by zero.
func (s *State) Snapshot(earned []EarnedRef) ProgressSnapshot {
	snap := ProgressSnapshot{
		Level:        s.Level,
		Rank:         s.Rank,
		XP:           s.XP,
		LoginStreak:  s.LoginStreak,
		Stats:        s.Stats,
		Counters:     s.Counters,
		Achievements: earned,
	}

	floor := CurrentThreshold(s.Level)
	next, ok := NextThreshold(s.Level)
	if !ok {
		snap.AtMaxLevel = true
		snap.XPProgressPercent = 100
		return snap
	}

	snap.XPToNextLevel = next - s.XP
	snap.XPProgressPercent = float64(s.XP-floor) / float64(next-floor) * 100
	return snap
}

// Notification is the JSON contract the web layer renders. A single
// triggering action may yield zero, one, or several of these (one level-up
// plus any number of newly earned achievements).
type Notification struct {
	Type    string                 `json:"type"` // "levelup" | "achievement"
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func LevelUpNotification(res LevelUpResult) Notification {
	return Notification{
		Type:    "levelup",
		Message: fmt.Sprintf("Advanced to Level %d!", res.NewLevel),
		Details: map[string]interface{}{
			"level": res.NewLevel,
			"rank":  res.NewRank,
		},
	}
}

func AchievementNotification(def AchievementDef) Notification {
	return Notification{
		Type:    "achievement",
		Message: fmt.Sprintf("Achievement Unlocked: %s!", def.Title),
		Details: map[string]interface{}{
			"code":  def.Code,
			"title": def.Title,
			"icon":  def.Icon,
		},
	}
}

// CollectNotifications flattens one action's outcome into the wire contract.
func CollectNotifications(level LevelUpResult, earned []AchievementDef) []Notification {
	var out []Notification
	if level.LeveledUp {
		out = append(out, LevelUpNotification(level))
	}
	for _, def := range earned {
		out = append(out, AchievementNotification(def))
	}
	return out
}
