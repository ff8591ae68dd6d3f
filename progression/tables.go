package progression

// XPWeights define relative XP values per activity (tunable via config/env later)
type XPWeights struct {
	QuestXP      int64
	MeditationXP int64
	BookXP       int64
	HabitXP      int64
	GoalXP       int64
}

var DefaultXPWeights = XPWeights{
	QuestXP:      100,
	MeditationXP: 50,
	BookXP:       150,
	HabitXP:      30,
	GoalXP:       200,
}

// LevelThresholds[i] is the minimum total XP for level i+1.
// Strictly increasing; a level is the largest index whose threshold is met.
var LevelThresholds = []int64{
	0,     // Level 1
	1000,  // Level 2
	2500,  // Level 3
	5000,  // Level 4
	8000,  // Level 5
	12000, // Level 6
	17000, // Level 7
	23000, // Level 8
	30000, // Level 9
	38000, // Level 10
}

// MaxLevel is the last level with a defined threshold. XP keeps accumulating
// past it but no further level-ups occur.
var MaxLevel = len(LevelThresholds)

// RankThresholds: minimum level required before rank-up
// e.g., E→D at level 3, D→C at level 5, etc.
var RankThresholds = map[int]string{
	1:  "E-Rank Hunter",
	3:  "D-Rank Hunter",
	5:  "C-Rank Hunter",
	7:  "B-Rank Hunter",
	9:  "A-Rank Hunter",
	10: "S-Rank Hunter",
}

// rankLevels holds the RankThresholds keys in descending order so
// RankForLevel can scan highest-first.
var rankLevels = []int{10, 9, 7, 5, 3, 1}

// LevelForXP returns the largest level whose threshold the XP total meets.
func LevelForXP(xp int64) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// RankForLevel returns the rank title for a level: the highest rank whose
// minimum level is <= the given level. Levels past the table stay S-Rank.
func RankForLevel(level int) string {
	for _, req := range rankLevels {
		if level >= req {
			return RankThresholds[req]
		}
	}
	return RankThresholds[1]
}

// NextThreshold returns the XP needed for the next level, or ok=false when
// the level is already the last defined one.
func NextThreshold(level int) (int64, bool) {
	if level >= MaxLevel {
		return 0, false
	}
	return LevelThresholds[level], true
}

// CurrentThreshold returns the XP floor of the given level.
func CurrentThreshold(level int) int64 {
	if level < 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return LevelThresholds[level-1]
}
