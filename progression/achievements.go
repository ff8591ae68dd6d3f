package progression

// AchievementDef is a static catalog entry. The catalog is seeded once at
// startup and treated as read-only afterwards; conditions are simple
// counter-threshold predicates over the closed counter set.
type AchievementDef struct {
	Code        string  `json:"code"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	XPBonus     int64   `json:"xp_bonus"`
	Counter     Counter `json:"counter"`
	Threshold   int64   `json:"threshold"`
}

// Met reports whether the state's counters satisfy this definition.
func (d AchievementDef) Met(s *State) bool {
	value, err := s.CounterValue(d.Counter)
	if err != nil {
		return false
	}
	return value >= d.Threshold
}

// Catalog holds every achievement definition, in evaluation order.
var Catalog = []AchievementDef{
	{
		Code:        "beginner-hunter",
		Title:       "Beginner Hunter",
		Description: "Complete your first quest.",
		Category:    "quests",
		Icon:        "fa-flag-checkered",
		XPBonus:     50,
		Counter:     CounterQuestsCompleted,
		Threshold:   1,
	},
	{
		Code:        "dedicated-hunter",
		Title:       "Dedicated Hunter",
		Description: "Complete 10 quests.",
		Category:    "quests",
		Icon:        "fa-trophy",
		XPBonus:     200,
		Counter:     CounterQuestsCompleted,
		Threshold:   10,
	},
	{
		Code:        "meditation-master",
		Title:       "Meditation Master",
		Description: "Achieve a 7-day meditation streak.",
		Category:    "meditation",
		Icon:        "fa-om",
		XPBonus:     150,
		Counter:     CounterMeditationStreak,
		Threshold:   7,
	},
	{
		Code:        "bookworm",
		Title:       "Bookworm",
		Description: "Read 5 books.",
		Category:    "reading",
		Icon:        "fa-book",
		XPBonus:     100,
		Counter:     CounterBooksRead,
		Threshold:   5,
	},
	{
		Code:        "habit-former",
		Title:       "Habit Former",
		Description: "Complete 20 habits.",
		Category:    "habits",
		Icon:        "fa-check-double",
		XPBonus:     150,
		Counter:     CounterHabitsCompleted,
		Threshold:   20,
	},
	{
		Code:        "goal-achiever",
		Title:       "Goal Achiever",
		Description: "Achieve 5 goals.",
		Category:    "goals",
		Icon:        "fa-bullseye",
		XPBonus:     200,
		Counter:     CounterGoalsAchieved,
		Threshold:   5,
	},
}

// CatalogByCode looks a definition up by its code.
func CatalogByCode(code string) (AchievementDef, bool) {
	for _, def := range Catalog {
		if def.Code == code {
			return def, true
		}
	}
	return AchievementDef{}, false
}

// EvaluateAchievements runs a single pass over the catalog in definition
// order and returns every definition that is newly satisfied, meaning it
// qualifies but is not in the earned set. Already-earned achievements are skipped
// silently, so calling twice with unchanged counters returns nothing the
// second time.
func (s *State) EvaluateAchievements(earned map[string]bool) []AchievementDef {
	var newlyEarned []AchievementDef
	for _, def := range Catalog {
		if earned[def.Code] {
			continue
		}
		if def.Met(s) {
			newlyEarned = append(newlyEarned, def)
		}
	}
	return newlyEarned
}
