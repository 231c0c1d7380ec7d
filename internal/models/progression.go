package models

import "time"

// ProgressionSchemaVersion tags the persisted progression document so future
// field additions can be migrated on load.
const ProgressionSchemaVersion = 1

// PointsHistoryCap bounds the points history log; oldest entries are dropped.
const PointsHistoryCap = 200

// ActivityKind identifies a per-day activity bucket
type ActivityKind string

const (
	ActivityLesson    ActivityKind = "lesson"
	ActivityExercise  ActivityKind = "exercise"
	ActivityQuiz      ActivityKind = "quiz"
	ActivityFlashcard ActivityKind = "flashcard"
)

// StatKind identifies a lifetime cumulative counter
type StatKind string

const (
	StatLessons        StatKind = "lessons"
	StatExercises      StatKind = "exercises"
	StatQuizzes        StatKind = "quizzes"
	StatCorrectAnswers StatKind = "correct_answers"
	StatPerfectQuizzes StatKind = "perfect_quizzes"
)

// PointsEntry is one line of the capped points history log
type PointsEntry struct {
	Date   time.Time `json:"date"`
	Points int       `json:"points"`
	Reason string    `json:"reason"`
}

// UnlockedBadge records a badge unlock with its timestamp. Badges are never
// revoked once unlocked.
type UnlockedBadge struct {
	BadgeID    string    `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// DailyActivity is the fixed-shape per-day ledger: which content items were
// completed that day plus the day's point total. Used for idempotent
// "did this already happen today" checks.
type DailyActivity struct {
	Lessons    []string `json:"lessons"`
	Exercises  []string `json:"exercises"`
	Quizzes    []string `json:"quizzes"`
	Flashcards []string `json:"flashcards"`
	Points     int      `json:"points"`
}

func (d *DailyActivity) bucket(kind ActivityKind) *[]string {
	switch kind {
	case ActivityLesson:
		return &d.Lessons
	case ActivityExercise:
		return &d.Exercises
	case ActivityQuiz:
		return &d.Quizzes
	case ActivityFlashcard:
		return &d.Flashcards
	}
	return nil
}

// Has reports whether the id is already recorded under the kind
func (d *DailyActivity) Has(kind ActivityKind, id string) bool {
	b := d.bucket(kind)
	if b == nil {
		return false
	}
	for _, existing := range *b {
		if existing == id {
			return true
		}
	}
	return false
}

// Add records the id under the kind. Returns false if it was already present.
func (d *DailyActivity) Add(kind ActivityKind, id string) bool {
	if d.Has(kind, id) {
		return false
	}
	b := d.bucket(kind)
	if b == nil {
		return false
	}
	*b = append(*b, id)
	return true
}

// WeeklyChallenge is one active challenge instance for the current week.
// Lifecycle: pending (progress < target) -> completed -> claimed (terminal).
type WeeklyChallenge struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Target    int    `json:"target"`
	Reward    int    `json:"reward"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
	Claimed   bool   `json:"claimed"`
}

// SideQuest is a permanent goal drawn from the fixed catalog. Progress is
// derived from the lifetime counters, so it persists across weeks.
type SideQuest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Target    int    `json:"target"`
	Reward    int    `json:"reward"`
	BadgeID   string `json:"badge_id,omitempty"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
	Claimed   bool   `json:"claimed"`
}

// LevelInfo is the derived level tuple returned by the progression engine
type LevelInfo struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	CurrentXP   int    `json:"current_xp"`
	NextLevelXP int    `json:"next_level_xp"`
	Progress    int    `json:"progress"`
}

// ProgressionState is the full progression aggregate for one learner. It is
// persisted as a single schema-versioned JSON document and mutated only
// through the progression engine's operations.
type ProgressionState struct {
	SchemaVersion int   `json:"schema_version"`
	LearnerID     int64 `json:"learner_id"`

	TotalPoints   int           `json:"total_points"`
	PointsHistory []PointsEntry `json:"points_history"`

	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`

	LessonsCompleted   int `json:"lessons_completed"`
	ExercisesCompleted int `json:"exercises_completed"`
	QuizzesCompleted   int `json:"quizzes_completed"`
	CorrectAnswers     int `json:"correct_answers"`
	PerfectQuizzes     int `json:"perfect_quizzes"`

	UnlockedBadges []UnlockedBadge `json:"unlocked_badges"`

	// Days maps a DayKey to that day's fixed-shape activity ledger
	Days map[string]*DailyActivity `json:"days"`

	WeeklyStartDate  *time.Time        `json:"weekly_start_date"`
	WeeklyChallenges []WeeklyChallenge `json:"weekly_challenges"`
	SideQuests       []SideQuest       `json:"side_quests"`

	CompanionName  string   `json:"companion_name"`
	CompanionItems []string `json:"companion_items"`
}

// Stat returns the value of a cumulative counter
func (s *ProgressionState) Stat(kind StatKind) int {
	switch kind {
	case StatLessons:
		return s.LessonsCompleted
	case StatExercises:
		return s.ExercisesCompleted
	case StatQuizzes:
		return s.QuizzesCompleted
	case StatCorrectAnswers:
		return s.CorrectAnswers
	case StatPerfectQuizzes:
		return s.PerfectQuizzes
	}
	return 0
}

// Day returns the ledger for the given time's calendar date, creating it if
// needed
func (s *ProgressionState) Day(t time.Time) *DailyActivity {
	if s.Days == nil {
		s.Days = make(map[string]*DailyActivity)
	}
	key := DayKey(t)
	day, ok := s.Days[key]
	if !ok {
		day = &DailyActivity{}
		s.Days[key] = day
	}
	return day
}

// HasBadge reports whether the badge has already been unlocked
func (s *ProgressionState) HasBadge(badgeID string) bool {
	for _, b := range s.UnlockedBadges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// HasCompanionItem reports whether a shop item has been purchased
func (s *ProgressionState) HasCompanionItem(itemID string) bool {
	for _, item := range s.CompanionItems {
		if item == itemID {
			return true
		}
	}
	return false
}
