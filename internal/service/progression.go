package service

import (
	"errors"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/models"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInsufficientXP  = errors.New("not enough spendable XP")
)

// Streak bonuses awarded once when the streak crosses these exact lengths
const (
	streakBonusWeekDays   = 7
	streakBonusWeekXP     = 50
	streakBonusMonthDays  = 30
	streakBonusMonthXP    = 200
)

// NewProgressionState returns the zero progression state for a learner, with
// side quest instances initialized un-started from the catalog.
func NewProgressionState(learnerID int64) *models.ProgressionState {
	state := &models.ProgressionState{
		SchemaVersion: models.ProgressionSchemaVersion,
		LearnerID:     learnerID,
		Days:          make(map[string]*models.DailyActivity),
		CompanionName: "Pytha",
	}
	for _, def := range content.SideQuestCatalog {
		state.SideQuests = append(state.SideQuests, models.SideQuest{
			ID:      def.ID,
			Title:   def.Title,
			Type:    def.Type,
			Target:  def.Target,
			Reward:  def.Reward,
			BadgeID: def.BadgeID,
		})
	}
	return state
}

// AddPoints credits points, appends a capped history entry, updates the
// per-day bucket, then runs the streak update and badge re-evaluation (both
// idempotent within a day). Returns any badges unlocked by this award.
func AddPoints(state *models.ProgressionState, amount int, reason string, now time.Time) []models.UnlockedBadge {
	state.TotalPoints += amount
	if state.TotalPoints < 0 {
		state.TotalPoints = 0
	}

	appendHistory(state, amount, reason, now)
	state.Day(now).Points += amount

	updateStreak(state, now)

	return CheckBadges(state, now)
}

// SpendXP debits XP for the companion economy. It fails without mutation
// when amount is not positive or exceeds the spendable balance, so spending
// can never lower the learner's level.
func SpendXP(state *models.ProgressionState, amount int, reason string, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > SpendableXP(state.TotalPoints) {
		return ErrInsufficientXP
	}

	state.TotalPoints -= amount
	appendHistory(state, -amount, reason, now)
	return nil
}

// ComputeLevel derives the level tuple from total points. Thresholds are
// triangular: moving from level L to L+1 costs L×100 points.
func ComputeLevel(totalPoints int) models.LevelInfo {
	level := 1
	remaining := totalPoints
	for remaining >= level*100 {
		remaining -= level * 100
		level++
	}

	nextLevelXP := level * 100
	progress := remaining * 100 / nextLevelXP
	if progress > 100 {
		progress = 100
	}

	return models.LevelInfo{
		Level:       level,
		Title:       content.TitleForLevel(level),
		CurrentXP:   remaining,
		NextLevelXP: nextLevelXP,
		Progress:    progress,
	}
}

// SpendableXP is the portion of total points above the current level's own
// threshold. Only this portion may be spent, which keeps the level floor
// intact.
func SpendableXP(totalPoints int) int {
	level := ComputeLevel(totalPoints).Level
	spendable := totalPoints - level*100
	if spendable < 0 {
		return 0
	}
	return spendable
}

// updateStreak advances the daily streak. A second call on the same calendar
// day is a no-op, so multiple point awards per day cannot inflate the
// streak. Crossing exactly 7 or 30 days pays a one-time bonus; the bonus is
// routed back through AddPoints after LastActivityDate is set to today, so
// the nested call cannot re-trigger the crossing.
func updateStreak(state *models.ProgressionState, now time.Time) {
	today := models.DateOnly(now)

	if state.LastActivityDate != nil && models.SameDay(*state.LastActivityDate, today) {
		return
	}

	yesterday := today.AddDate(0, 0, -1)
	if state.LastActivityDate != nil && models.SameDay(*state.LastActivityDate, yesterday) {
		state.CurrentStreak++
	} else {
		state.CurrentStreak = 1
	}
	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}
	state.LastActivityDate = &today

	switch state.CurrentStreak {
	case streakBonusWeekDays:
		AddPoints(state, streakBonusWeekXP, "7-day streak bonus", now)
	case streakBonusMonthDays:
		AddPoints(state, streakBonusMonthXP, "30-day streak bonus", now)
	}
}

// CheckBadges evaluates every badge definition not yet unlocked against the
// current counters and returns the newly unlocked ones. Unlocks are
// append-only: a streak badge stays unlocked after the streak resets.
// Special badges have no predicate here; they are granted by side quest
// claims.
func CheckBadges(state *models.ProgressionState, now time.Time) []models.UnlockedBadge {
	var unlocked []models.UnlockedBadge

	for _, badge := range content.Badges {
		if state.HasBadge(badge.ID) {
			continue
		}

		satisfied := false
		switch badge.Type {
		case content.BadgeTypeLessons:
			satisfied = state.LessonsCompleted >= badge.Threshold
		case content.BadgeTypeExercises:
			satisfied = state.ExercisesCompleted >= badge.Threshold
		case content.BadgeTypeQuizzes:
			satisfied = state.QuizzesCompleted >= badge.Threshold
		case content.BadgeTypeStreak:
			satisfied = state.CurrentStreak >= badge.Threshold
		case content.BadgeTypePoints:
			satisfied = state.TotalPoints >= badge.Threshold
		}

		if satisfied {
			entry := models.UnlockedBadge{BadgeID: badge.ID, UnlockedAt: now}
			state.UnlockedBadges = append(state.UnlockedBadges, entry)
			unlocked = append(unlocked, entry)
		}
	}

	return unlocked
}

// GrantBadge unlocks a badge by explicit grant (side quest claims). Returns
// false if the badge id is unknown or already unlocked.
func GrantBadge(state *models.ProgressionState, badgeID string, now time.Time) bool {
	if content.BadgeByID(badgeID) == nil || state.HasBadge(badgeID) {
		return false
	}
	state.UnlockedBadges = append(state.UnlockedBadges, models.UnlockedBadge{
		BadgeID:    badgeID,
		UnlockedAt: now,
	})
	return true
}

// RecordActivity adds the id to today's per-kind activity set. Returns false
// when the id was already recorded today, letting callers skip duplicate
// awards.
func RecordActivity(state *models.ProgressionState, kind models.ActivityKind, id string, now time.Time) bool {
	return state.Day(now).Add(kind, id)
}

// IncrementStat bumps one lifetime counter by 1
func IncrementStat(state *models.ProgressionState, kind models.StatKind) {
	switch kind {
	case models.StatLessons:
		state.LessonsCompleted++
	case models.StatExercises:
		state.ExercisesCompleted++
	case models.StatQuizzes:
		state.QuizzesCompleted++
	case models.StatCorrectAnswers:
		state.CorrectAnswers++
	case models.StatPerfectQuizzes:
		state.PerfectQuizzes++
	}
}

func appendHistory(state *models.ProgressionState, points int, reason string, now time.Time) {
	state.PointsHistory = append(state.PointsHistory, models.PointsEntry{
		Date:   models.DateOnly(now),
		Points: points,
		Reason: reason,
	})
	if excess := len(state.PointsHistory) - models.PointsHistoryCap; excess > 0 {
		state.PointsHistory = state.PointsHistory[excess:]
	}
}
