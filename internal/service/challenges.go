package service

import (
	"errors"
	"math/rand"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/models"
)

var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrChallengeNotCompleted = errors.New("challenge not completed")
	ErrChallengeClaimed      = errors.New("reward already claimed")
)

// Number of weekly challenge instances drawn each week
const weeklyChallengeCount = 5

// WeekStart returns the canonical Monday-anchored start of the week
// containing t.
func WeekStart(t time.Time) time.Time {
	day := models.DateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// CheckAndRefreshWeeklyChallenges regenerates the weekly challenge set when
// the calendar week has changed. Instances start at zero progress, so weekly
// challenge progress is scoped to the week it was earned in. Calling this
// again within the same week is a no-op. Returns true when a new set was
// generated.
func CheckAndRefreshWeeklyChallenges(state *models.ProgressionState, now time.Time) bool {
	weekStart := WeekStart(now)
	if state.WeeklyStartDate != nil && models.SameDay(*state.WeeklyStartDate, weekStart) {
		return false
	}

	templates := pickWeeklyTemplates(content.WeeklyChallengePool, weeklyChallengeCount)

	state.WeeklyChallenges = state.WeeklyChallenges[:0]
	for _, tpl := range templates {
		state.WeeklyChallenges = append(state.WeeklyChallenges, models.WeeklyChallenge{
			ID:     tpl.ID,
			Title:  tpl.Title,
			Type:   tpl.Type,
			Target: tpl.Target,
			Reward: tpl.Reward,
		})
	}
	state.WeeklyStartDate = &weekStart
	return true
}

// pickWeeklyTemplates draws count templates from the pool, preferring not to
// repeat a challenge type. The diversity constraint is relaxed only when too
// few distinct types remain to fill the quota.
func pickWeeklyTemplates(pool []content.ChallengeTemplate, count int) []content.ChallengeTemplate {
	shuffled := make([]content.ChallengeTemplate, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}

	selected := make([]content.ChallengeTemplate, 0, count)
	usedTypes := make(map[string]bool)
	var leftovers []content.ChallengeTemplate

	for _, tpl := range shuffled {
		if len(selected) == count {
			break
		}
		if usedTypes[tpl.Type] {
			leftovers = append(leftovers, tpl)
			continue
		}
		usedTypes[tpl.Type] = true
		selected = append(selected, tpl)
	}

	// Not enough distinct types: fill from the leftovers
	for _, tpl := range leftovers {
		if len(selected) == count {
			break
		}
		selected = append(selected, tpl)
	}

	return selected
}

// UpdateChallengeProgress advances every incomplete active weekly challenge
// of the given type by amount (clamped to its target), then re-derives side
// quest progress from the lifetime counters. Side quests are synced from the
// counters rather than incremented, so they stay consistent even if an
// update call was missed.
func UpdateChallengeProgress(state *models.ProgressionState, challengeType string, amount int) {
	for i := range state.WeeklyChallenges {
		ch := &state.WeeklyChallenges[i]
		if ch.Completed || ch.Type != challengeType {
			continue
		}
		ch.Progress += amount
		if ch.Progress >= ch.Target {
			ch.Progress = ch.Target
			ch.Completed = true
		}
	}

	SyncSideQuests(state)
}

// SyncSideQuests re-derives side quest progress from the authoritative
// cumulative counters. A quest once completed stays completed even when the
// underlying metric (the streak) later drops.
func SyncSideQuests(state *models.ProgressionState) {
	for i := range state.SideQuests {
		quest := &state.SideQuests[i]
		if quest.Claimed {
			continue
		}

		var counter int
		switch quest.Type {
		case content.ChallengeLessons:
			counter = state.LessonsCompleted
		case content.ChallengeExercises:
			counter = state.ExercisesCompleted
		case content.ChallengeQuizzes:
			counter = state.QuizzesCompleted
		case content.ChallengePerfectQuizzes:
			counter = state.PerfectQuizzes
		case content.ChallengeStreak:
			counter = state.CurrentStreak
		}

		progress := counter
		if progress > quest.Target {
			progress = quest.Target
		}
		if progress > quest.Progress || quest.Type == content.ChallengeStreak {
			quest.Progress = progress
		}
		if quest.Progress >= quest.Target {
			quest.Completed = true
		}
	}
}

// ClaimChallengeReward pays out a completed weekly challenge. The second
// claim on the same instance fails with no double payout. Returns the
// reward amount on success.
func ClaimChallengeReward(state *models.ProgressionState, id string, now time.Time) (int, error) {
	for i := range state.WeeklyChallenges {
		ch := &state.WeeklyChallenges[i]
		if ch.ID != id {
			continue
		}
		if ch.Claimed {
			return 0, ErrChallengeClaimed
		}
		if !ch.Completed {
			return 0, ErrChallengeNotCompleted
		}
		ch.Claimed = true
		AddPoints(state, ch.Reward, "weekly challenge: "+ch.Title, now)
		return ch.Reward, nil
	}
	return 0, ErrChallengeNotFound
}

// ClaimSideQuestReward pays out a completed side quest and grants its
// configured badge, if any. Same idempotence guarantees as challenge claims.
func ClaimSideQuestReward(state *models.ProgressionState, id string, now time.Time) (int, error) {
	for i := range state.SideQuests {
		quest := &state.SideQuests[i]
		if quest.ID != id {
			continue
		}
		if quest.Claimed {
			return 0, ErrChallengeClaimed
		}
		if !quest.Completed {
			return 0, ErrChallengeNotCompleted
		}
		quest.Claimed = true
		if quest.BadgeID != "" {
			GrantBadge(state, quest.BadgeID, now)
		}
		AddPoints(state, quest.Reward, "side quest: "+quest.Title, now)
		return quest.Reward, nil
	}
	return 0, ErrChallengeNotFound
}
