package service

import (
	"testing"
	"time"

	"mathquest/internal/models"
)

func testDay(dayOffset int) time.Time {
	base := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC) // a Monday
	return base.AddDate(0, 0, dayOffset)
}

func TestComputeLevel(t *testing.T) {
	tests := []struct {
		name        string
		totalPoints int
		wantLevel   int
		wantXP      int
		wantNext    int
		wantPct     int
	}{
		{name: "fresh state", totalPoints: 0, wantLevel: 1, wantXP: 0, wantNext: 100, wantPct: 0},
		{name: "halfway through level 1", totalPoints: 50, wantLevel: 1, wantXP: 50, wantNext: 100, wantPct: 50},
		{name: "exactly level 2", totalPoints: 100, wantLevel: 2, wantXP: 0, wantNext: 200, wantPct: 0},
		{name: "inside level 2", totalPoints: 250, wantLevel: 2, wantXP: 150, wantNext: 200, wantPct: 75},
		{name: "exactly level 3", totalPoints: 300, wantLevel: 3, wantXP: 0, wantNext: 300, wantPct: 0},
		{name: "level 4", totalPoints: 700, wantLevel: 4, wantXP: 100, wantNext: 400, wantPct: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ComputeLevel(tt.totalPoints)
			if info.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", info.Level, tt.wantLevel)
			}
			if info.CurrentXP != tt.wantXP {
				t.Errorf("currentXP = %d, want %d", info.CurrentXP, tt.wantXP)
			}
			if info.NextLevelXP != tt.wantNext {
				t.Errorf("nextLevelXP = %d, want %d", info.NextLevelXP, tt.wantNext)
			}
			if info.Progress != tt.wantPct {
				t.Errorf("progress = %d, want %d", info.Progress, tt.wantPct)
			}
			if info.Title == "" {
				t.Error("title should never be empty")
			}
		})
	}
}

func TestAddPointsFreshState(t *testing.T) {
	state := NewProgressionState(1)
	AddPoints(state, 50, "lesson", testDay(0))

	if state.TotalPoints != 50 {
		t.Errorf("totalPoints = %d, want 50", state.TotalPoints)
	}
	info := ComputeLevel(state.TotalPoints)
	if info.Level != 1 || info.CurrentXP != 50 || info.NextLevelXP != 100 || info.Progress != 50 {
		t.Errorf("level info = %+v, want level 1, 50/100, 50%%", info)
	}
	if len(state.PointsHistory) != 1 || state.PointsHistory[0].Points != 50 || state.PointsHistory[0].Reason != "lesson" {
		t.Errorf("history = %+v, want one +50 lesson entry", state.PointsHistory)
	}
	if state.Day(testDay(0)).Points != 50 {
		t.Errorf("daily bucket = %d, want 50", state.Day(testDay(0)).Points)
	}
}

func TestSpendXPKeepsLevel(t *testing.T) {
	state := NewProgressionState(1)
	AddPoints(state, 250, "quiz", testDay(0)) // level 2, spendable 50

	if got := SpendableXP(state.TotalPoints); got != 50 {
		t.Fatalf("spendable = %d, want 50", got)
	}

	if err := SpendXP(state, 60, "hat", testDay(0)); err != ErrInsufficientXP {
		t.Errorf("overspend error = %v, want ErrInsufficientXP", err)
	}
	if err := SpendXP(state, 0, "nothing", testDay(0)); err != ErrInvalidAmount {
		t.Errorf("zero spend error = %v, want ErrInvalidAmount", err)
	}
	if err := SpendXP(state, -5, "refund", testDay(0)); err != ErrInvalidAmount {
		t.Errorf("negative spend error = %v, want ErrInvalidAmount", err)
	}
	if state.TotalPoints != 250 {
		t.Fatalf("failed spends mutated totalPoints: %d", state.TotalPoints)
	}

	levelBefore := ComputeLevel(state.TotalPoints).Level
	if err := SpendXP(state, 50, "hat", testDay(0)); err != nil {
		t.Fatalf("SpendXP() error = %v", err)
	}
	if state.TotalPoints != 200 {
		t.Errorf("totalPoints = %d, want 200", state.TotalPoints)
	}
	if got := ComputeLevel(state.TotalPoints).Level; got < levelBefore {
		t.Errorf("level dropped from %d to %d after a valid spend", levelBefore, got)
	}

	last := state.PointsHistory[len(state.PointsHistory)-1]
	if last.Points != -50 {
		t.Errorf("history entry = %d, want -50", last.Points)
	}
}

func TestSpendXPNeverDropsLevelOverSequence(t *testing.T) {
	state := NewProgressionState(1)
	level := ComputeLevel(state.TotalPoints).Level

	amounts := []int{30, 120, 45, 200, 15, 310, 80}
	for i, amount := range amounts {
		AddPoints(state, amount, "activity", testDay(i))
		if got := ComputeLevel(state.TotalPoints).Level; got < level {
			t.Fatalf("level dropped after AddPoints: %d -> %d", level, got)
		} else {
			level = got
		}

		spend := SpendableXP(state.TotalPoints)
		if spend > 0 {
			if err := SpendXP(state, spend, "shop", testDay(i)); err != nil {
				t.Fatalf("SpendXP(%d) error = %v", spend, err)
			}
		}
		if got := ComputeLevel(state.TotalPoints).Level; got != level {
			t.Fatalf("level changed by spending: %d -> %d", level, got)
		}
	}
}

func TestStreakIdempotentWithinDay(t *testing.T) {
	state := NewProgressionState(1)

	AddPoints(state, 10, "exercise", testDay(0))
	if state.CurrentStreak != 1 {
		t.Fatalf("streak after first activity = %d, want 1", state.CurrentStreak)
	}

	AddPoints(state, 10, "exercise", testDay(0))
	AddPoints(state, 10, "exercise", testDay(0))
	if state.CurrentStreak != 1 {
		t.Errorf("streak inflated by same-day awards: %d", state.CurrentStreak)
	}
	if state.TotalPoints != 30 {
		t.Errorf("totalPoints = %d, want 30", state.TotalPoints)
	}
}

func TestStreakContinuesAndBreaks(t *testing.T) {
	state := NewProgressionState(1)

	AddPoints(state, 10, "exercise", testDay(0))
	AddPoints(state, 10, "exercise", testDay(1))
	AddPoints(state, 10, "exercise", testDay(2))
	if state.CurrentStreak != 3 {
		t.Fatalf("streak = %d, want 3", state.CurrentStreak)
	}
	if state.LongestStreak != 3 {
		t.Fatalf("longest = %d, want 3", state.LongestStreak)
	}

	// Skip a day: streak resets to 1, longest is kept
	AddPoints(state, 10, "exercise", testDay(4))
	if state.CurrentStreak != 1 {
		t.Errorf("streak after gap = %d, want 1", state.CurrentStreak)
	}
	if state.LongestStreak != 3 {
		t.Errorf("longest after gap = %d, want 3", state.LongestStreak)
	}
}

func TestStreakBonusPaidOnce(t *testing.T) {
	state := NewProgressionState(1)

	for day := 0; day < 7; day++ {
		AddPoints(state, 10, "exercise", testDay(day))
	}
	if state.CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", state.CurrentStreak)
	}
	// 7 awards of 10 plus the one-time 7-day bonus
	want := 70 + streakBonusWeekXP
	if state.TotalPoints != want {
		t.Errorf("totalPoints = %d, want %d", state.TotalPoints, want)
	}

	// More activity on day 7 must not pay the bonus again
	AddPoints(state, 10, "exercise", testDay(6))
	if state.TotalPoints != want+10 {
		t.Errorf("totalPoints = %d, want %d (bonus paid twice?)", state.TotalPoints, want+10)
	}
}

func TestCheckBadgesThresholdsAndMonotonicity(t *testing.T) {
	state := NewProgressionState(1)

	state.LessonsCompleted = 1
	unlocked := CheckBadges(state, testDay(0))
	if len(unlocked) != 1 || unlocked[0].BadgeID != "first-lesson" {
		t.Fatalf("unlocked = %+v, want [first-lesson]", unlocked)
	}

	// Re-evaluation does not unlock the same badge twice
	if again := CheckBadges(state, testDay(0)); len(again) != 0 {
		t.Errorf("second evaluation unlocked %+v", again)
	}

	// A streak badge survives the streak resetting
	state.CurrentStreak = 7
	unlocked = CheckBadges(state, testDay(1))
	if len(unlocked) != 1 || unlocked[0].BadgeID != "week-warrior" {
		t.Fatalf("unlocked = %+v, want [week-warrior]", unlocked)
	}
	state.CurrentStreak = 0
	if again := CheckBadges(state, testDay(2)); len(again) != 0 {
		t.Errorf("streak reset re-triggered badges: %+v", again)
	}
	if !state.HasBadge("week-warrior") {
		t.Error("streak badge was revoked")
	}
}

func TestSpecialBadgesNeverAutoUnlock(t *testing.T) {
	state := NewProgressionState(1)
	state.LessonsCompleted = 1000
	state.ExercisesCompleted = 1000
	state.QuizzesCompleted = 1000
	state.CurrentStreak = 1000
	state.TotalPoints = 100000

	CheckBadges(state, testDay(0))
	if state.HasBadge("pythagore") || state.HasBadge("thales") {
		t.Error("special badges must only unlock by explicit grant")
	}

	if !GrantBadge(state, "pythagore", testDay(0)) {
		t.Error("explicit grant failed")
	}
	if GrantBadge(state, "pythagore", testDay(0)) {
		t.Error("second grant of the same badge should report false")
	}
	if GrantBadge(state, "no-such-badge", testDay(0)) {
		t.Error("unknown badge id should not be granted")
	}
}

func TestRecordActivityIdempotent(t *testing.T) {
	state := NewProgressionState(1)

	if !RecordActivity(state, models.ActivityLesson, "ls-fractions", testDay(0)) {
		t.Fatal("first record should succeed")
	}
	if RecordActivity(state, models.ActivityLesson, "ls-fractions", testDay(0)) {
		t.Error("duplicate record on the same day should report false")
	}
	// A new day opens a fresh bucket
	if !RecordActivity(state, models.ActivityLesson, "ls-fractions", testDay(1)) {
		t.Error("same id on a new day should be recorded")
	}
}

func TestPointsHistoryCapped(t *testing.T) {
	state := NewProgressionState(1)
	for i := 0; i < models.PointsHistoryCap+25; i++ {
		AddPoints(state, 1, "drip", testDay(0))
	}
	if len(state.PointsHistory) != models.PointsHistoryCap {
		t.Errorf("history length = %d, want %d", len(state.PointsHistory), models.PointsHistoryCap)
	}
}

func TestIncrementStat(t *testing.T) {
	state := NewProgressionState(1)
	IncrementStat(state, models.StatLessons)
	IncrementStat(state, models.StatExercises)
	IncrementStat(state, models.StatExercises)
	IncrementStat(state, models.StatCorrectAnswers)
	IncrementStat(state, models.StatPerfectQuizzes)

	if state.LessonsCompleted != 1 || state.ExercisesCompleted != 2 ||
		state.CorrectAnswers != 1 || state.PerfectQuizzes != 1 || state.QuizzesCompleted != 0 {
		t.Errorf("counters = %d/%d/%d/%d/%d", state.LessonsCompleted, state.ExercisesCompleted,
			state.QuizzesCompleted, state.CorrectAnswers, state.PerfectQuizzes)
	}
}
