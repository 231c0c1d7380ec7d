package service

import (
	"math"
	"testing"
	"time"

	"mathquest/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyReviewPerfectSequence(t *testing.T) {
	// Three perfect reviews on consecutive days from a fresh card must
	// produce the canonical ease/interval progression.
	today := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rec := models.NewReviewRecord(1, "fc-pythagoras")

	steps := []struct {
		wantEase     float64
		wantInterval int
		wantReps     int
	}{
		{wantEase: 2.6, wantInterval: 1, wantReps: 1},
		{wantEase: 2.7, wantInterval: 3, wantReps: 2},
		{wantEase: 2.8, wantInterval: 8, wantReps: 3}, // round(3 × 2.8)
	}

	for i, step := range steps {
		rec = ApplyReview(rec, QualityPerfect, today.AddDate(0, 0, i))
		if !almostEqual(rec.EaseFactor, step.wantEase) {
			t.Errorf("review %d: ease = %v, want %v", i+1, rec.EaseFactor, step.wantEase)
		}
		if rec.Interval != step.wantInterval {
			t.Errorf("review %d: interval = %d, want %d", i+1, rec.Interval, step.wantInterval)
		}
		if rec.Repetitions != step.wantReps {
			t.Errorf("review %d: repetitions = %d, want %d", i+1, rec.Repetitions, step.wantReps)
		}
	}

	if rec.TotalReviews != 3 || rec.CorrectReviews != 3 {
		t.Errorf("counters = %d/%d, want 3/3", rec.CorrectReviews, rec.TotalReviews)
	}
}

func TestApplyReviewEaseFloor(t *testing.T) {
	// No sequence of reviews may push the ease factor below 1.3.
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rec := models.NewReviewRecord(1, "fc-frac-add")

	for i := 0; i < 10; i++ {
		rec = ApplyReview(rec, QualityBlackout, today.AddDate(0, 0, i))
		if rec.EaseFactor < models.MinEaseFactor {
			t.Fatalf("review %d: ease = %v, below floor %v", i+1, rec.EaseFactor, models.MinEaseFactor)
		}
	}
	if !almostEqual(rec.EaseFactor, models.MinEaseFactor) {
		t.Errorf("ease after repeated failures = %v, want %v", rec.EaseFactor, models.MinEaseFactor)
	}
}

func TestApplyReviewFailureResets(t *testing.T) {
	tests := []struct {
		name    string
		quality int
	}{
		{name: "blackout", quality: QualityBlackout},
		{name: "wrong", quality: QualityWrong},
		{name: "wrong but close", quality: QualityWrongClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
			rec := models.NewReviewRecord(1, "fc-mean")

			// Build up a well-known card first
			for i := 0; i < 4; i++ {
				rec = ApplyReview(rec, QualityPerfect, today.AddDate(0, 0, i))
			}
			correctBefore := rec.CorrectReviews

			rec = ApplyReview(rec, tt.quality, today.AddDate(0, 0, 5))
			if rec.Repetitions != 0 {
				t.Errorf("repetitions = %d, want 0", rec.Repetitions)
			}
			if rec.Interval != 1 {
				t.Errorf("interval = %d, want 1", rec.Interval)
			}
			if rec.CorrectReviews != correctBefore {
				t.Errorf("correct reviews incremented on failure: %d -> %d", correctBefore, rec.CorrectReviews)
			}
		})
	}
}

func TestApplyReviewRelearnBootstrap(t *testing.T) {
	// After a failure the card walks the 1/3-day bootstrap again.
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rec := models.NewReviewRecord(1, "fc-median")

	rec = ApplyReview(rec, QualityPerfect, today)
	rec = ApplyReview(rec, QualityPerfect, today.AddDate(0, 0, 1))
	rec = ApplyReview(rec, QualityBlackout, today.AddDate(0, 0, 4))

	rec = ApplyReview(rec, QualityHard, today.AddDate(0, 0, 5))
	if rec.Interval != 1 || rec.Repetitions != 1 {
		t.Errorf("first success after relearn: interval=%d reps=%d, want 1/1", rec.Interval, rec.Repetitions)
	}
	rec = ApplyReview(rec, QualityHard, today.AddDate(0, 0, 6))
	if rec.Interval != 3 || rec.Repetitions != 2 {
		t.Errorf("second success after relearn: interval=%d reps=%d, want 3/2", rec.Interval, rec.Repetitions)
	}
}

func TestApplyReviewQualityClamped(t *testing.T) {
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	rec := ApplyReview(models.NewReviewRecord(1, "fc-percent"), 9, today)
	if !almostEqual(rec.EaseFactor, 2.6) {
		t.Errorf("quality above 5 not clamped: ease = %v, want 2.6", rec.EaseFactor)
	}

	rec = ApplyReview(models.NewReviewRecord(1, "fc-percent"), -3, today)
	if rec.Repetitions != 0 || rec.Interval != 1 {
		t.Errorf("quality below 0 not clamped: interval=%d reps=%d", rec.Interval, rec.Repetitions)
	}
}

func TestReviewRecordDueness(t *testing.T) {
	today := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

	fresh := models.NewReviewRecord(1, "fc-prime")
	if !fresh.IsDue(today) {
		t.Error("a card with no review history should always be due")
	}

	// A just-reviewed card has interval >= 1 and is never due the same day
	for q := 0; q <= 5; q++ {
		rec := ApplyReview(models.NewReviewRecord(1, "fc-prime"), q, today)
		if rec.Interval < 1 {
			t.Errorf("quality %d: interval = %d, want >= 1", q, rec.Interval)
		}
		if rec.IsDue(today) {
			t.Errorf("quality %d: card due on the day it was reviewed", q)
		}
	}

	// Due again once the scheduled date arrives
	rec := ApplyReview(models.NewReviewRecord(1, "fc-prime"), QualityHard, today)
	if !rec.IsDue(today.AddDate(0, 0, rec.Interval)) {
		t.Error("card not due on its scheduled review date")
	}
}

func TestMasteryLevel(t *testing.T) {
	tests := []struct {
		name string
		rec  models.ReviewRecord
		want int
	}{
		{
			name: "fresh card",
			rec:  models.ReviewRecord{EaseFactor: 2.5},
			want: 21,
		},
		{
			name: "floor ease, no progress",
			rec:  models.ReviewRecord{EaseFactor: 1.3},
			want: 0,
		},
		{
			name: "capped components",
			rec:  models.ReviewRecord{EaseFactor: 3.0, Interval: 60, Repetitions: 15},
			want: 100,
		},
		{
			name: "mid progression",
			rec:  models.ReviewRecord{EaseFactor: 2.5, Interval: 24, Repetitions: 6},
			want: 69,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MasteryLevel(tt.rec); got != tt.want {
				t.Errorf("MasteryLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsMastered(t *testing.T) {
	tests := []struct {
		name string
		rec  models.ReviewRecord
		want bool
	}{
		{name: "long interval, enough repetitions", rec: models.ReviewRecord{Interval: 21, Repetitions: 5}, want: true},
		{name: "long interval, few repetitions", rec: models.ReviewRecord{Interval: 30, Repetitions: 4}, want: false},
		{name: "short interval", rec: models.ReviewRecord{Interval: 20, Repetitions: 8}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMastered(tt.rec); got != tt.want {
				t.Errorf("IsMastered() = %v, want %v", got, tt.want)
			}
		})
	}
}
