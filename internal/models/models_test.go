package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	expired := Session{ID: "a", ExpiresAt: time.Now().Add(-time.Minute)}
	if !expired.IsExpired() {
		t.Error("session past its expiry should be expired")
	}

	live := Session{ID: "b", ExpiresAt: time.Now().Add(time.Hour)}
	if live.IsExpired() {
		t.Error("session before its expiry should not be expired")
	}
}

func TestInvitationIsExpired(t *testing.T) {
	expired := Invitation{Code: "a", ExpiresAt: time.Now().Add(-time.Hour)}
	if !expired.IsExpired() {
		t.Error("invitation past its expiry should be expired")
	}

	live := Invitation{Code: "b", ExpiresAt: time.Now().Add(24 * time.Hour)}
	if live.IsExpired() {
		t.Error("invitation before its expiry should not be expired")
	}
}

func TestDailyActivityAddAndHas(t *testing.T) {
	day := &DailyActivity{}

	if day.Has(ActivityLesson, "ls-fractions") {
		t.Error("empty day should not contain any activity")
	}
	if !day.Add(ActivityLesson, "ls-fractions") {
		t.Error("first add should report true")
	}
	if day.Add(ActivityLesson, "ls-fractions") {
		t.Error("second add of the same id should report false")
	}
	if !day.Has(ActivityLesson, "ls-fractions") {
		t.Error("added activity should be found")
	}
	if day.Has(ActivityQuiz, "ls-fractions") {
		t.Error("activity kinds must not share buckets")
	}
}

func TestReviewRecordIsDue(t *testing.T) {
	today := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	fresh := NewReviewRecord(1, "fc-frac-add")
	if !fresh.IsDue(today) {
		t.Error("never-reviewed card should always be due")
	}

	tests := []struct {
		name string
		next time.Time
		want bool
	}{
		{"due yesterday", today.AddDate(0, 0, -1), true},
		{"due today at midnight", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"due later today", time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC), true},
		{"due tomorrow", today.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewed := today.AddDate(0, 0, -3)
			rec := ReviewRecord{LearnerID: 1, CardID: "fc-prime", LastReviewDate: &reviewed, NextReviewDate: tt.next}
			if got := rec.IsDue(today); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayKeyAndSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)

	if DayKey(morning) != "2026-03-10" {
		t.Errorf("DayKey = %q, want 2026-03-10", DayKey(morning))
	}
	if !SameDay(morning, evening) {
		t.Error("times on the same date should compare equal")
	}
	if SameDay(evening, nextDay) {
		t.Error("times on different dates should not compare equal")
	}
}
