package models

import "time"

// Scheduling defaults for a card that has never been reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewRecord holds the spaced-repetition state for one flashcard and one
// learner. Records are created lazily on the first grading of a card.
type ReviewRecord struct {
	LearnerID      int64      `json:"learner_id"`
	CardID         string     `json:"card_id"`
	LastReviewDate *time.Time `json:"last_review_date"`
	NextReviewDate time.Time  `json:"next_review_date"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	TotalReviews   int        `json:"total_reviews"`
	CorrectReviews int        `json:"correct_reviews"`
}

// NewReviewRecord returns the starting state for a card's first review
func NewReviewRecord(learnerID int64, cardID string) ReviewRecord {
	return ReviewRecord{
		LearnerID:  learnerID,
		CardID:     cardID,
		EaseFactor: DefaultEaseFactor,
	}
}

// IsDue reports whether the card should be presented on the given day.
// Comparison is by calendar date, not clock time.
func (r *ReviewRecord) IsDue(today time.Time) bool {
	if r.LastReviewDate == nil {
		return true
	}
	return !DateOnly(r.NextReviewDate).After(DateOnly(today))
}

// DateOnly truncates a time to its calendar date in local time
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DayKey formats a time as the canonical per-day ledger key
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
