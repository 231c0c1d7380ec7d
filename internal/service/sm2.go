package service

import (
	"math"
	"time"

	"mathquest/internal/models"
)

// Quality grades for a flashcard review, on the standard SM-2 scale
const (
	QualityBlackout   = 0 // no recall at all
	QualityWrong      = 1 // wrong, recognized the answer
	QualityWrongClose = 2 // wrong, but it felt familiar
	QualityHard       = 3 // correct with significant effort
	QualityHesitant   = 4 // correct after hesitation
	QualityPerfect    = 5 // immediate correct recall
)

// A review is a success when quality reaches this grade
const passQuality = 3

// ApplyReview runs one SM-2 update on a review record and returns the new
// record. quality is clamped to 0..5. The ease factor never drops below
// models.MinEaseFactor; a failed review resets repetitions and schedules a
// relearn for tomorrow.
func ApplyReview(rec models.ReviewRecord, quality int, today time.Time) models.ReviewRecord {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	q := float64(quality)
	ease := rec.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < models.MinEaseFactor {
		ease = models.MinEaseFactor
	}
	rec.EaseFactor = ease

	if quality < passQuality {
		rec.Repetitions = 0
		rec.Interval = 1
	} else {
		rec.CorrectReviews++
		rec.Repetitions++
		switch rec.Repetitions {
		case 1:
			rec.Interval = 1
		case 2:
			rec.Interval = 3
		default:
			rec.Interval = int(math.Round(float64(rec.Interval) * ease))
		}
	}

	rec.TotalReviews++

	day := models.DateOnly(today)
	rec.LastReviewDate = &day
	rec.NextReviewDate = day.AddDate(0, 0, rec.Interval)

	return rec
}

// MasteryLevel maps a review record to a 0..100 score for display. It blends
// repetitions (40 points), interval length (30 points) and ease factor
// (30 points). Scheduling itself never reads this value.
func MasteryLevel(rec models.ReviewRecord) int {
	reps := float64(rec.Repetitions)
	if reps > 10 {
		reps = 10
	}
	interval := float64(rec.Interval)
	if interval > 30 {
		interval = 30
	}
	score := reps/10*40 +
		interval/30*30 +
		(rec.EaseFactor-models.MinEaseFactor)/1.7*30
	return int(math.Round(score))
}

// IsMastered reports whether a card has reached long-term retention
func IsMastered(rec models.ReviewRecord) bool {
	return rec.Interval >= 21 && rec.Repetitions >= 5
}
