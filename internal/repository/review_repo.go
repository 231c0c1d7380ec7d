package repository

import (
	"database/sql"
	"fmt"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// ReviewRepository handles database operations for flashcard review records
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `learner_id, card_id, last_review_date, next_review_date,
	       ease_factor, interval_days, repetitions, total_reviews, correct_reviews`

// GetRecord retrieves the review record for one card, or nil if the card has
// never been reviewed
func (r *ReviewRepository) GetRecord(learnerID int64, cardID string) (*models.ReviewRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM review_records WHERE learner_id = ? AND card_id = ?`, reviewColumns)

	rec, err := scanReviewRecord(r.db.QueryRow(query, learnerID, cardID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review record: %w", err)
	}
	return rec, nil
}

// GetLearnerRecords retrieves all review records for a learner keyed by card id
func (r *ReviewRepository) GetLearnerRecords(learnerID int64) (map[string]models.ReviewRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM review_records WHERE learner_id = ?`, reviewColumns)

	rows, err := r.db.Query(query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query review records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]models.ReviewRecord)
	for rows.Next() {
		rec, err := scanReviewRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review record: %w", err)
		}
		records[rec.CardID] = *rec
	}
	return records, rows.Err()
}

// UpsertRecord writes a review record, inserting it on first grading
func (r *ReviewRepository) UpsertRecord(rec models.ReviewRecord) error {
	update := `
		UPDATE review_records
		SET last_review_date = ?, next_review_date = ?, ease_factor = ?,
		    interval_days = ?, repetitions = ?, total_reviews = ?,
		    correct_reviews = ?, updated_at = ?
		WHERE learner_id = ? AND card_id = ?
	`
	result, err := r.db.Exec(update,
		rec.LastReviewDate, rec.NextReviewDate, rec.EaseFactor,
		rec.Interval, rec.Repetitions, rec.TotalReviews,
		rec.CorrectReviews, time.Now(), rec.LearnerID, rec.CardID)
	if err != nil {
		return fmt.Errorf("failed to update review record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := `
		INSERT INTO review_records (learner_id, card_id, last_review_date, next_review_date,
		                            ease_factor, interval_days, repetitions, total_reviews, correct_reviews)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(insert,
		rec.LearnerID, rec.CardID, rec.LastReviewDate, rec.NextReviewDate,
		rec.EaseFactor, rec.Interval, rec.Repetitions, rec.TotalReviews, rec.CorrectReviews)
	if err != nil {
		return fmt.Errorf("failed to insert review record: %w", err)
	}
	return nil
}

// DeleteLearnerRecords removes every review record for a learner
func (r *ReviewRepository) DeleteLearnerRecords(learnerID int64) error {
	_, err := r.db.Exec("DELETE FROM review_records WHERE learner_id = ?", learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete review records: %w", err)
	}
	_, err = r.db.Exec("DELETE FROM srs_meta WHERE learner_id = ?", learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete review session marker: %w", err)
	}
	return nil
}

// SetLastSessionDate records when the learner last graded any card
func (r *ReviewRepository) SetLastSessionDate(learnerID int64, date time.Time) error {
	result, err := r.db.Exec("UPDATE srs_meta SET last_session_date = ? WHERE learner_id = ?", date, learnerID)
	if err != nil {
		return fmt.Errorf("failed to update session marker: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check session marker update: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.Exec("INSERT INTO srs_meta (learner_id, last_session_date) VALUES (?, ?)", learnerID, date)
	if err != nil {
		return fmt.Errorf("failed to insert session marker: %w", err)
	}
	return nil
}

// GetLastSessionDate returns when the learner last graded any card, or nil
func (r *ReviewRepository) GetLastSessionDate(learnerID int64) (*time.Time, error) {
	var date time.Time
	err := r.db.QueryRow("SELECT last_session_date FROM srs_meta WHERE learner_id = ?", learnerID).Scan(&date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session marker: %w", err)
	}
	return &date, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReviewRecord(row rowScanner) (*models.ReviewRecord, error) {
	rec := &models.ReviewRecord{}
	var lastReview sql.NullTime

	err := row.Scan(
		&rec.LearnerID,
		&rec.CardID,
		&lastReview,
		&rec.NextReviewDate,
		&rec.EaseFactor,
		&rec.Interval,
		&rec.Repetitions,
		&rec.TotalReviews,
		&rec.CorrectReviews,
	)
	if err != nil {
		return nil, err
	}

	if lastReview.Valid {
		rec.LastReviewDate = &lastReview.Time
	}
	return rec, nil
}
