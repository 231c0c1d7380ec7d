package service

import (
	"errors"
	"fmt"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/models"
	"mathquest/internal/repository"
	"mathquest/internal/validation"
)

var ErrCardNotFound = errors.New("flashcard not found")

// SRSService drives the spaced-repetition schedule for flashcard reviews
type SRSService struct {
	reviewRepo *repository.ReviewRepository
}

// NewSRSService creates a new SRS service
func NewSRSService(reviewRepo *repository.ReviewRepository) *SRSService {
	return &SRSService{reviewRepo: reviewRepo}
}

// DueCard pairs a flashcard with the learner's review state for it. Record is
// nil for cards that have never been graded.
type DueCard struct {
	Card    content.Flashcard    `json:"card"`
	Record  *models.ReviewRecord `json:"record,omitempty"`
	Mastery int                  `json:"mastery"`
}

// RecordReview grades one flashcard recall and reschedules the card. A card
// with no prior record starts from the default ease factor. The learner's
// last-session marker is advanced so streak-adjacent features can tell when
// reviewing last happened.
func (s *SRSService) RecordReview(learnerID int64, cardID string, quality int, now time.Time) (*models.ReviewRecord, error) {
	if content.FlashcardByID(cardID) == nil {
		return nil, ErrCardNotFound
	}
	if err := validation.ValidateReviewQuality(quality); err != nil {
		return nil, err
	}

	rec, err := s.reviewRepo.GetRecord(learnerID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review record: %w", err)
	}
	if rec == nil {
		fresh := models.NewReviewRecord(learnerID, cardID)
		rec = &fresh
	}

	updated := ApplyReview(*rec, quality, now)
	if err := s.reviewRepo.UpsertRecord(updated); err != nil {
		return nil, fmt.Errorf("failed to save review record: %w", err)
	}

	if err := s.reviewRepo.SetLastSessionDate(learnerID, models.DateOnly(now)); err != nil {
		return nil, fmt.Errorf("failed to update session marker: %w", err)
	}

	return &updated, nil
}

// GetDueCards returns the flashcards due for review today, optionally
// filtered by topic. Never-reviewed cards are always due.
func (s *SRSService) GetDueCards(learnerID int64, topic string, now time.Time) ([]DueCard, error) {
	records, err := s.reviewRepo.GetLearnerRecords(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review records: %w", err)
	}

	var due []DueCard
	for _, card := range content.Flashcards {
		if topic != "" && card.Topic != topic {
			continue
		}

		rec, ok := records[card.ID]
		if !ok {
			due = append(due, DueCard{Card: card})
			continue
		}
		if rec.IsDue(now) {
			r := rec
			due = append(due, DueCard{Card: card, Record: &r, Mastery: MasteryLevel(r)})
		}
	}
	return due, nil
}

// GetCardStates returns the review state of every flashcard for the learner,
// due or not, for progress views.
func (s *SRSService) GetCardStates(learnerID int64, now time.Time) ([]DueCard, error) {
	records, err := s.reviewRepo.GetLearnerRecords(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review records: %w", err)
	}

	states := make([]DueCard, 0, len(content.Flashcards))
	for _, card := range content.Flashcards {
		entry := DueCard{Card: card}
		if rec, ok := records[card.ID]; ok {
			r := rec
			entry.Record = &r
			entry.Mastery = MasteryLevel(r)
		}
		states = append(states, entry)
	}
	return states, nil
}

// ReviewStats summarizes a learner's flashcard schedule
type ReviewStats struct {
	TotalCards      int        `json:"total_cards"`
	ReviewedCards   int        `json:"reviewed_cards"`
	DueToday        int        `json:"due_today"`
	MasteredCards   int        `json:"mastered_cards"`
	AverageMastery  int        `json:"average_mastery"`
	LastSessionDate *time.Time `json:"last_session_date,omitempty"`
}

// GetStats computes the learner's schedule summary
func (s *SRSService) GetStats(learnerID int64, now time.Time) (*ReviewStats, error) {
	records, err := s.reviewRepo.GetLearnerRecords(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review records: %w", err)
	}

	stats := &ReviewStats{TotalCards: len(content.Flashcards)}

	masterySum := 0
	for _, card := range content.Flashcards {
		rec, ok := records[card.ID]
		if !ok {
			stats.DueToday++
			continue
		}
		stats.ReviewedCards++
		masterySum += MasteryLevel(rec)
		if rec.IsDue(now) {
			stats.DueToday++
		}
		if IsMastered(rec) {
			stats.MasteredCards++
		}
	}
	if stats.ReviewedCards > 0 {
		stats.AverageMastery = masterySum / stats.ReviewedCards
	}

	lastSession, err := s.reviewRepo.GetLastSessionDate(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session marker: %w", err)
	}
	stats.LastSessionDate = lastSession

	return stats, nil
}

// ResetLearner wipes all review state for a learner
func (s *SRSService) ResetLearner(learnerID int64) error {
	if err := s.reviewRepo.DeleteLearnerRecords(learnerID); err != nil {
		return fmt.Errorf("failed to reset review records: %w", err)
	}
	return nil
}
