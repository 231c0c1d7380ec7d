package service

import (
	"errors"
	"fmt"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/models"
	"mathquest/internal/repository"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrExamNotFound     = errors.New("exam paper not found")
	ErrInvalidScore     = errors.New("invalid score")
)

// XP awards per study event
const (
	XPLesson           = 25
	XPExercise         = 10
	XPQuizPerCorrect   = 10
	XPPerfectQuizBonus = 20
	XPFlashcardReview  = 5
)

// ProgressionService owns the load-refresh-mutate-save cycle around the
// progression engine. Every study event flows through here.
type ProgressionService struct {
	progressionRepo *repository.ProgressionRepository
}

// NewProgressionService creates a new progression service
func NewProgressionService(progressionRepo *repository.ProgressionRepository) *ProgressionService {
	return &ProgressionService{progressionRepo: progressionRepo}
}

// StudyResult reports what one study event changed
type StudyResult struct {
	PointsAwarded    int                    `json:"points_awarded"`
	AlreadyCompleted bool                   `json:"already_completed"`
	NewBadges        []models.UnlockedBadge `json:"new_badges,omitempty"`
	Level            models.LevelInfo       `json:"level"`
	CurrentStreak    int                    `json:"current_streak"`
}

// loadState fetches the learner's progression aggregate, creating the zero
// state on first touch, and refreshes the weekly challenge set.
func (s *ProgressionService) loadState(learnerID int64, now time.Time) (*models.ProgressionState, error) {
	state, err := s.progressionRepo.Get(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression state: %w", err)
	}
	if state == nil {
		state = NewProgressionState(learnerID)
	}
	CheckAndRefreshWeeklyChallenges(state, now)
	return state, nil
}

func (s *ProgressionService) saveState(state *models.ProgressionState) error {
	if err := s.progressionRepo.Save(state); err != nil {
		return fmt.Errorf("failed to save progression state: %w", err)
	}
	return nil
}

func result(state *models.ProgressionState, awarded int, already bool, badges []models.UnlockedBadge) *StudyResult {
	return &StudyResult{
		PointsAwarded:    awarded,
		AlreadyCompleted: already,
		NewBadges:        badges,
		Level:            ComputeLevel(state.TotalPoints),
		CurrentStreak:    state.CurrentStreak,
	}
}

// CompleteLesson awards XP for reading a lesson. Completing the same lesson
// again on the same day awards nothing.
func (s *ProgressionService) CompleteLesson(learnerID int64, lessonID string, now time.Time) (*StudyResult, error) {
	lesson := content.LessonByID(lessonID)
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	if !RecordActivity(state, models.ActivityLesson, lessonID, now) {
		if err := s.saveState(state); err != nil {
			return nil, err
		}
		return result(state, 0, true, nil), nil
	}

	IncrementStat(state, models.StatLessons)
	badges := AddPoints(state, XPLesson, "lesson: "+lesson.Title, now)
	UpdateChallengeProgress(state, content.ChallengeLessons, 1)

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, XPLesson, false, badges), nil
}

// SubmitExercise records an exercise attempt. Only a correct solution counts
// as a completion; the same exercise solved again on the same day awards
// nothing.
func (s *ProgressionService) SubmitExercise(learnerID int64, exerciseID string, correct bool, now time.Time) (*StudyResult, error) {
	exercise := content.ExerciseByID(exerciseID)
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}

	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	if !correct {
		if err := s.saveState(state); err != nil {
			return nil, err
		}
		return result(state, 0, false, nil), nil
	}

	if !RecordActivity(state, models.ActivityExercise, exerciseID, now) {
		if err := s.saveState(state); err != nil {
			return nil, err
		}
		return result(state, 0, true, nil), nil
	}

	IncrementStat(state, models.StatExercises)
	IncrementStat(state, models.StatCorrectAnswers)
	badges := AddPoints(state, XPExercise, "exercise: "+exercise.Prompt, now)
	UpdateChallengeProgress(state, content.ChallengeExercises, 1)

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, XPExercise, false, badges), nil
}

// SubmitQuiz scores a finished quiz. XP scales with correct answers and a
// perfect score pays a bonus. The same quiz finished again on the same day
// awards nothing.
func (s *ProgressionService) SubmitQuiz(learnerID int64, quizID string, correctCount, questionCount int, now time.Time) (*StudyResult, error) {
	quiz := content.QuizByID(quizID)
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if questionCount <= 0 || correctCount < 0 || correctCount > questionCount {
		return nil, ErrInvalidScore
	}

	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	if !RecordActivity(state, models.ActivityQuiz, quizID, now) {
		if err := s.saveState(state); err != nil {
			return nil, err
		}
		return result(state, 0, true, nil), nil
	}

	perfect := correctCount == questionCount
	awarded := correctCount * XPQuizPerCorrect
	if perfect {
		awarded += XPPerfectQuizBonus
	}

	IncrementStat(state, models.StatQuizzes)
	for i := 0; i < correctCount; i++ {
		IncrementStat(state, models.StatCorrectAnswers)
	}
	if perfect {
		IncrementStat(state, models.StatPerfectQuizzes)
	}

	badges := AddPoints(state, awarded, "quiz: "+quiz.Title, now)
	UpdateChallengeProgress(state, content.ChallengeQuizzes, 1)
	if perfect {
		UpdateChallengeProgress(state, content.ChallengePerfectQuizzes, 1)
	}

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, awarded, false, badges), nil
}

// SubmitExam records a timed exam paper result. XP is proportional to the
// score out of the paper's maximum. Timing is enforced client-side; the
// elapsed seconds and the auto-submitted flag are only recorded in the
// points history.
func (s *ProgressionService) SubmitExam(learnerID int64, examID string, score, elapsedSeconds int, autoSubmitted bool, now time.Time) (*StudyResult, error) {
	paper := content.ExamPaperByID(examID)
	if paper == nil {
		return nil, ErrExamNotFound
	}
	if score < 0 || score > paper.MaxScore {
		return nil, ErrInvalidScore
	}
	if elapsedSeconds < 0 {
		return nil, ErrInvalidScore
	}

	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("exam: %s (%ds)", paper.Title, elapsedSeconds)
	if autoSubmitted {
		reason += " [time expired]"
	}

	awarded := score * 100 / paper.MaxScore
	badges := AddPoints(state, awarded, reason, now)

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, awarded, false, badges), nil
}

// FlashcardReviewed awards XP for a flashcard grading. Each card pays at most
// once per day regardless of how often it is re-graded; challenge progress
// follows the same rule.
func (s *ProgressionService) FlashcardReviewed(learnerID int64, cardID string, now time.Time) (*StudyResult, error) {
	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	if !RecordActivity(state, models.ActivityFlashcard, cardID, now) {
		if err := s.saveState(state); err != nil {
			return nil, err
		}
		return result(state, 0, true, nil), nil
	}

	badges := AddPoints(state, XPFlashcardReview, "flashcard review", now)
	UpdateChallengeProgress(state, content.ChallengeFlashcards, 1)

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, XPFlashcardReview, false, badges), nil
}

// ClaimWeeklyChallenge pays out a completed weekly challenge
func (s *ProgressionService) ClaimWeeklyChallenge(learnerID int64, challengeID string, now time.Time) (*StudyResult, error) {
	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	reward, err := ClaimChallengeReward(state, challengeID, now)
	if err != nil {
		return nil, err
	}

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, reward, false, nil), nil
}

// ClaimSideQuest pays out a completed side quest and grants its badge
func (s *ProgressionService) ClaimSideQuest(learnerID int64, questID string, now time.Time) (*StudyResult, error) {
	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}

	reward, err := ClaimSideQuestReward(state, questID, now)
	if err != nil {
		return nil, err
	}

	if err := s.saveState(state); err != nil {
		return nil, err
	}
	return result(state, reward, false, nil), nil
}

// Overview is the full progression picture for dashboard views
type Overview struct {
	State       *models.ProgressionState `json:"state"`
	Level       models.LevelInfo         `json:"level"`
	SpendableXP int                      `json:"spendable_xp"`
}

// GetOverview loads the learner's progression aggregate, with the weekly
// challenge set refreshed if a new week has started.
func (s *ProgressionService) GetOverview(learnerID int64, now time.Time) (*Overview, error) {
	state, err := s.loadState(learnerID, now)
	if err != nil {
		return nil, err
	}
	SyncSideQuests(state)

	if err := s.saveState(state); err != nil {
		return nil, err
	}

	return &Overview{
		State:       state,
		Level:       ComputeLevel(state.TotalPoints),
		SpendableXP: SpendableXP(state.TotalPoints),
	}, nil
}

// Headline returns the roster summary for a learner, or zero values when the
// learner has no progression yet
func (s *ProgressionService) Headline(learner models.Learner, dueCards int) (models.LearnerWithProgress, error) {
	lp := models.LearnerWithProgress{Learner: learner, Level: 1, Title: content.TitleForLevel(1), DueCards: dueCards}

	state, err := s.progressionRepo.Get(learner.ID)
	if err != nil {
		return lp, fmt.Errorf("failed to load progression state: %w", err)
	}
	if state == nil {
		return lp, nil
	}

	level := ComputeLevel(state.TotalPoints)
	lp.Level = level.Level
	lp.Title = level.Title
	lp.TotalPoints = state.TotalPoints
	lp.CurrentStreak = state.CurrentStreak
	lp.LongestStreak = state.LongestStreak
	lp.BadgeCount = len(state.UnlockedBadges)
	return lp, nil
}

// ResetLearner wipes the learner's progression aggregate
func (s *ProgressionService) ResetLearner(learnerID int64) error {
	if err := s.progressionRepo.Delete(learnerID); err != nil {
		return fmt.Errorf("failed to reset progression state: %w", err)
	}
	return nil
}
