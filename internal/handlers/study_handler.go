package handlers

import (
	"errors"
	"net/http"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/service"
)

// StudyHandler serves the content catalogs and records study events
type StudyHandler struct {
	progressionService *service.ProgressionService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(progressionService *service.ProgressionService) *StudyHandler {
	return &StudyHandler{progressionService: progressionService}
}

func studyStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrExamNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidScore):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *StudyHandler) respondStudyError(w http.ResponseWriter, err error, logMsg string) {
	status := studyStatus(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, ErrInternalServerError, logMsg, err)
		return
	}
	respondError(w, status, err.Error(), "", nil)
}

// ListLessons returns the lesson catalog, optionally filtered by topic
func (h *StudyHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	views := make([]lessonView, 0, len(content.Lessons))
	for _, lesson := range content.Lessons {
		if topic != "" && lesson.Topic != topic {
			continue
		}
		views = append(views, lessonView{ID: lesson.ID, Topic: lesson.Topic, Title: lesson.Title, Summary: lesson.Summary})
	}
	respondJSON(w, http.StatusOK, views)
}

// ListExercises returns the exercise catalog without answers
func (h *StudyHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	views := make([]exerciseView, 0, len(content.Exercises))
	for _, ex := range content.Exercises {
		if topic != "" && ex.Topic != topic {
			continue
		}
		views = append(views, exerciseView{ID: ex.ID, Topic: ex.Topic, Prompt: ex.Prompt, Difficulty: ex.Difficulty})
	}
	respondJSON(w, http.StatusOK, views)
}

// ListQuizzes returns the quiz catalog
func (h *StudyHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	views := make([]quizView, 0, len(content.Quizzes))
	for _, quiz := range content.Quizzes {
		views = append(views, quizView{ID: quiz.ID, Topic: quiz.Topic, Title: quiz.Title, Questions: quiz.Questions})
	}
	respondJSON(w, http.StatusOK, views)
}

// ListExamPapers returns the mock exam catalog
func (h *StudyHandler) ListExamPapers(w http.ResponseWriter, r *http.Request) {
	views := make([]examPaperView, 0, len(content.ExamPapers))
	for _, paper := range content.ExamPapers {
		views = append(views, examPaperView{
			ID:              paper.ID,
			Title:           paper.Title,
			Year:            paper.Year,
			DurationMinutes: paper.DurationMinutes,
			MaxScore:        paper.MaxScore,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// CompleteLesson records a finished lesson for the learner
func (h *StudyHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	lessonID := r.PathValue("lessonID")

	result, err := h.progressionService.CompleteLesson(learner.ID, lessonID, time.Now())
	if err != nil {
		h.respondStudyError(w, err, "Failed to complete lesson")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type submitExerciseRequest struct {
	Answer string `json:"answer"`
}

// SubmitExercise grades an exercise answer server-side and records the
// attempt. Answers are matched after trimming whitespace.
func (h *StudyHandler) SubmitExercise(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	exerciseID := r.PathValue("exerciseID")

	var req submitExerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	exercise := content.ExerciseByID(exerciseID)
	if exercise == nil {
		respondError(w, http.StatusNotFound, service.ErrExerciseNotFound.Error(), "", nil)
		return
	}
	correct := content.AnswersMatch(req.Answer, exercise.Answer)

	result, err := h.progressionService.SubmitExercise(learner.ID, exerciseID, correct, time.Now())
	if err != nil {
		h.respondStudyError(w, err, "Failed to submit exercise")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"correct": correct,
		"result":  result,
	})
}

type submitQuizRequest struct {
	CorrectCount  int `json:"correct_count"`
	QuestionCount int `json:"question_count"`
}

// SubmitQuiz records a finished quiz
func (h *StudyHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	quizID := r.PathValue("quizID")

	var req submitQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	result, err := h.progressionService.SubmitQuiz(learner.ID, quizID, req.CorrectCount, req.QuestionCount, time.Now())
	if err != nil {
		h.respondStudyError(w, err, "Failed to submit quiz")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type submitExamRequest struct {
	Score          int  `json:"score"`
	ElapsedSeconds int  `json:"elapsed_seconds"`
	AutoSubmitted  bool `json:"auto_submitted"`
}

// SubmitExam records a timed mock exam result
func (h *StudyHandler) SubmitExam(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	examID := r.PathValue("examID")

	var req submitExamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	result, err := h.progressionService.SubmitExam(learner.ID, examID, req.Score, req.ElapsedSeconds, req.AutoSubmitted, time.Now())
	if err != nil {
		h.respondStudyError(w, err, "Failed to submit exam")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
