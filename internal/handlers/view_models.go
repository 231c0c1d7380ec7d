package handlers

import (
	"time"

	"mathquest/internal/content"
	"mathquest/internal/models"
	"mathquest/internal/service"
)

// JSON views. Models carry storage fields (password hashes, learner
// passwords) that must never reach a response, so every handler maps
// through these.

type userView struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}
}

type familyView struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func newFamilyView(f *models.Family) familyView {
	return familyView{ID: f.ID, Code: f.Code, Name: f.Name}
}

func newFamilyViews(families []models.Family) []familyView {
	views := make([]familyView, 0, len(families))
	for i := range families {
		views = append(views, newFamilyView(&families[i]))
	}
	return views
}

type learnerView struct {
	ID          int64  `json:"id"`
	FamilyID    int64  `json:"family_id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatar_color"`
	Grade       string `json:"grade"`
}

func newLearnerView(l *models.Learner) learnerView {
	return learnerView{
		ID:          l.ID,
		FamilyID:    l.FamilyID,
		Name:        l.Name,
		Username:    l.Username,
		AvatarColor: l.AvatarColor,
		Grade:       l.Grade,
	}
}

type learnerProgressView struct {
	Learner       learnerView `json:"learner"`
	Level         int         `json:"level"`
	Title         string      `json:"title"`
	TotalPoints   int         `json:"total_points"`
	CurrentStreak int         `json:"current_streak"`
	LongestStreak int         `json:"longest_streak"`
	DueCards      int         `json:"due_cards"`
	BadgeCount    int         `json:"badge_count"`
}

func newLearnerProgressView(lp models.LearnerWithProgress) learnerProgressView {
	return learnerProgressView{
		Learner:       newLearnerView(&lp.Learner),
		Level:         lp.Level,
		Title:         lp.Title,
		TotalPoints:   lp.TotalPoints,
		CurrentStreak: lp.CurrentStreak,
		LongestStreak: lp.LongestStreak,
		DueCards:      lp.DueCards,
		BadgeCount:    lp.BadgeCount,
	}
}

type invitationView struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Code      string     `json:"code"`
	InvitedBy string     `json:"invited_by"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func newInvitationView(inv *models.Invitation) invitationView {
	return invitationView{
		ID:        inv.ID,
		Email:     inv.Email,
		Code:      inv.Code,
		InvitedBy: inv.InviterName,
		ExpiresAt: inv.ExpiresAt,
		UsedAt:    inv.UsedAt,
	}
}

type flashcardView struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type dueCardView struct {
	Card        flashcardView `json:"card"`
	Mastery     int           `json:"mastery"`
	Repetitions int           `json:"repetitions"`
	Interval    int           `json:"interval"`
	NextReview  *time.Time    `json:"next_review,omitempty"`
}

func newDueCardView(dc service.DueCard) dueCardView {
	view := dueCardView{
		Card: flashcardView{
			ID:    dc.Card.ID,
			Topic: dc.Card.Topic,
			Front: dc.Card.Front,
			Back:  dc.Card.Back,
		},
		Mastery: dc.Mastery,
	}
	if dc.Record != nil {
		view.Repetitions = dc.Record.Repetitions
		view.Interval = dc.Record.Interval
		next := dc.Record.NextReviewDate
		view.NextReview = &next
	}
	return view
}

func newDueCardViews(cards []service.DueCard) []dueCardView {
	views := make([]dueCardView, 0, len(cards))
	for _, dc := range cards {
		views = append(views, newDueCardView(dc))
	}
	return views
}

type lessonView struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type exerciseView struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Prompt     string `json:"prompt"`
	Difficulty int    `json:"difficulty"`
}

type quizView struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

type examPaperView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Year            int    `json:"year"`
	DurationMinutes int    `json:"duration_minutes"`
	MaxScore        int    `json:"max_score"`
}

type shopItemView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Owned bool   `json:"owned"`
}

type perkView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Stat      string `json:"stat"`
	Threshold int    `json:"threshold"`
}

func newPerkViews(perks []content.Perk) []perkView {
	views := make([]perkView, 0, len(perks))
	for _, p := range perks {
		views = append(views, perkView{ID: p.ID, Name: p.Name, Stat: p.Stat, Threshold: p.Threshold})
	}
	return views
}
