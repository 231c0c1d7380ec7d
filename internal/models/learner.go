package models

import "time"

// Learner represents a student profile in the system
type Learner struct {
	ID          int64
	FamilyID    int64
	Name        string
	Username    string
	Password    string
	AvatarColor string
	Grade       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LearnerWithProgress combines a learner with headline progression numbers
// for roster and dashboard views
type LearnerWithProgress struct {
	Learner       Learner
	Level         int
	Title         string
	TotalPoints   int
	CurrentStreak int
	LongestStreak int
	DueCards      int
	BadgeCount    int
}
