package models

import "time"

// Family groups guardians and their learners under a shared join code
type Family struct {
	ID        int64
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FamilyMember links a guardian to a family with a role
type FamilyMember struct {
	FamilyID int64
	UserID   int64
	Role     string
}

// Invitation represents an emailed invite for a guardian to join a family
type Invitation struct {
	ID          int64
	Code        string
	Email       string
	FamilyID    int64
	InvitedBy   int64
	InviterName string
	CreatedAt   time.Time
	UsedAt      *time.Time
	UsedBy      *int64
	ExpiresAt   time.Time
}

// IsExpired reports whether the invitation can no longer be accepted
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
