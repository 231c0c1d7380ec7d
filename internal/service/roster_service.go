package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mathquest/internal/credentials"
	"mathquest/internal/database"
	"mathquest/internal/models"
	"mathquest/internal/repository"
	"mathquest/internal/security"
	"mathquest/internal/validation"
)

var (
	ErrLearnerNotFound     = errors.New("learner not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrUsernameNotAllowed  = errors.New("username is not allowed")
	ErrNotFamilyMember     = errors.New("not a member of this family")
	ErrInvitationInvalid   = errors.New("invitation is invalid or expired")
	ErrInvalidLearnerLogin = errors.New("invalid username or password")
)

// Learner sessions last longer than guardian ones; kids shouldn't have to
// retype credentials every day.
const learnerSessionDuration = 30 * 24 * time.Hour

// RosterService manages families, learner profiles and invitations
type RosterService struct {
	db              *database.DB
	familyRepo      *repository.FamilyRepository
	learnerRepo     *repository.LearnerRepository
	invitationRepo  *repository.InvitationRepository
	progressionRepo *repository.ProgressionRepository
	reviewRepo      *repository.ReviewRepository
	emailService    *EmailService
}

// NewRosterService creates a new roster service
func NewRosterService(
	db *database.DB,
	familyRepo *repository.FamilyRepository,
	learnerRepo *repository.LearnerRepository,
	invitationRepo *repository.InvitationRepository,
	progressionRepo *repository.ProgressionRepository,
	reviewRepo *repository.ReviewRepository,
	emailService *EmailService,
) *RosterService {
	return &RosterService{
		db:              db,
		familyRepo:      familyRepo,
		learnerRepo:     learnerRepo,
		invitationRepo:  invitationRepo,
		progressionRepo: progressionRepo,
		reviewRepo:      reviewRepo,
		emailService:    emailService,
	}
}

// GetUserFamilies returns the families a guardian belongs to
func (s *RosterService) GetUserFamilies(userID int64) ([]models.Family, error) {
	return s.familyRepo.GetUserFamilies(userID)
}

// RequireMembership checks a guardian belongs to a family
func (s *RosterService) RequireMembership(familyID, userID int64) error {
	isMember, err := s.familyRepo.IsFamilyMember(familyID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotFamilyMember
	}
	return nil
}

// CreateFamily creates an additional family for a guardian
func (s *RosterService) CreateFamily(name string, userID int64) (*models.Family, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	return s.familyRepo.CreateFamily(name, userID)
}

// CreateLearner adds a learner profile to a family. Empty username or
// password are filled with generated learner-friendly credentials. Usernames
// are screened against the word filter.
func (s *RosterService) CreateLearner(familyID, userID int64, name, username, password, avatarColor, grade string) (*models.Learner, error) {
	if err := s.RequireMembership(familyID, userID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	if username == "" {
		generated, err := s.generateUsername()
		if err != nil {
			return nil, err
		}
		username = generated
	} else {
		if err := validation.ValidateLearnerUsername(username); err != nil {
			return nil, err
		}
		isBad, err := s.db.IsBadWord(username)
		if err != nil {
			return nil, fmt.Errorf("failed to screen username: %w", err)
		}
		if isBad {
			return nil, ErrUsernameNotAllowed
		}
		taken, err := s.learnerRepo.UsernameExists(username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	if password == "" {
		generated, err := credentials.GenerateLearnerPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		password = generated
	}

	return s.learnerRepo.CreateLearner(familyID, name, username, password, avatarColor, grade)
}

// generateUsername draws generated usernames until a free, clean one is found
func (s *RosterService) generateUsername() (string, error) {
	for attempt := 0; attempt < 20; attempt++ {
		username, err := credentials.GenerateLearnerUsername()
		if err != nil {
			return "", fmt.Errorf("failed to generate username: %w", err)
		}

		isBad, err := s.db.IsBadWord(username)
		if err != nil {
			return "", fmt.Errorf("failed to screen username: %w", err)
		}
		if isBad {
			continue
		}

		taken, err := s.learnerRepo.UsernameExists(username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
	}
	return "", errors.New("could not find a free username")
}

// GetLearner loads a learner, checking the requesting guardian's membership
func (s *RosterService) GetLearner(learnerID, userID int64) (*models.Learner, error) {
	learner, err := s.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, ErrLearnerNotFound
	}
	if err := s.RequireMembership(learner.FamilyID, userID); err != nil {
		return nil, err
	}
	return learner, nil
}

// GetFamilyLearners returns the learners of a family the guardian belongs to
func (s *RosterService) GetFamilyLearners(familyID, userID int64) ([]models.Learner, error) {
	if err := s.RequireMembership(familyID, userID); err != nil {
		return nil, err
	}
	return s.learnerRepo.GetFamilyLearners(familyID)
}

// UpdateLearner updates a learner's profile fields
func (s *RosterService) UpdateLearner(learnerID, userID int64, name, avatarColor, grade string) error {
	if _, err := s.GetLearner(learnerID, userID); err != nil {
		return err
	}
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	return s.learnerRepo.UpdateLearner(learnerID, name, avatarColor, grade)
}

// ResetLearnerPassword generates and stores a new learner password, returning
// it so the guardian can pass it on
func (s *RosterService) ResetLearnerPassword(learnerID, userID int64) (string, error) {
	if _, err := s.GetLearner(learnerID, userID); err != nil {
		return "", err
	}

	password, err := credentials.GenerateLearnerPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	if err := s.learnerRepo.UpdateLearnerPassword(learnerID, password); err != nil {
		return "", err
	}
	return password, nil
}

// DeleteLearner removes a learner and all their study data
func (s *RosterService) DeleteLearner(learnerID, userID int64) error {
	if _, err := s.GetLearner(learnerID, userID); err != nil {
		return err
	}

	if err := s.reviewRepo.DeleteLearnerRecords(learnerID); err != nil {
		return err
	}
	if err := s.progressionRepo.Delete(learnerID); err != nil {
		return err
	}
	return s.learnerRepo.DeleteLearner(learnerID)
}

// LearnerLogin authenticates a learner and opens a learner session
func (s *RosterService) LearnerLogin(username, password string) (*models.Learner, string, error) {
	learner, err := s.learnerRepo.GetLearnerByUsername(username)
	if err != nil {
		return nil, "", err
	}
	if learner == nil || learner.Password != password {
		return nil, "", ErrInvalidLearnerLogin
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(learnerSessionDuration)
	if err := s.learnerRepo.CreateLearnerSession(sessionID, learner.ID, expiresAt); err != nil {
		return nil, "", err
	}
	return learner, sessionID, nil
}

// ValidateLearnerSession resolves a learner session to the learner
func (s *RosterService) ValidateLearnerSession(sessionID string) (*models.Learner, error) {
	learnerID, err := s.learnerRepo.GetLearnerSession(sessionID)
	if err != nil {
		return nil, err
	}
	if learnerID == 0 {
		return nil, ErrSessionNotFound
	}

	learner, err := s.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, ErrSessionNotFound
	}
	return learner, nil
}

// LearnerLogout closes a learner session
func (s *RosterService) LearnerLogout(sessionID string) error {
	return s.learnerRepo.DeleteLearnerSession(sessionID)
}

// CleanupExpiredLearnerSessions removes expired learner sessions
func (s *RosterService) CleanupExpiredLearnerSessions() error {
	return s.learnerRepo.DeleteExpiredLearnerSessions()
}

// InviteGuardian emails an invitation to join a family. The invitation
// expires after 7 days.
func (s *RosterService) InviteGuardian(ctx context.Context, familyID int64, inviter *models.User, email string) (*models.Invitation, error) {
	if err := s.RequireMembership(familyID, inviter.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, errors.New("family not found")
	}

	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	invitation, err := s.invitationRepo.CreateInvitation(email, familyID, inviter.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendInvitationEmail(ctx, email, inviter.Name, family.Name, invitation.Code); err != nil {
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}
	return invitation, nil
}

// AcceptInvitation redeems an invitation code for an authenticated guardian
func (s *RosterService) AcceptInvitation(code string, userID int64) (*models.Family, error) {
	invitation, err := s.invitationRepo.GetInvitationByCode(code)
	if err != nil {
		return nil, err
	}
	if invitation == nil || invitation.UsedAt != nil || invitation.IsExpired() {
		return nil, ErrInvitationInvalid
	}

	family, err := s.familyRepo.GetFamilyByID(invitation.FamilyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrInvitationInvalid
	}

	isMember, err := s.familyRepo.IsFamilyMember(family.ID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		if err := s.familyRepo.AddFamilyMember(family.ID, userID, "member"); err != nil {
			return nil, err
		}
	}

	if err := s.invitationRepo.MarkInvitationUsed(code, userID); err != nil {
		return nil, err
	}
	return family, nil
}

// GetFamilyInvitations lists a family's invitations for a member guardian
func (s *RosterService) GetFamilyInvitations(familyID, userID int64) ([]models.Invitation, error) {
	if err := s.RequireMembership(familyID, userID); err != nil {
		return nil, err
	}
	return s.invitationRepo.GetFamilyInvitations(familyID)
}
