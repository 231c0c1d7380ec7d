package repository

import (
	"database/sql"
	"fmt"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// LearnerRepository handles database operations for learner profiles
type LearnerRepository struct {
	db database.DBTX
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db database.DBTX) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// CreateLearner creates a new learner profile
func (r *LearnerRepository) CreateLearner(familyID int64, name, username, password, avatarColor, grade string) (*models.Learner, error) {
	query := `
		INSERT INTO learners (family_id, name, username, password, avatar_color, grade)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, familyID, name, username, password, avatarColor, grade)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner: %w", err)
	}

	return &models.Learner{
		ID:          id,
		FamilyID:    familyID,
		Name:        name,
		Username:    username,
		Password:    password,
		AvatarColor: avatarColor,
		Grade:       grade,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

const learnerColumns = "id, family_id, name, username, password, avatar_color, grade, created_at, updated_at"

// GetLearnerByID retrieves a learner by id, or nil if not found
func (r *LearnerRepository) GetLearnerByID(learnerID int64) (*models.Learner, error) {
	query := fmt.Sprintf("SELECT %s FROM learners WHERE id = ?", learnerColumns)
	return r.scanOne(r.db.QueryRow(query, learnerID))
}

// GetLearnerByUsername retrieves a learner by username, or nil if not found
func (r *LearnerRepository) GetLearnerByUsername(username string) (*models.Learner, error) {
	query := fmt.Sprintf("SELECT %s FROM learners WHERE username = ?", learnerColumns)
	return r.scanOne(r.db.QueryRow(query, username))
}

// GetFamilyLearners retrieves all learners in a family
func (r *LearnerRepository) GetFamilyLearners(familyID int64) ([]models.Learner, error) {
	query := fmt.Sprintf("SELECT %s FROM learners WHERE family_id = ? ORDER BY name", learnerColumns)
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learners: %w", err)
	}
	defer rows.Close()

	var learners []models.Learner
	for rows.Next() {
		var l models.Learner
		if err := rows.Scan(&l.ID, &l.FamilyID, &l.Name, &l.Username, &l.Password,
			&l.AvatarColor, &l.Grade, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learner: %w", err)
		}
		learners = append(learners, l)
	}
	return learners, rows.Err()
}

// UpdateLearner updates a learner's profile fields
func (r *LearnerRepository) UpdateLearner(learnerID int64, name, avatarColor, grade string) error {
	query := "UPDATE learners SET name = ?, avatar_color = ?, grade = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, name, avatarColor, grade, time.Now(), learnerID)
	if err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}
	return nil
}

// UpdateLearnerPassword replaces a learner's login password
func (r *LearnerRepository) UpdateLearnerPassword(learnerID int64, password string) error {
	query := "UPDATE learners SET password = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, password, time.Now(), learnerID)
	if err != nil {
		return fmt.Errorf("failed to update learner password: %w", err)
	}
	return nil
}

// DeleteLearner removes a learner profile
func (r *LearnerRepository) DeleteLearner(learnerID int64) error {
	_, err := r.db.Exec("DELETE FROM learners WHERE id = ?", learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete learner: %w", err)
	}
	return nil
}

// UsernameExists reports whether a learner username is already taken
func (r *LearnerRepository) UsernameExists(username string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM learners WHERE username = ?", username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// CreateLearnerSession creates a new session for a learner
func (r *LearnerRepository) CreateLearnerSession(sessionID string, learnerID int64, expiresAt time.Time) error {
	query := "INSERT INTO learner_sessions (id, learner_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, learnerID, expiresAt); err != nil {
		return fmt.Errorf("failed to create learner session: %w", err)
	}
	return nil
}

// GetLearnerSession returns the learner id for a live session, or 0 when the
// session is unknown or expired
func (r *LearnerRepository) GetLearnerSession(sessionID string) (int64, error) {
	var learnerID int64
	query := "SELECT learner_id FROM learner_sessions WHERE id = ? AND expires_at > ?"
	err := r.db.QueryRow(query, sessionID, time.Now()).Scan(&learnerID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get learner session: %w", err)
	}
	return learnerID, nil
}

// DeleteLearnerSession removes a learner session
func (r *LearnerRepository) DeleteLearnerSession(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM learner_sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete learner session: %w", err)
	}
	return nil
}

// DeleteExpiredLearnerSessions removes learner sessions past their expiry
func (r *LearnerRepository) DeleteExpiredLearnerSessions() error {
	_, err := r.db.Exec("DELETE FROM learner_sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired learner sessions: %w", err)
	}
	return nil
}

func (r *LearnerRepository) scanOne(row *sql.Row) (*models.Learner, error) {
	l := &models.Learner{}
	err := row.Scan(&l.ID, &l.FamilyID, &l.Name, &l.Username, &l.Password,
		&l.AvatarColor, &l.Grade, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return l, nil
}
