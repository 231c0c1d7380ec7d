package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// InvitationRepository handles database operations for family invitations
type InvitationRepository struct {
	db database.DBTX
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db database.DBTX) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func generateInvitationCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInvitation creates a new invitation to join a family
func (r *InvitationRepository) CreateInvitation(email string, familyID, invitedBy int64, expiresAt time.Time) (*models.Invitation, error) {
	code, err := generateInvitationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation code: %w", err)
	}

	query := "INSERT INTO invitations (code, email, family_id, invited_by, expires_at) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, code, email, familyID, invitedBy, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &models.Invitation{
		ID:        id,
		Code:      code,
		Email:     email,
		FamilyID:  familyID,
		InvitedBy: invitedBy,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

const invitationColumns = `i.id, i.code, i.email, i.family_id, i.invited_by,
	       i.created_at, i.used_at, i.used_by, i.expires_at, COALESCE(u.name, '')`

// GetInvitationByCode retrieves an invitation by code, or nil if not found
func (r *InvitationRepository) GetInvitationByCode(code string) (*models.Invitation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.code = ?
	`, invitationColumns)

	inv, err := scanInvitation(r.db.QueryRow(query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// GetFamilyInvitations retrieves all invitations sent for a family
func (r *InvitationRepository) GetFamilyInvitations(familyID int64) ([]models.Invitation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.family_id = ?
		ORDER BY i.created_at DESC
	`, invitationColumns)

	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// MarkInvitationUsed marks an invitation as accepted by a user
func (r *InvitationRepository) MarkInvitationUsed(code string, userID int64) error {
	query := "UPDATE invitations SET used_at = ?, used_by = ? WHERE code = ?"
	_, err := r.db.Exec(query, time.Now(), userID, code)
	if err != nil {
		return fmt.Errorf("failed to mark invitation used: %w", err)
	}
	return nil
}

// DeleteInvitation removes an invitation
func (r *InvitationRepository) DeleteInvitation(id int64) error {
	_, err := r.db.Exec("DELETE FROM invitations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return nil
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var usedAt sql.NullTime
	var usedBy sql.NullInt64

	err := row.Scan(
		&inv.ID, &inv.Code, &inv.Email, &inv.FamilyID, &inv.InvitedBy,
		&inv.CreatedAt, &usedAt, &usedBy, &inv.ExpiresAt, &inv.InviterName,
	)
	if err != nil {
		return nil, err
	}

	if usedAt.Valid {
		inv.UsedAt = &usedAt.Time
	}
	if usedBy.Valid {
		inv.UsedBy = &usedBy.Int64
	}
	return inv, nil
}
