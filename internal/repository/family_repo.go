package repository

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db database.DBTX
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db database.DBTX) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// codeAlphabet omits look-alike characters (0/O, 1/I) from join codes
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateFamilyCode() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	for i, b := range bytes {
		bytes[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(bytes), nil
}

// CreateFamily creates a new family with a fresh join code and adds the
// creator as its admin member
func (r *FamilyRepository) CreateFamily(name string, creatorUserID int64) (*models.Family, error) {
	code, err := generateFamilyCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate family code: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	familyID, err := tx.ExecReturningID("INSERT INTO families (code, name) VALUES (?, ?)", code, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	_, err = tx.Exec("INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, 'admin')", familyID, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Family{
		ID:        familyID,
		Code:      code,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// GetFamilyByID retrieves a family by id, or nil if not found
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, code, name, created_at, updated_at FROM families WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, familyID))
}

// GetFamilyByCode retrieves a family by join code, or nil if not found
func (r *FamilyRepository) GetFamilyByCode(code string) (*models.Family, error) {
	query := "SELECT id, code, name, created_at, updated_at FROM families WHERE code = ?"
	return r.scanOne(r.db.QueryRow(query, code))
}

// GetUserFamilies retrieves all families a guardian belongs to
func (r *FamilyRepository) GetUserFamilies(userID int64) ([]models.Family, error) {
	query := `
		SELECT f.id, f.code, f.name, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Code, &family.Name, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	return families, rows.Err()
}

// AddFamilyMember adds a guardian to a family
func (r *FamilyRepository) AddFamilyMember(familyID, userID int64, role string) error {
	query := "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, familyID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// GetFamilyMembers retrieves the guardian accounts belonging to a family
func (r *FamilyRepository) GetFamilyMembers(familyID int64) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.is_admin
		FROM users u
		INNER JOIN family_members fm ON u.id = fm.user_id
		WHERE fm.family_id = ?
		ORDER BY u.name
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// RemoveFamilyMember removes a guardian from a family
func (r *FamilyRepository) RemoveFamilyMember(familyID, userID int64) error {
	_, err := r.db.Exec("DELETE FROM family_members WHERE family_id = ? AND user_id = ?", familyID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove family member: %w", err)
	}
	return nil
}

// IsFamilyMember reports whether a guardian belongs to a family
func (r *FamilyRepository) IsFamilyMember(familyID, userID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM family_members WHERE family_id = ? AND user_id = ?"
	if err := r.db.QueryRow(query, familyID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

func (r *FamilyRepository) scanOne(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(&family.ID, &family.Code, &family.Name, &family.CreatedAt, &family.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}
