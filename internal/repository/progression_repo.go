package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// ProgressionRepository persists the per-learner progression aggregate as a
// schema-versioned JSON document. The aggregate is the unit of every
// mutation and of import/export, so it is stored whole rather than
// normalized across tables.
type ProgressionRepository struct {
	db database.DBTX
}

// NewProgressionRepository creates a new progression repository
func NewProgressionRepository(db database.DBTX) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// Get retrieves a learner's progression state, or nil if none has been
// created yet
func (r *ProgressionRepository) Get(learnerID int64) (*models.ProgressionState, error) {
	var doc string
	err := r.db.QueryRow("SELECT state FROM progression_states WHERE learner_id = ?", learnerID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progression state: %w", err)
	}

	state := &models.ProgressionState{}
	if err := json.Unmarshal([]byte(doc), state); err != nil {
		return nil, fmt.Errorf("failed to decode progression state: %w", err)
	}
	return state, nil
}

// Save writes a learner's progression state, inserting it on first use
func (r *ProgressionRepository) Save(state *models.ProgressionState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode progression state: %w", err)
	}

	update := "UPDATE progression_states SET schema_version = ?, state = ?, updated_at = ? WHERE learner_id = ?"
	result, err := r.db.Exec(update, state.SchemaVersion, string(doc), time.Now(), state.LearnerID)
	if err != nil {
		return fmt.Errorf("failed to update progression state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := "INSERT INTO progression_states (learner_id, schema_version, state) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(insert, state.LearnerID, state.SchemaVersion, string(doc)); err != nil {
		return fmt.Errorf("failed to insert progression state: %w", err)
	}
	return nil
}

// Delete removes a learner's progression state
func (r *ProgressionRepository) Delete(learnerID int64) error {
	_, err := r.db.Exec("DELETE FROM progression_states WHERE learner_id = ?", learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete progression state: %w", err)
	}
	return nil
}

// ListLearnerIDs returns the ids of every learner with persisted progression
func (r *ProgressionRepository) ListLearnerIDs() ([]int64, error) {
	rows, err := r.db.Query("SELECT learner_id FROM progression_states ORDER BY learner_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list progression states: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan learner id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
