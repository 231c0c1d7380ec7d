package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
	"mathquest/internal/repository"
)

// SnapshotVersion identifies the snapshot document layout
const SnapshotVersion = "1.0"

var ErrSnapshotInvalid = errors.New("snapshot is invalid")

// Snapshot is a portable dump of every learner's study data: review
// schedules and the progression aggregate. Account data is not included; a
// snapshot can be restored into any installation with matching learner ids.
type Snapshot struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Learners   []LearnerSnapshot `json:"learners"`
}

// LearnerSnapshot is one learner's study data
type LearnerSnapshot struct {
	LearnerID       int64                    `json:"learner_id"`
	Progression     *models.ProgressionState `json:"progression,omitempty"`
	Reviews         []models.ReviewRecord    `json:"reviews"`
	LastSessionDate *time.Time               `json:"last_session_date,omitempty"`
}

// SnapshotService exports and restores learner study data
type SnapshotService struct {
	db *database.DB
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(db *database.DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// ExportToWriter writes a snapshot of every learner's study data
func (s *SnapshotService) ExportToWriter(w io.Writer) error {
	progressionRepo := repository.NewProgressionRepository(s.db)
	reviewRepo := repository.NewReviewRepository(s.db)

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now(),
	}

	learnerIDs, err := s.allLearnerIDs()
	if err != nil {
		return err
	}

	for _, learnerID := range learnerIDs {
		entry := LearnerSnapshot{LearnerID: learnerID}

		entry.Progression, err = progressionRepo.Get(learnerID)
		if err != nil {
			return fmt.Errorf("failed to export progression for learner %d: %w", learnerID, err)
		}

		records, err := reviewRepo.GetLearnerRecords(learnerID)
		if err != nil {
			return fmt.Errorf("failed to export reviews for learner %d: %w", learnerID, err)
		}
		for _, rec := range records {
			entry.Reviews = append(entry.Reviews, rec)
		}

		entry.LastSessionDate, err = reviewRepo.GetLastSessionDate(learnerID)
		if err != nil {
			return fmt.Errorf("failed to export session marker for learner %d: %w", learnerID, err)
		}

		snapshot.Learners = append(snapshot.Learners, entry)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}

// Export writes a snapshot to a file
func (s *SnapshotService) Export(outputPath string) error {
	log.Println("Starting study data export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Study data exported successfully to %s", outputPath)
	return nil
}

// allLearnerIDs lists every learner id in the installation
func (s *SnapshotService) allLearnerIDs() ([]int64, error) {
	rows, err := s.db.Query("SELECT id FROM learners ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
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

// ValidateSnapshot checks a decoded snapshot before any write happens
func ValidateSnapshot(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: empty document", ErrSnapshotInvalid)
	}
	if snapshot.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrSnapshotInvalid, snapshot.Version)
	}

	seen := make(map[int64]bool)
	for _, entry := range snapshot.Learners {
		if entry.LearnerID <= 0 {
			return fmt.Errorf("%w: bad learner id %d", ErrSnapshotInvalid, entry.LearnerID)
		}
		if seen[entry.LearnerID] {
			return fmt.Errorf("%w: duplicate learner id %d", ErrSnapshotInvalid, entry.LearnerID)
		}
		seen[entry.LearnerID] = true

		if entry.Progression != nil && entry.Progression.LearnerID != entry.LearnerID {
			return fmt.Errorf("%w: progression learner id mismatch for learner %d", ErrSnapshotInvalid, entry.LearnerID)
		}
		for _, rec := range entry.Reviews {
			if rec.LearnerID != entry.LearnerID {
				return fmt.Errorf("%w: review learner id mismatch for learner %d", ErrSnapshotInvalid, entry.LearnerID)
			}
			if rec.CardID == "" {
				return fmt.Errorf("%w: review with empty card id for learner %d", ErrSnapshotInvalid, entry.LearnerID)
			}
		}
	}
	return nil
}

// ImportFromReader validates a snapshot and then restores it in a single
// transaction, replacing the study data of every learner the snapshot names.
// Learners not named are untouched.
func (s *SnapshotService) ImportFromReader(reader io.Reader) error {
	var snapshot Snapshot
	if err := json.NewDecoder(reader).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := ValidateSnapshot(&snapshot); err != nil {
		return err
	}

	log.Printf("Importing study data for %d learners (snapshot from %s)",
		len(snapshot.Learners), snapshot.ExportedAt.Format(time.RFC3339))

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	progressionRepo := repository.NewProgressionRepository(tx)
	reviewRepo := repository.NewReviewRepository(tx)

	for _, entry := range snapshot.Learners {
		if err := reviewRepo.DeleteLearnerRecords(entry.LearnerID); err != nil {
			return fmt.Errorf("failed to clear reviews for learner %d: %w", entry.LearnerID, err)
		}
		if err := progressionRepo.Delete(entry.LearnerID); err != nil {
			return fmt.Errorf("failed to clear progression for learner %d: %w", entry.LearnerID, err)
		}

		for _, rec := range entry.Reviews {
			if err := reviewRepo.UpsertRecord(rec); err != nil {
				return fmt.Errorf("failed to import review for learner %d: %w", entry.LearnerID, err)
			}
		}
		if entry.Progression != nil {
			if err := progressionRepo.Save(entry.Progression); err != nil {
				return fmt.Errorf("failed to import progression for learner %d: %w", entry.LearnerID, err)
			}
		}
		if entry.LastSessionDate != nil {
			if err := reviewRepo.SetLastSessionDate(entry.LearnerID, *entry.LastSessionDate); err != nil {
				return fmt.Errorf("failed to import session marker for learner %d: %w", entry.LearnerID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Study data import completed successfully")
	return nil
}

// Import restores a snapshot from a file
func (s *SnapshotService) Import(inputPath string) error {
	log.Printf("Starting study data import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// Reset wipes all study data for one learner in a single transaction
func (s *SnapshotService) Reset(learnerID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := repository.NewReviewRepository(tx).DeleteLearnerRecords(learnerID); err != nil {
		return err
	}
	if err := repository.NewProgressionRepository(tx).Delete(learnerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	log.Printf("Study data reset for learner %d", learnerID)
	return nil
}
