package service

import (
	"strings"
	"testing"
	"time"

	"mathquest/internal/models"
)

func validSnapshot() *Snapshot {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rec := models.NewReviewRecord(1, "fc-frac-add")
	return &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: now,
		Learners: []LearnerSnapshot{
			{
				LearnerID:   1,
				Progression: NewProgressionState(1),
				Reviews:     []models.ReviewRecord{rec},
			},
		},
	}
}

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantErr bool
	}{
		{
			name:   "valid snapshot",
			mutate: func(s *Snapshot) {},
		},
		{
			name:    "wrong version",
			mutate:  func(s *Snapshot) { s.Version = "0.9" },
			wantErr: true,
		},
		{
			name:    "bad learner id",
			mutate:  func(s *Snapshot) { s.Learners[0].LearnerID = 0 },
			wantErr: true,
		},
		{
			name: "duplicate learner",
			mutate: func(s *Snapshot) {
				s.Learners = append(s.Learners, s.Learners[0])
			},
			wantErr: true,
		},
		{
			name: "progression learner mismatch",
			mutate: func(s *Snapshot) {
				s.Learners[0].Progression.LearnerID = 99
			},
			wantErr: true,
		},
		{
			name: "review learner mismatch",
			mutate: func(s *Snapshot) {
				s.Learners[0].Reviews[0].LearnerID = 99
			},
			wantErr: true,
		},
		{
			name: "review without card id",
			mutate: func(s *Snapshot) {
				s.Learners[0].Reviews[0].CardID = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := validSnapshot()
			tt.mutate(snapshot)

			err := ValidateSnapshot(snapshot)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "snapshot is invalid") {
				t.Errorf("error %v should wrap ErrSnapshotInvalid", err)
			}
		})
	}

	if err := ValidateSnapshot(nil); err == nil {
		t.Error("ValidateSnapshot(nil) expected error")
	}
}
