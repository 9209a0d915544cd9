package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/keep-export/internal/database/audit"
	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/exporters"
)

const maxErrorLength = 500

// Service keeps the history of export runs.
type Service struct {
	repo *audit.Repository
	now  func() time.Time
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// StartRun records a run as running and returns it for FinishRun.
func (s *Service) StartRun(exporter, sourceDir string) (*entities.ExportRun, error) {
	run := &entities.ExportRun{
		RunID:     uuid.New().String(),
		Exporter:  exporter,
		SourceDir: sourceDir,
		Status:    entities.ExportRunStatusRunning,
		StartedAt: s.now(),
	}
	if err := s.repo.SaveRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun stores the outcome of a run started with StartRun.
func (s *Service) FinishRun(run *entities.ExportRun, result exporters.ExportResult, runErr error) error {
	finished := s.now()
	run.FinishedAt = &finished
	run.Exported = result.NotesExported
	run.Skipped = result.NotesSkipped
	run.Failed = result.NotesFailed
	run.Status = entities.ExportRunStatusCompleted

	if runErr != nil {
		run.Status = entities.ExportRunStatusFailed
		run.ErrorMsg = truncate(runErr.Error(), maxErrorLength)
	}

	return s.repo.SaveRun(run)
}

// RecordRun stores a finished run in one step.
func (s *Service) RecordRun(exporter, sourceDir string, startedAt time.Time, result exporters.ExportResult, runErr error) (*entities.ExportRun, error) {
	run := &entities.ExportRun{
		RunID:     uuid.New().String(),
		Exporter:  exporter,
		SourceDir: sourceDir,
		StartedAt: startedAt,
	}
	if err := s.FinishRun(run, result, runErr); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRuns retrieves paginated export runs.
func (s *Service) GetRuns(limit, offset int) ([]entities.ExportRun, int64, error) {
	return s.repo.GetRuns(limit, offset)
}

// DeleteOldRuns removes runs older than the specified duration.
func (s *Service) DeleteOldRuns(retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	return s.repo.DeleteOldRuns(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
