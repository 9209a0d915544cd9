package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/keep-export/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun inserts or updates an export run.
func (r *Repository) SaveRun(run *entities.ExportRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return r.db.Save(run).Error
}

// GetRuns retrieves paginated export runs, most recent first.
func (r *Repository) GetRuns(limit, offset int) ([]entities.ExportRun, int64, error) {
	var runs []entities.ExportRun
	var total int64

	query := r.db.Model(&entities.ExportRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error
	return runs, total, err
}

// GetRunByID retrieves a run by its UUID.
func (r *Repository) GetRunByID(runID string) (*entities.ExportRun, error) {
	var run entities.ExportRun
	if err := r.db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// GetLastSuccessful returns the most recent completed run of an exporter.
func (r *Repository) GetLastSuccessful(exporter string) (*entities.ExportRun, error) {
	var run entities.ExportRun
	err := r.db.Where("exporter = ? AND status = ?", exporter, entities.ExportRunStatusCompleted).
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOldRuns removes runs started before the given time.
func (r *Repository) DeleteOldRuns(before time.Time) (int64, error) {
	result := r.db.Where("started_at < ?", before).Delete(&entities.ExportRun{})
	return result.RowsAffected, result.Error
}
