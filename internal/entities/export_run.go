package entities

import "time"

type ExportRunStatus string

const (
	ExportRunStatusRunning   ExportRunStatus = "running"
	ExportRunStatusCompleted ExportRunStatus = "completed"
	ExportRunStatusFailed    ExportRunStatus = "failed"
)

// ExportRun records one invocation of the export pipeline.
type ExportRun struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	RunID      string          `gorm:"uniqueIndex;size:36" json:"run_id"`
	Exporter   string          `gorm:"index;size:50" json:"exporter"`
	SourceDir  string          `gorm:"size:1024" json:"source_dir"`
	Exported   int             `json:"exported"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
	Status     ExportRunStatus `gorm:"size:20" json:"status"`
	ErrorMsg   string          `gorm:"size:500" json:"error_msg,omitempty"`
	StartedAt  time.Time       `gorm:"index" json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

func (ExportRun) TableName() string {
	return "export_runs"
}
