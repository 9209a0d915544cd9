package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/keep-export/internal/database"
	auditRepo "github.com/mrlokans/keep-export/internal/database/audit"
	"github.com/mrlokans/keep-export/internal/entities"
)

func TestScheduleCommand_ParseFlags(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd := NewScheduleCommand()
		err := cmd.ParseFlags([]string{"-cron", "*/5 * * * *", "-now", "-exporter", "simulate", "./Takeout"})
		require.NoError(t, err)

		assert.Equal(t, "*/5 * * * *", cmd.Schedule)
		assert.True(t, cmd.RunNow)
		assert.Equal(t, "simulate", cmd.export.Exporter)
		assert.Equal(t, "./Takeout", cmd.export.TakeoutPath)
	})

	t.Run("invalid cron", func(t *testing.T) {
		cmd := NewScheduleCommand()
		err := cmd.ParseFlags([]string{"-cron", "every hour", "./Takeout"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cron schedule")
	})
}

func TestScheduleCommand_RunOncePrunesHistory(t *testing.T) {
	takeout := t.TempDir()
	writeTakeout(t, takeout, map[string]string{"Keep/a.html": sampleNoteHTML})

	export, _ := newTestExportCommand(t, takeout)
	export.Exporter = "simulate"
	export.DatabasePath = filepath.Join(t.TempDir(), "history.db")

	db, err := database.NewDatabase(export.DatabasePath)
	require.NoError(t, err)
	repo := auditRepo.NewRepository(db.DB)
	require.NoError(t, repo.SaveRun(&entities.ExportRun{
		RunID:     "old-run",
		Exporter:  "text",
		Status:    entities.ExportRunStatusCompleted,
		StartedAt: time.Now().AddDate(0, 0, -30),
	}))
	require.NoError(t, db.Close())

	cmd := &ScheduleCommand{RetentionDays: 7, export: export}
	require.NoError(t, cmd.runOnce(context.Background()))

	db, err = database.NewDatabase(export.DatabasePath)
	require.NoError(t, err)
	defer db.Close()

	runs, total, err := auditRepo.NewRepository(db.DB).GetRuns(10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "simulate", runs[0].Exporter)
}

func TestHistoryCommand_Run(t *testing.T) {
	t.Run("no database yet", func(t *testing.T) {
		cmd := &HistoryCommand{DatabasePath: filepath.Join(t.TempDir(), "missing.db"), Limit: 5}
		assert.NoError(t, cmd.Run())
	})

	t.Run("lists runs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")
		db, err := database.NewDatabase(path)
		require.NoError(t, err)
		require.NoError(t, auditRepo.NewRepository(db.DB).SaveRun(&entities.ExportRun{
			RunID:    "run-1",
			Exporter: "remote",
			Status:   entities.ExportRunStatusFailed,
			ErrorMsg: "remote note submission failed",
		}))
		require.NoError(t, db.Close())

		cmd := &HistoryCommand{DatabasePath: path, Limit: 5}
		assert.NoError(t, cmd.Run())
	})
}
