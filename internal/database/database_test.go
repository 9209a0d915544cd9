package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/keep-export/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	t.Run("creates directories and migrates tables", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "keep-export.db")

		db, err := NewDatabase(dbPath)
		require.NoError(t, err)
		defer db.Close()

		assert.FileExists(t, dbPath)
		for _, table := range []string{"export_runs", "sandbox_notes", "sandbox_resources"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "keep-export.db")

		db, err := NewDatabase(dbPath)
		require.NoError(t, err)
		run := &entities.ExportRun{RunID: "run-1", Exporter: "text", StartedAt: time.Now()}
		require.NoError(t, db.DB.Create(run).Error)
		require.NoError(t, db.Close())

		db, err = NewDatabase(dbPath)
		require.NoError(t, err)
		defer db.Close()

		var count int64
		require.NoError(t, db.DB.Model(&entities.ExportRun{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
