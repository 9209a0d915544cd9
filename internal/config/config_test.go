package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "text", cfg.Export.Exporter)
	assert.Equal(t, "utf-8", cfg.Export.Encoding)
	assert.Equal(t, "notes.log", cfg.TransactionLog.Path)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 60*time.Second, cfg.NotesAPI.Timeout)
	assert.Equal(t, int32(8190), cfg.Sandbox.Port)
	assert.Equal(t, DefaultSandboxToken, cfg.Sandbox.Token)
	assert.Equal(t, "0 * * * *", cfg.Schedule.Cron)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("KEEP_EXPORTER", "cintanotes")
	t.Setenv("KEEP_OUTPUT_FILE", "/tmp/out.xml")
	t.Setenv("NOTES_API_TOKEN", "secret")
	t.Setenv("NOTES_API_TIMEOUT", "5s")
	t.Setenv("TRANSACTION_LOG_PATH", "/var/lib/keep/notes.log")
	t.Setenv("SANDBOX_PORT", "9000")

	cfg := NewConfig()

	assert.Equal(t, "cintanotes", cfg.Export.Exporter)
	assert.Equal(t, "/tmp/out.xml", cfg.Export.OutputFile)
	assert.Equal(t, "secret", cfg.NotesAPI.Token)
	assert.Equal(t, 5*time.Second, cfg.NotesAPI.Timeout)
	assert.Equal(t, "/var/lib/keep/notes.log", cfg.TransactionLog.Path)
	assert.Equal(t, int32(9000), cfg.Sandbox.Port)
}

func TestExport_Location(t *testing.T) {
	loc, err := Export{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = Export{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = Export{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
