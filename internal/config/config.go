package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Export
		NotesAPI
		TransactionLog
		Database
		Audit
		Sandbox
		Schedule
	}

	Export struct {
		Exporter   string // text, cintanotes, remote or simulate
		OutputDir  string // text exporter target directory
		Encoding   string // text exporter charset
		OutputFile string // cintanotes exporter target file
		Timezone   string // zone used to read note headings, empty for local
	}
	NotesAPI struct {
		URL     string
		Token   string
		Timeout time.Duration
	}
	TransactionLog struct {
		Path string
	}
	Database struct {
		Path string // empty disables export history
	}
	Audit struct {
		RetentionDays int // Days to keep export runs (0 keeps everything)
	}
	Sandbox struct {
		Host                     string
		Port                     int32
		Token                    string
		DatabasePath             string
		ShutdownTimeoutInSeconds int
	}
	Schedule struct {
		Cron string // Cron format: "0 * * * *" = hourly
	}
)

// Location resolves the configured timezone.
func (e Export) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(e.Timezone)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("keep_exporter", DefaultExporter)
	v.SetDefault("keep_output_dir", "./text")
	v.SetDefault("keep_encoding", "utf-8")
	v.SetDefault("keep_output_file", "./notes.xml")
	v.SetDefault("keep_timezone", "")

	v.SetDefault("notes_api_url", "http://127.0.0.1:8190")
	v.SetDefault("notes_api_token", "")
	v.SetDefault("notes_api_timeout", "60s")

	v.SetDefault("transaction_log_path", DefaultTransactionLogPath)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_retention_days", 90)

	// Sandbox note service defaults
	v.SetDefault("sandbox_host", "127.0.0.1")
	v.SetDefault("sandbox_port", 8190)
	v.SetDefault("sandbox_token", DefaultSandboxToken)
	v.SetDefault("sandbox_database_path", DefaultSandboxDatabasePath)
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("schedule_cron", "0 * * * *") // Hourly at :00

	return &Config{
		Export: Export{
			Exporter:   v.GetString("KEEP_EXPORTER"),
			OutputDir:  v.GetString("KEEP_OUTPUT_DIR"),
			Encoding:   v.GetString("KEEP_ENCODING"),
			OutputFile: v.GetString("KEEP_OUTPUT_FILE"),
			Timezone:   v.GetString("KEEP_TIMEZONE"),
		},
		NotesAPI: NotesAPI{
			URL:     v.GetString("NOTES_API_URL"),
			Token:   v.GetString("NOTES_API_TOKEN"),
			Timeout: v.GetDuration("NOTES_API_TIMEOUT"),
		},
		TransactionLog: TransactionLog{
			Path: v.GetString("TRANSACTION_LOG_PATH"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Sandbox: Sandbox{
			Host:                     v.GetString("SANDBOX_HOST"),
			Port:                     v.GetInt32("SANDBOX_PORT"),
			Token:                    v.GetString("SANDBOX_TOKEN"),
			DatabasePath:             v.GetString("SANDBOX_DATABASE_PATH"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Schedule: Schedule{
			Cron: v.GetString("SCHEDULE_CRON"),
		},
	}
}
