package config

// Default paths and values
const (
	// DefaultDatabasePath is the default path for the export history database
	DefaultDatabasePath = "./keep-export.db"

	// DefaultSandboxDatabasePath is where the sandbox note service stores notes
	DefaultSandboxDatabasePath = "./sandbox.db"

	// DefaultTransactionLogPath records notes created through the notes API
	DefaultTransactionLogPath = "notes.log"

	// DefaultExporter is used when neither flag nor environment selects one
	DefaultExporter = "text"

	// DefaultSandboxToken is accepted by a sandbox started without a token
	DefaultSandboxToken = "sandbox-token"
)
