// Package database provides the SQLite storage shared by the export history
// and the sandbox note service.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── audit/           # Export run history
//	└── notes/           # Notes stored by the sandbox service
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./keep-export.db")
//
//	runsRepo := audit.NewRepository(db.DB)
//	notesRepo := notes.NewRepository(db.DB)
//
//	runs, total, err := runsRepo.GetRuns(20, 0)
package database
