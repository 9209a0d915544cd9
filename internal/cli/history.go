package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/mrlokans/keep-export/internal/audit"
	"github.com/mrlokans/keep-export/internal/config"
	"github.com/mrlokans/keep-export/internal/database"
	auditRepo "github.com/mrlokans/keep-export/internal/database/audit"
	"github.com/mrlokans/keep-export/internal/entities"
)

// HistoryCommand lists recorded export runs
type HistoryCommand struct {
	DatabasePath string
	Limit        int
}

func NewHistoryCommand() *HistoryCommand {
	return &HistoryCommand{}
}

func (cmd *HistoryCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Export history database")
	fs.IntVar(&cmd.Limit, "n", 20, "Number of runs to show")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List recent export runs, newest first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DatabasePath == "" {
		return fmt.Errorf("required flag -db not provided")
	}
	return nil
}

func (cmd *HistoryCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		fmt.Println("No export runs recorded yet")
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := audit.NewService(auditRepo.NewRepository(db.DB))
	runs, total, err := service.GetRuns(cmd.Limit, 0)
	if err != nil {
		return fmt.Errorf("failed to load export runs: %w", err)
	}

	fmt.Printf("Export runs (%d of %d)\n", len(runs), total)
	for _, run := range runs {
		line := fmt.Sprintf("%s  %-10s %-9s exported=%d skipped=%d failed=%d  %s",
			run.StartedAt.Format(time.DateTime), run.Exporter, run.Status,
			run.Exported, run.Skipped, run.Failed, run.SourceDir)

		switch run.Status {
		case entities.ExportRunStatusFailed:
			color.Red(line)
			fmt.Printf("    %s\n", run.ErrorMsg)
		case entities.ExportRunStatusRunning:
			color.Yellow(line)
		default:
			fmt.Println(line)
		}
	}
	return nil
}
