package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/keep-export/internal/audit"
	"github.com/mrlokans/keep-export/internal/config"
	"github.com/mrlokans/keep-export/internal/database"
	auditRepo "github.com/mrlokans/keep-export/internal/database/audit"
	"github.com/mrlokans/keep-export/internal/exporters"
	"github.com/mrlokans/keep-export/internal/scheduler"
)

// ScheduleCommand repeats an export on a cron schedule
type ScheduleCommand struct {
	Schedule      string
	RunNow        bool
	RetentionDays int
	export        *ExportCommand
}

func NewScheduleCommand() *ScheduleCommand {
	return &ScheduleCommand{export: NewExportCommand()}
}

func (cmd *ScheduleCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)

	cmd.export.registerFlags(fs, cfg)
	fs.StringVar(&cmd.Schedule, "cron", cfg.Schedule.Cron, "Cron schedule (5 fields)")
	fs.BoolVar(&cmd.RunNow, "now", false, "Also export once immediately")
	fs.IntVar(&cmd.RetentionDays, "retention-days", cfg.Audit.RetentionDays, "Days of export history to keep (0 keeps everything)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s schedule [options] <takeout-dir-or-zip>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export repeatedly on a cron schedule. Runs never overlap; a run that\n")
		fmt.Fprintf(os.Stderr, "is due while the previous one is still going is skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s schedule -cron \"0 */6 * * *\" -exporter remote -token secret ./Takeout\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one takeout directory or archive is required")
	}
	cmd.export.TakeoutPath = fs.Arg(0)

	if _, err := exporters.ParseKind(cmd.export.Exporter); err != nil {
		return err
	}
	if err := scheduler.ValidateCronSchedule(cmd.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", cmd.Schedule, err)
	}

	return nil
}

func (cmd *ScheduleCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Google Keep Scheduled Export")
	fmt.Println("============================")
	fmt.Printf("Takeout: %s\n", cmd.export.TakeoutPath)
	fmt.Printf("Schedule: %s (%s)\n", cmd.Schedule, scheduler.GetCronDescription(cmd.Schedule))

	s := scheduler.NewExportScheduler(cmd.Schedule, cmd.runOnce)
	if err := s.Start(ctx); err != nil {
		return err
	}
	if cmd.RunNow {
		s.RunNow()
	}

	<-ctx.Done()
	s.Stop()
	return nil
}

func (cmd *ScheduleCommand) runOnce(ctx context.Context) error {
	result, err := cmd.export.Export(ctx)
	log.Printf("Scheduled export: %d exported, %d skipped, %d failed",
		result.NotesExported, result.NotesSkipped, result.NotesFailed)

	if pruneErr := cmd.pruneHistory(); pruneErr != nil {
		log.Printf("Failed to prune export history: %v", pruneErr)
	}
	return err
}

func (cmd *ScheduleCommand) pruneHistory() error {
	if cmd.RetentionDays <= 0 || cmd.export.DatabasePath == "" {
		return nil
	}

	db, err := database.NewDatabase(cmd.export.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	service := audit.NewService(auditRepo.NewRepository(db.DB))
	deleted, err := service.DeleteOldRuns(time.Duration(cmd.RetentionDays) * 24 * time.Hour)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("Pruned %d old export runs", deleted)
	}
	return nil
}
