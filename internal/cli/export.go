package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/mrlokans/keep-export/internal/audit"
	"github.com/mrlokans/keep-export/internal/config"
	"github.com/mrlokans/keep-export/internal/database"
	auditRepo "github.com/mrlokans/keep-export/internal/database/audit"
	"github.com/mrlokans/keep-export/internal/exporters"
	"github.com/mrlokans/keep-export/internal/fingerprint"
	"github.com/mrlokans/keep-export/internal/importers"
	"github.com/mrlokans/keep-export/internal/keep"
	"github.com/mrlokans/keep-export/internal/notesapi"
	"github.com/mrlokans/keep-export/internal/txlog"
)

// ExportCommand exports the notes of a Google Keep Takeout
type ExportCommand struct {
	TakeoutPath  string
	Exporter     string
	OutputDir    string
	Encoding     string
	OutputFile   string
	APIURL       string
	Token        string
	LogPath      string
	DatabasePath string
	Timezone     string
	Timeout      time.Duration
	KeepOutput   bool
	Verbose      bool

	// Output receives the simulate exporter's YAML
	Output io.Writer
	Logger *log.Logger
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{Output: os.Stdout, Logger: log.Default()}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cmd.registerFlags(fs, cfg)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options] <takeout-dir-or-zip>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export Google Keep notes from a Takeout archive.\n\n")
		fmt.Fprintf(os.Stderr, "Exporters:\n")
		fmt.Fprintf(os.Stderr, "  text        one .txt file per note in -output\n")
		fmt.Fprintf(os.Stderr, "  cintanotes  a single CintaNotes XML notebook in -outfile\n")
		fmt.Fprintf(os.Stderr, "  remote      create notes through the notes API at -api-url\n")
		fmt.Fprintf(os.Stderr, "  simulate    print every note as YAML without exporting\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Convert an archive into text files:\n")
		fmt.Fprintf(os.Stderr, "  %s export -output ./Text takeout.zip\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Build a CintaNotes notebook:\n")
		fmt.Fprintf(os.Stderr, "  %s export -exporter cintanotes -outfile notes.xml ./Takeout\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Upload to a local sandbox (see '%s sandbox'):\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -exporter remote -token %s ./Takeout\n", os.Args[0], config.DefaultSandboxToken)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one takeout directory or archive is required")
	}
	cmd.TakeoutPath = fs.Arg(0)

	if _, err := exporters.ParseKind(cmd.Exporter); err != nil {
		return err
	}

	return nil
}

func (cmd *ExportCommand) registerFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cmd.Exporter, "exporter", cfg.Export.Exporter, "Exporter: text, cintanotes, remote or simulate")
	fs.StringVar(&cmd.OutputDir, "output", cfg.Export.OutputDir, "Output directory of the text exporter (recreated on every run)")
	fs.StringVar(&cmd.Encoding, "encoding", cfg.Export.Encoding, "Charset of the text exporter's files")
	fs.StringVar(&cmd.OutputFile, "outfile", cfg.Export.OutputFile, "Output file of the cintanotes exporter")
	fs.StringVar(&cmd.APIURL, "api-url", cfg.NotesAPI.URL, "Base URL of the notes API (remote exporter)")
	fs.StringVar(&cmd.Token, "token", cfg.NotesAPI.Token, "Notes API token (remote exporter)")
	fs.DurationVar(&cmd.Timeout, "timeout", cfg.NotesAPI.Timeout, "Per-request timeout of the notes API")
	fs.StringVar(&cmd.LogPath, "log", cfg.TransactionLog.Path, "Transaction log of created notes (remote exporter)")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Export history database (empty to disable)")
	fs.StringVar(&cmd.Timezone, "timezone", cfg.Export.Timezone, "Timezone of the note headings (default: local)")
	fs.BoolVar(&cmd.KeepOutput, "keep-output", false, "Do not empty the text exporter's output directory first")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
}

func (cmd *ExportCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Google Keep Export")
	fmt.Println("==================")

	result, err := cmd.Export(ctx)
	printSummary(result, err)
	return err
}

// Export performs one export run and records it in the history database.
func (cmd *ExportCommand) Export(ctx context.Context) (exporters.ExportResult, error) {
	var result exporters.ExportResult
	startedAt := time.Now()

	kind, err := exporters.ParseKind(cmd.Exporter)
	if err != nil {
		return result, err
	}

	keepDir, cleanup, err := ResolveKeepDir(cmd.TakeoutPath)
	defer cleanup()
	if err != nil {
		return result, err
	}
	fmt.Printf("Keep dir: %s\n", keepDir)
	fmt.Printf("Exporter: %s\n", kind)

	result, err = cmd.runPipeline(ctx, kind, keepDir)

	if recordErr := cmd.recordRun(string(kind), keepDir, startedAt, result, err); recordErr != nil {
		cmd.Logger.Printf("Failed to record export run: %v", recordErr)
	}
	return result, err
}

func (cmd *ExportCommand) runPipeline(ctx context.Context, kind exporters.Kind, keepDir string) (exporters.ExportResult, error) {
	var result exporters.ExportResult

	cfg := config.Export{Timezone: cmd.Timezone}
	loc, err := cfg.Location()
	if err != nil {
		return result, fmt.Errorf("invalid timezone %q: %w", cmd.Timezone, err)
	}

	sink, err := cmd.newSink(ctx, kind, keepDir)
	if err != nil {
		return result, err
	}

	parser := keep.NewParser()
	parser.Location = loc

	pipeline := importers.NewPipeline(parser, sink, cmd.Logger)
	pipeline.Verbose = cmd.Verbose

	return pipeline.Run(ctx, keepDir)
}

func (cmd *ExportCommand) newSink(ctx context.Context, kind exporters.Kind, keepDir string) (exporters.Sink, error) {
	opts := exporters.Options{
		Encoding: cmd.Encoding,
		Output:   cmd.Output,
		Logger:   cmd.Logger,
	}

	switch kind {
	case exporters.KindText:
		absOutputDir, err := filepath.Abs(cmd.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for output: %w", err)
		}
		// Validate the encoding before anything is deleted.
		if _, err := exporters.LookupEncoding(cmd.Encoding); err != nil {
			return nil, err
		}
		if !cmd.KeepOutput {
			if err := ensureOutsideInput(absOutputDir, cmd.TakeoutPath, keepDir); err != nil {
				return nil, err
			}
			if err := recreateDir(absOutputDir); err != nil {
				return nil, err
			}
		}
		fmt.Printf("Output: %s\n", absOutputDir)
		opts.OutputDir = absOutputDir

	case exporters.KindCintaNotes:
		opts.OutputFile = cmd.OutputFile
		fmt.Printf("Output: %s\n", cmd.OutputFile)

	case exporters.KindRemote:
		if cmd.Token == "" {
			return nil, fmt.Errorf("the remote exporter requires -token (or NOTES_API_TOKEN)")
		}

		client := notesapi.NewClient(cmd.APIURL, cmd.Token).WithTimeout(cmd.Timeout)
		if err := client.ValidateToken(ctx); err != nil {
			return nil, fmt.Errorf("failed to validate notes API token: %w", err)
		}

		txLog, err := txlog.Open(cmd.LogPath)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Notes API: %s\n", cmd.APIURL)
		fmt.Printf("Transaction log: %s (%d entries)\n", txLog.Path(), txLog.Len())

		opts.Creator = client
		opts.Log = txLog
		opts.Destination = fingerprint.Destination(cmd.Token)
	}

	return exporters.New(kind, opts)
}

func (cmd *ExportCommand) recordRun(exporter, sourceDir string, startedAt time.Time, result exporters.ExportResult, runErr error) error {
	if cmd.DatabasePath == "" {
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	service := audit.NewService(auditRepo.NewRepository(db.DB))
	run, err := service.RecordRun(exporter, sourceDir, startedAt, result, runErr)
	if err != nil {
		return err
	}

	if cmd.Verbose {
		fmt.Printf("Recorded run %s\n", run.RunID)
	}
	return nil
}

func printSummary(result exporters.ExportResult, err error) {
	fmt.Println("\n=== Export Summary ===")
	fmt.Printf("Notes processed: %d\n", result.NotesProcessed)
	color.Green("Notes exported:  %d", result.NotesExported)
	if result.NotesSkipped > 0 {
		color.Yellow("Notes skipped:   %d", result.NotesSkipped)
	} else {
		fmt.Printf("Notes skipped:   %d\n", result.NotesSkipped)
	}
	if result.NotesFailed > 0 {
		color.Red("Notes failed:    %d", result.NotesFailed)
	} else {
		fmt.Printf("Notes failed:    %d\n", result.NotesFailed)
	}

	switch {
	case errors.Is(err, context.Canceled):
		color.Yellow("\nExport interrupted; finished notes were kept.")
	case err != nil:
		color.Red("\nExport aborted: %v", err)
	default:
		fmt.Println("\nExport complete!")
	}
}
