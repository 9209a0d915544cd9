package exporters

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mrlokans/keep-export/internal/entities"
)

// Sink consumes normalized notes and produces one output format.
//
// Export is called once per note, in source order; Finalize once after the
// last note. Implementations:
//   - TextSink (text.go) - one .txt file per note
//   - CintaNotesSink (cintanotes.go) - a single CintaNotes XML notebook
//   - RemoteSink (remote.go) - notes created through a notes API
//   - SimulateSink (simulate.go) - YAML dump of every note
type Sink interface {
	Name() string
	Export(ctx context.Context, note *entities.Note) error
	Finalize(ctx context.Context) error
}

type ExportResult struct {
	NotesProcessed int `json:"notes_processed"`
	NotesExported  int `json:"notes_exported"`
	NotesSkipped   int `json:"notes_skipped"`
	NotesFailed    int `json:"notes_failed"`
}

// Kind selects a sink implementation.
type Kind string

const (
	KindText       Kind = "text"
	KindCintaNotes Kind = "cintanotes"
	KindRemote     Kind = "remote"
	KindSimulate   Kind = "simulate"
)

// Kinds lists every supported sink kind.
func Kinds() []Kind {
	return []Kind{KindText, KindCintaNotes, KindRemote, KindSimulate}
}

// ParseKind validates a sink name given on the command line or in config.
func ParseKind(name string) (Kind, error) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, kind := range Kinds() {
		if kind == normalized {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown exporter %q (expected one of %s)", name, kindNames())
}

func kindNames() string {
	names := make([]string, 0, len(Kinds()))
	for _, kind := range Kinds() {
		names = append(names, string(kind))
	}
	return strings.Join(names, ", ")
}

// Options carries the settings of every sink kind; each kind reads only
// its own fields.
type Options struct {
	// text
	OutputDir string
	Encoding  string

	// cintanotes
	OutputFile string

	// remote
	Creator     NoteCreator
	Log         TransactionLog
	Destination string

	// simulate
	Output io.Writer

	Logger *log.Logger
}

// New builds the sink selected by kind.
func New(kind Kind, opts Options) (Sink, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	switch kind {
	case KindText:
		if opts.OutputDir == "" {
			return nil, fmt.Errorf("text exporter requires an output directory")
		}
		return NewTextSink(opts.OutputDir, opts.Encoding, opts.Logger)
	case KindCintaNotes:
		if opts.OutputFile == "" {
			return nil, fmt.Errorf("cintanotes exporter requires an output file")
		}
		return NewCintaNotesSink(opts.OutputFile), nil
	case KindRemote:
		if opts.Creator == nil || opts.Log == nil {
			return nil, fmt.Errorf("remote exporter requires a notes API client and a transaction log")
		}
		if opts.Destination == "" {
			return nil, fmt.Errorf("remote exporter requires a destination identity")
		}
		return NewRemoteSink(opts.Creator, opts.Log, opts.Destination, opts.Logger), nil
	case KindSimulate:
		output := opts.Output
		if output == nil {
			output = os.Stderr
		}
		return NewSimulateSink(output), nil
	default:
		return nil, fmt.Errorf("unknown exporter %q", kind)
	}
}
