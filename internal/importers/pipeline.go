package importers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/exporters"
	"github.com/mrlokans/keep-export/internal/keep"
)

const KeepDirName = "Keep"

// NoteParser turns one Takeout HTML file into a note.
//
// Implementations:
//   - keep.Parser (internal/keep/parser.go) - Google Keep Takeout HTML
type NoteParser interface {
	ParseFile(path string) (*entities.Note, error)
}

// Pipeline handles the export workflow:
// enumerate → parse → flag external attachments → export → finalize.
//
// Notes are processed one at a time and in file name order, so a note is
// fully exported (and logged, for the remote sink) before the next one is
// parsed.
type Pipeline struct {
	parser  NoteParser
	sink    exporters.Sink
	logger  *log.Logger
	Verbose bool
}

// NewPipeline creates a pipeline feeding parsed notes into sink.
func NewPipeline(parser NoteParser, sink exporters.Sink, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{parser: parser, sink: sink, logger: logger}
}

// Run exports every note file directly inside dir.
//
// Malformed documents and notes the sink skips are counted and passed over.
// A note with a broken embedded attachment is counted as failed. Any other
// parse or sink error aborts the run and is returned along with the counts
// so far. A cancelled ctx stops the run after the current note; the sink is
// still finalized so finished notes are kept.
func (p *Pipeline) Run(ctx context.Context, dir string) (exporters.ExportResult, error) {
	var result exporters.ExportResult

	names, err := listEntries(dir)
	if err != nil {
		return result, err
	}

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}

		if !strings.EqualFold(filepath.Ext(name), ".html") {
			p.logger.Printf("Skipping %s: not an HTML note", name)
			continue
		}

		result.NotesProcessed++
		notePath := filepath.Join(dir, name)

		note, err := p.parser.ParseFile(notePath)
		switch {
		case errors.Is(err, keep.ErrMalformedDocument):
			p.logger.Printf("Skipping %s: %v", name, err)
			result.NotesSkipped++
			continue
		case errors.Is(err, keep.ErrInvalidAttachmentEncoding):
			p.logger.Printf("Failed %s: %v", name, err)
			result.NotesFailed++
			continue
		case err != nil:
			return result, fmt.Errorf("failed to read %s: %w", notePath, err)
		}

		for _, attachment := range note.ExternalAttachments() {
			p.logger.Printf("Note %s references external attachment %q; only the reference is kept", name, attachment.Reference)
		}

		err = p.sink.Export(ctx, note)
		switch {
		case exporters.IsSkip(err):
			result.NotesSkipped++
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			result.NotesProcessed--
			continue
		case err != nil:
			result.NotesFailed++
			return result, fmt.Errorf("%s exporter failed on %s: %w", p.sink.Name(), name, err)
		}

		result.NotesExported++
		if p.Verbose {
			p.logger.Printf("Exported %s (%s)", name, note.TitleOr("untitled"))
		}
	}

	if err := p.sink.Finalize(ctx); err != nil {
		return result, fmt.Errorf("failed to finalize %s exporter: %w", p.sink.Name(), err)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// listEntries returns the regular files directly inside dir, sorted by name.
func listEntries(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open note directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		entry, err := fs.Stat(fsys, match)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", match, err)
		}
		if entry.IsDir() {
			continue
		}
		names = append(names, match)
	}
	sort.Strings(names)
	return names, nil
}

// FindKeepDir locates the directory holding Keep notes inside an extracted
// Takeout archive. A directory named "Keep" wins; otherwise the first
// directory (in path order) containing .html files is used. A directory that
// itself contains notes is returned unchanged.
func FindKeepDir(takeoutDir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(takeoutDir), "**/*.html")
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", takeoutDir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no Keep notes found in %s", takeoutDir)
	}
	sort.Strings(matches)

	found := path.Dir(matches[0])
	for _, match := range matches {
		if path.Base(path.Dir(match)) == KeepDirName {
			found = path.Dir(match)
			break
		}
	}

	return filepath.Join(takeoutDir, filepath.FromSlash(found)), nil
}
