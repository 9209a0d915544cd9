package exporters

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/utils"
)

const DefaultTextEncoding = "utf-8"

// TextSink writes each note body to <OutputDir>/<source base name>.txt.
type TextSink struct {
	OutputDir    string
	EncodingName string

	encoding encoding.Encoding
	logger   *log.Logger

	mu sync.Mutex
	// lower-cased names written by this sink, so two notes never share a
	// file even on case-insensitive filesystems
	written map[string]bool
}

// NewTextSink resolves the encoding up front: an unknown name fails here
// rather than on the first note.
func NewTextSink(outputDir, encodingName string, logger *log.Logger) (*TextSink, error) {
	if encodingName == "" {
		encodingName = DefaultTextEncoding
	}
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	return &TextSink{
		OutputDir:    outputDir,
		EncodingName: encodingName,
		encoding:     enc,
		logger:       logger,
		written:      make(map[string]bool),
	}, nil
}

// LookupEncoding maps an IANA charset name (case-insensitive) to an encoder.
func LookupEncoding(name string) (encoding.Encoding, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "utf-8" || normalized == "utf8" {
		return unicode.UTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, name)
	}
	return enc, nil
}

func (s *TextSink) Name() string {
	return string(KindText)
}

func (s *TextSink) Export(ctx context.Context, note *entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := s.encoding.NewEncoder().String(note.Body)
	if err != nil {
		s.logger.Printf("Skipping %s: body cannot be encoded as %s: %v", note.SourcePath, s.EncodingName, err)
		return fmt.Errorf("%w: %s: %v", ErrEncodingMismatch, note.SourcePath, err)
	}

	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(s.OutputDir, s.claimFileName(note))
	if err := os.WriteFile(outputPath, []byte(encoded), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

func (s *TextSink) fileName(note *entities.Note) string {
	if note.SourcePath != "" {
		return utils.ReplaceExtension(note.SourcePath, ".txt")
	}
	return utils.SanitizeFilename(note.CreatedAt.Format("2006-01-02T15_04_05")) + ".txt"
}

// claimFileName reserves the output name of note. A name already used in
// this run gets a " (2)", " (3)", ... suffix.
func (s *TextSink) claimFileName(note *entities.Note) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.fileName(note)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 2; s.written[strings.ToLower(candidate)]; i++ {
		candidate = stem + " (" + strconv.Itoa(i) + ")" + ext
	}
	if candidate != name {
		s.logger.Printf("%s would overwrite %s; writing %s instead", note.SourcePath, name, candidate)
	}

	s.written[strings.ToLower(candidate)] = true
	return candidate
}

// Finalize is a no-op; every note is already on disk.
func (s *TextSink) Finalize(ctx context.Context) error {
	return nil
}
