package exporters

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/fingerprint"
)

// SimulateSink writes every note as a YAML document instead of exporting
// it. Useful to check what a run would send.
type SimulateSink struct {
	mu        sync.Mutex
	encoder   *yaml.Encoder
	finalized bool
}

func NewSimulateSink(output io.Writer) *SimulateSink {
	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(2)
	return &SimulateSink{encoder: encoder}
}

type simulatedAttachment struct {
	MimeType  string `yaml:"mime_type"`
	Size      int    `yaml:"size,omitempty"`
	Reference string `yaml:"reference,omitempty"`
}

type simulatedNote struct {
	Source      string                `yaml:"source"`
	Fingerprint string                `yaml:"fingerprint"`
	CreatedAt   time.Time             `yaml:"created_at"`
	Title       *string               `yaml:"title"`
	Labels      []string              `yaml:"labels"`
	Body        string                `yaml:"body"`
	Attachments []simulatedAttachment `yaml:"attachments,omitempty"`
}

func (s *SimulateSink) Name() string {
	return string(KindSimulate)
}

func (s *SimulateSink) Export(ctx context.Context, note *entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}

	view := simulatedNote{
		Source:      note.SourcePath,
		Fingerprint: fingerprint.Note(note),
		CreatedAt:   note.CreatedAt,
		Title:       note.Title,
		Labels:      note.Labels,
		Body:        note.Body,
	}
	for _, attachment := range note.Attachments {
		view.Attachments = append(view.Attachments, simulatedAttachment{
			MimeType:  attachment.EffectiveMimeType(),
			Size:      attachment.Size(),
			Reference: attachment.Reference,
		})
	}

	if err := s.encoder.Encode(view); err != nil {
		return fmt.Errorf("failed to encode note %s: %w", note.SourcePath, err)
	}
	return nil
}

func (s *SimulateSink) Finalize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}
	s.finalized = true
	return s.encoder.Close()
}
