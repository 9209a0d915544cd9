package exporters

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/utils"
)

const (
	CintaNotesVersion    = "4104"
	CintaNotesTimeLayout = "20060102T150405"
)

// CintaNotesSink buffers notes and writes a single CintaNotes notebook on
// Finalize. The file is replaced atomically; nothing is written before that.
type CintaNotesSink struct {
	OutputFile string

	mu        sync.Mutex
	notes     bytes.Buffer
	count     int
	finalized bool
}

func NewCintaNotesSink(outputFile string) *CintaNotesSink {
	return &CintaNotesSink{OutputFile: outputFile}
}

func (s *CintaNotesSink) Name() string {
	return string(KindCintaNotes)
}

func (s *CintaNotesSink) Export(ctx context.Context, note *entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}

	s.notes.WriteString(RenderCintaNote(note))
	s.notes.WriteByte('\n')
	s.count++
	return nil
}

func (s *CintaNotesSink) Finalize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}
	s.finalized = true

	var doc bytes.Buffer
	doc.WriteString("<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(&doc, "<notebook version=%q>\n", CintaNotesVersion)
	doc.Write(s.notes.Bytes())
	doc.WriteString("</notebook>\n")

	if err := utils.WriteFileAtomic(s.OutputFile, doc.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	return nil
}

// Count returns how many notes have been buffered.
func (s *CintaNotesSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// RenderCintaNote renders one <note> element:
//
//	<note created="20200304T100000" tags="work"><![CDATA[Hello
//	World]]></note>
func RenderCintaNote(note *entities.Note) string {
	var b strings.Builder
	b.WriteString(`<note created="`)
	b.WriteString(note.CreatedAt.Format(CintaNotesTimeLayout))
	b.WriteString(`" tags="`)
	xml.EscapeText(&b, []byte(strings.Join(CintaNotesTags(note.Labels), " ")))
	b.WriteString(`">`)
	b.WriteString(cdata(xmlSafe(note.Body)))
	b.WriteString(`</note>`)
	return b.String()
}

// CintaNotesTags turns labels into space separated CintaNotes tags.
// Whitespace inside a label becomes "_", commas are dropped and labels that
// end up empty are skipped.
func CintaNotesTags(labels []string) []string {
	tags := make([]string, 0, len(labels))
	for _, label := range labels {
		tag := strings.Map(func(r rune) rune {
			switch {
			case r == ',':
				return -1
			case unicode.IsSpace(r):
				return '_'
			}
			return r
		}, strings.TrimSpace(label))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// cdata wraps text in a CDATA section, splitting any "]]>" it contains.
func cdata(text string) string {
	return "<![CDATA[" + strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// xmlSafe drops runes that XML 1.0 does not allow even inside CDATA.
func xmlSafe(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, text)
}
