package exporters

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCintaNote(t *testing.T) {
	t.Run("renders the note element", func(t *testing.T) {
		assert.Equal(t,
			"<note created=\"20200304T100000\" tags=\"work\"><![CDATA[Hello\nWorld]]></note>",
			RenderCintaNote(sampleNote()))
	})

	t.Run("splits CDATA terminators in the body", func(t *testing.T) {
		note := sampleNote()
		note.Body = "a]]>b"

		rendered := RenderCintaNote(note)
		assert.Contains(t, rendered, "<![CDATA[a]]]]><![CDATA[>b]]>")
	})

	t.Run("escapes tag attribute", func(t *testing.T) {
		note := sampleNote()
		note.Labels = []string{`R&D`, `"quoted"`}

		rendered := RenderCintaNote(note)
		assert.Contains(t, rendered, `tags="R&amp;D &#34;quoted&#34;"`)
	})
}

func TestCintaNotesTags(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected []string
	}{
		{"plain", []string{"work", "home"}, []string{"work", "home"}},
		{"whitespace becomes underscore", []string{"to do", "a\tb"}, []string{"to_do", "a_b"}},
		{"commas are dropped", []string{"a,b", ","}, []string{"ab"}},
		{"outer whitespace trimmed", []string{"  work  "}, []string{"work"}},
		{"empty labels skipped", []string{"", "  "}, []string{}},
		{"nil labels", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CintaNotesTags(tt.labels))
		})
	}
}

func TestCintaNotesSink(t *testing.T) {
	t.Run("writes notebook on finalize", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "notes.xml")
		sink := NewCintaNotesSink(target)

		require.NoError(t, sink.Export(context.Background(), sampleNote()))
		assert.NoFileExists(t, target)
		assert.Equal(t, 1, sink.Count())

		require.NoError(t, sink.Finalize(context.Background()))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		content := string(data)
		assert.True(t, strings.HasPrefix(content, "<?xml version=\"1.0\"?>\n<notebook version=\"4104\">\n"))
		assert.Contains(t, content, "<note created=\"20200304T100000\" tags=\"work\"><![CDATA[Hello\nWorld]]></note>")
		assert.True(t, strings.HasSuffix(content, "</notebook>\n"))
	})

	t.Run("output is well-formed and tags round-trip", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "notes.xml")
		sink := NewCintaNotesSink(target)

		note := sampleNote()
		note.Labels = []string{"to do", "a,b", "", "work"}
		note.Body = "x < y && ]]> \x01done"
		require.NoError(t, sink.Export(context.Background(), note))
		require.NoError(t, sink.Finalize(context.Background()))

		data, err := os.ReadFile(target)
		require.NoError(t, err)

		var notebook struct {
			Version string `xml:"version,attr"`
			Notes   []struct {
				Created string `xml:"created,attr"`
				Tags    string `xml:"tags,attr"`
				Body    string `xml:",chardata"`
			} `xml:"note"`
		}
		require.NoError(t, xml.Unmarshal(data, &notebook))
		require.Len(t, notebook.Notes, 1)
		assert.Equal(t, "4104", notebook.Version)
		assert.Equal(t, "20200304T100000", notebook.Notes[0].Created)
		assert.Equal(t, []string{"to_do", "ab", "work"}, strings.Fields(notebook.Notes[0].Tags))
		assert.Equal(t, "x < y && ]]> done", notebook.Notes[0].Body)
	})

	t.Run("empty run writes an empty notebook", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "notes.xml")
		sink := NewCintaNotesSink(target)

		require.NoError(t, sink.Finalize(context.Background()))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "<?xml version=\"1.0\"?>\n<notebook version=\"4104\">\n</notebook>\n", string(data))
	})

	t.Run("rejects use after finalize", func(t *testing.T) {
		sink := NewCintaNotesSink(filepath.Join(t.TempDir(), "notes.xml"))
		require.NoError(t, sink.Finalize(context.Background()))

		assert.ErrorIs(t, sink.Export(context.Background(), sampleNote()), ErrSinkFinalized)
		assert.ErrorIs(t, sink.Finalize(context.Background()), ErrSinkFinalized)
	})
}
