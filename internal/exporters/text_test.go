package exporters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSink_Export(t *testing.T) {
	t.Run("writes body to file named after the source", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewTextSink(dir, "", nil)
		require.NoError(t, err)

		require.NoError(t, sink.Export(context.Background(), sampleNote()))
		require.NoError(t, sink.Finalize(context.Background()))

		data, err := os.ReadFile(filepath.Join(dir, "X.txt"))
		require.NoError(t, err)
		assert.Equal(t, "Hello\nWorld", string(data))
	})

	t.Run("creates missing output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out", "text")
		sink, err := NewTextSink(dir, "utf-8", nil)
		require.NoError(t, err)

		require.NoError(t, sink.Export(context.Background(), sampleNote()))
		assert.FileExists(t, filepath.Join(dir, "X.txt"))
	})

	t.Run("falls back to the creation time without a source path", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewTextSink(dir, "utf-8", nil)
		require.NoError(t, err)

		note := sampleNote()
		note.SourcePath = ""
		require.NoError(t, sink.Export(context.Background(), note))
		assert.FileExists(t, filepath.Join(dir, "2020-03-04T10_00_00.txt"))
	})

	t.Run("encodes into the requested charset", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewTextSink(dir, "windows-1251", nil)
		require.NoError(t, err)

		note := sampleNote()
		note.Body = "Привет"
		require.NoError(t, sink.Export(context.Background(), note))

		data, err := os.ReadFile(filepath.Join(dir, "X.txt"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}, data)
	})

	t.Run("skips notes the encoding cannot represent", func(t *testing.T) {
		dir := t.TempDir()
		logger, logs := bufferLogger()
		sink, err := NewTextSink(dir, "ISO-8859-1", logger)
		require.NoError(t, err)

		note := sampleNote()
		note.Body = "Привет"
		err = sink.Export(context.Background(), note)

		assert.ErrorIs(t, err, ErrEncodingMismatch)
		assert.True(t, IsSkip(err))
		assert.NoFileExists(t, filepath.Join(dir, "X.txt"))
		assert.Contains(t, logs.String(), "Skipping Takeout/Keep/X.html")

		// the sink keeps working for later notes
		require.NoError(t, sink.Export(context.Background(), sampleNote()))
		assert.FileExists(t, filepath.Join(dir, "X.txt"))
	})

	t.Run("never overwrites a file written in the same run", func(t *testing.T) {
		dir := t.TempDir()
		logger, logs := bufferLogger()
		sink, err := NewTextSink(dir, "", logger)
		require.NoError(t, err)

		first := sampleNote()
		first.SourcePath = "Takeout/Keep/a.html"
		second := sampleNote()
		second.SourcePath = "Takeout/Keep/a.HTML"
		second.Body = "second"

		require.NoError(t, sink.Export(context.Background(), first))
		require.NoError(t, sink.Export(context.Background(), second))

		data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "Hello\nWorld", string(data))

		data, err = os.ReadFile(filepath.Join(dir, "a (2).txt"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
		assert.Contains(t, logs.String(), "would overwrite a.txt")
	})

	t.Run("keeps characters of the source name", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewTextSink(dir, "", nil)
		require.NoError(t, err)

		note := sampleNote()
		note.SourcePath = "Takeout/Keep/Shopping, list #1.html"
		require.NoError(t, sink.Export(context.Background(), note))
		assert.FileExists(t, filepath.Join(dir, "Shopping, list #1.txt"))
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		sink, err := NewTextSink(t.TempDir(), "", nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sink.Export(ctx, sampleNote()), context.Canceled)
	})
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF8", "iso-8859-1", "windows-1251", "KOI8-R"} {
		enc, err := LookupEncoding(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, enc, name)
	}

	_, err := LookupEncoding("klingon-8")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}
