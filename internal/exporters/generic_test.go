package exporters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Run("accepts known kinds case-insensitively", func(t *testing.T) {
		kind, err := ParseKind(" CintaNotes ")
		require.NoError(t, err)
		assert.Equal(t, KindCintaNotes, kind)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := ParseKind("evernote")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "text, cintanotes, remote, simulate")
	})
}

func TestNew(t *testing.T) {
	t.Run("builds every kind", func(t *testing.T) {
		dir := t.TempDir()
		opts := Options{
			OutputDir:   dir,
			OutputFile:  dir + "/notes.xml",
			Creator:     &fakeCreator{},
			Log:         newMemoryLog(),
			Destination: "dest",
			Output:      &bytes.Buffer{},
		}

		for _, kind := range Kinds() {
			sink, err := New(kind, opts)
			require.NoError(t, err, kind)
			assert.Equal(t, string(kind), sink.Name())
		}
	})

	t.Run("reports missing settings", func(t *testing.T) {
		_, err := New(KindText, Options{})
		assert.Error(t, err)

		_, err = New(KindCintaNotes, Options{})
		assert.Error(t, err)

		_, err = New(KindRemote, Options{Creator: &fakeCreator{}})
		assert.Error(t, err)

		_, err = New(KindRemote, Options{Creator: &fakeCreator{}, Log: newMemoryLog()})
		assert.Error(t, err)
	})

	t.Run("propagates invalid encoding", func(t *testing.T) {
		_, err := New(KindText, Options{OutputDir: t.TempDir(), Encoding: "klingon-8"})
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := New(Kind("fax"), Options{})
		assert.Error(t, err)
	})
}

func TestIsSkip(t *testing.T) {
	assert.True(t, IsSkip(ErrAlreadyExported))
	assert.True(t, IsSkip(ErrEncodingMismatch))
	assert.False(t, IsSkip(ErrRemoteSubmission))
	assert.False(t, IsSkip(nil))
}
