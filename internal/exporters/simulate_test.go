package exporters

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/fingerprint"
)

func TestSimulateSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewSimulateSink(&out)

	withAttachment := sampleNote()
	withAttachment.Title = nil
	withAttachment.Attachments = []entities.Attachment{{Data: []byte("ABC")}, {Reference: "x.png"}}

	require.NoError(t, sink.Export(context.Background(), sampleNote()))
	require.NoError(t, sink.Export(context.Background(), withAttachment))
	require.NoError(t, sink.Finalize(context.Background()))

	decoder := yaml.NewDecoder(&out)

	var first simulatedNote
	require.NoError(t, decoder.Decode(&first))
	assert.Equal(t, "Takeout/Keep/X.html", first.Source)
	assert.Equal(t, fingerprint.Note(sampleNote()), first.Fingerprint)
	require.NotNil(t, first.Title)
	assert.Equal(t, "X", *first.Title)
	assert.Equal(t, "Hello\nWorld", first.Body)
	assert.Equal(t, []string{"work"}, first.Labels)
	assert.True(t, first.CreatedAt.Equal(sampleNote().CreatedAt))

	var second simulatedNote
	require.NoError(t, decoder.Decode(&second))
	assert.Nil(t, second.Title)
	require.Len(t, second.Attachments, 2)
	assert.Equal(t, simulatedAttachment{MimeType: "image/png", Size: 3}, second.Attachments[0])
	assert.Equal(t, "x.png", second.Attachments[1].Reference)

	assert.ErrorIs(t, sink.Export(context.Background(), sampleNote()), ErrSinkFinalized)
}
