package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/keep-export/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.SandboxNote{}, &entities.SandboxResource{})
	require.NoError(t, err)

	return db
}

func TestRepository_CreateNote(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	note := &entities.SandboxNote{
		Title:   "X",
		Content: "<en-note>Hello</en-note>",
		Tags:    JoinTags([]string{"work", "home"}),
		Created: time.Date(2020, 3, 4, 10, 0, 0, 0, time.UTC),
		Resources: []entities.SandboxResource{
			{MimeType: "image/png", BodyHash: "902fbdd2b1df0c4f70b4a5d23525e932", Size: 3, Data: []byte("ABC")},
		},
	}

	require.NoError(t, repo.CreateNote(note))
	assert.NotZero(t, note.ID)
	assert.Len(t, note.GUID, 36)

	stored, err := repo.GetNoteByGUID(note.GUID)
	require.NoError(t, err)
	assert.Equal(t, "X", stored.Title)
	assert.Equal(t, []string{"work", "home"}, SplitTags(stored.Tags))
	require.Len(t, stored.Resources, 1)
	assert.Equal(t, []byte("ABC"), stored.Resources[0].Data)
}

func TestRepository_GetNotes(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.CreateNote(&entities.SandboxNote{Title: "first"}))
	require.NoError(t, repo.CreateNote(&entities.SandboxNote{Title: "second"}))

	notes, err := repo.GetNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)

	count, err := repo.CountNotes()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_GetNoteByGUID_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.GetNoteByGUID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, "a\nb c", JoinTags([]string{"a", "b c"}))
	assert.Equal(t, []string{"a", "b c"}, SplitTags("a\nb c"))
}
