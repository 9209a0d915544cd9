package notes

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/keep-export/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateNote stores a note with its resources, assigning a fresh GUID.
func (r *Repository) CreateNote(note *entities.SandboxNote) error {
	if note.GUID == "" {
		note.GUID = uuid.New().String()
	}
	return r.db.Create(note).Error
}

// GetNotes returns every stored note with its resources, oldest first.
func (r *Repository) GetNotes() ([]entities.SandboxNote, error) {
	var notes []entities.SandboxNote
	err := r.db.Preload("Resources").Order("id ASC").Find(&notes).Error
	return notes, err
}

// GetNoteByGUID retrieves a single note with its resources.
func (r *Repository) GetNoteByGUID(guid string) (*entities.SandboxNote, error) {
	var note entities.SandboxNote
	if err := r.db.Preload("Resources").Where("guid = ?", guid).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// CountNotes returns the number of stored notes.
func (r *Repository) CountNotes() (int64, error) {
	var count int64
	err := r.db.Model(&entities.SandboxNote{}).Count(&count).Error
	return count, err
}

// JoinTags encodes tag names for SandboxNote.Tags.
func JoinTags(tags []string) string {
	return strings.Join(tags, "\n")
}

// SplitTags decodes SandboxNote.Tags.
func SplitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	return strings.Split(tags, "\n")
}
