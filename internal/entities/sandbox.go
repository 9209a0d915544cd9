package entities

import "time"

// SandboxNote is a note stored by the local sandbox note service.
type SandboxNote struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	GUID      string            `gorm:"uniqueIndex;size:36" json:"guid"`
	Title     string            `gorm:"size:512" json:"title"`
	Content   string            `gorm:"type:text" json:"content"`
	Tags      string            `gorm:"type:text" json:"tags"` // newline separated
	Created   time.Time         `json:"created"`
	Resources []SandboxResource `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"resources"`
	CreatedAt time.Time         `json:"created_at"`
}

func (SandboxNote) TableName() string {
	return "sandbox_notes"
}

// SandboxResource is a binary attachment of a SandboxNote.
type SandboxResource struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	NoteID   uint   `gorm:"index" json:"note_id"`
	MimeType string `gorm:"size:100" json:"mime_type"`
	BodyHash string `gorm:"index;size:32" json:"body_hash"`
	Size     int    `json:"size"`
	Data     []byte `json:"-"`
}

func (SandboxResource) TableName() string {
	return "sandbox_resources"
}
