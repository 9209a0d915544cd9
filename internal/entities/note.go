package entities

import "time"

// DefaultAttachmentMimeType is used when a data URI carries no mime type.
const DefaultAttachmentMimeType = "image/png"

// Note is a single Google Keep note extracted from a Takeout HTML file.
type Note struct {
	CreatedAt   time.Time    `yaml:"created_at"`
	Title       *string      `yaml:"title"` // nil when the note has no distinct title
	Body        string       `yaml:"body"`
	Labels      []string     `yaml:"labels"`
	Attachments []Attachment `yaml:"attachments,omitempty"`

	// Not part of the note content: where it came from.
	Heading    string `yaml:"-"`
	SourcePath string `yaml:"source"`
}

// TitleOr returns the title, or fallback when the note has none.
func (n *Note) TitleOr(fallback string) string {
	if n.Title == nil {
		return fallback
	}
	return *n.Title
}

// ExternalAttachments returns the attachments that reference files outside
// the HTML document instead of embedding them.
func (n *Note) ExternalAttachments() []Attachment {
	var external []Attachment
	for _, a := range n.Attachments {
		if a.IsExternal() {
			external = append(external, a)
		}
	}
	return external
}

// Attachment is an image attached to a note. It is either embedded as a
// base64 data URI (Data set) or an external reference (Reference set).
type Attachment struct {
	MimeType  string `yaml:"mime_type,omitempty"`
	Data      []byte `yaml:"-"`
	Reference string `yaml:"reference,omitempty"`
}

// IsExternal reports whether the attachment only references its content.
func (a Attachment) IsExternal() bool {
	return a.Data == nil
}

// EffectiveMimeType returns the mime type, defaulting to image/png.
func (a Attachment) EffectiveMimeType() string {
	if a.MimeType == "" {
		return DefaultAttachmentMimeType
	}
	return a.MimeType
}

// Size returns the number of decoded bytes.
func (a Attachment) Size() int {
	return len(a.Data)
}
