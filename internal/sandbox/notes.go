package sandbox

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/keep-export/internal/database/notes"
	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/notesapi"
)

const maxTitleLength = 512

type NotesController struct {
	repo *notes.Repository
}

func NewNotesController(repo *notes.Repository) *NotesController {
	return &NotesController{repo: repo}
}

// Auth answers token checks; BearerAuth has already validated the token.
func (nc *NotesController) Auth(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (nc *NotesController) Create(c *gin.Context) {
	var request notesapi.NoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note: " + err.Error()})
		return
	}

	if err := validateNote(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := &entities.SandboxNote{
		Title:   request.Title,
		Content: request.Content,
		Tags:    notes.JoinTags(request.TagNames),
		Created: request.Created,
	}
	for _, resource := range request.Resources {
		note.Resources = append(note.Resources, entities.SandboxResource{
			MimeType: resource.MimeType,
			BodyHash: resource.BodyHash,
			Size:     resource.Size,
			Data:     resource.Data,
		})
	}

	if err := nc.repo.CreateNote(note); err != nil {
		log.Printf("Failed to store sandbox note %q: %v", request.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store note"})
		return
	}

	log.Printf("Stored sandbox note %q (%s) with %d resources", note.Title, note.GUID, len(note.Resources))
	c.JSON(http.StatusCreated, toAPINote(*note, false))
}

func (nc *NotesController) List(c *gin.Context) {
	stored, err := nc.repo.GetNotes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notes"})
		return
	}

	page := notesapi.NotesPage{
		Count: len(stored),
		Notes: make([]notesapi.Note, 0, len(stored)),
	}
	for _, note := range stored {
		page.Notes = append(page.Notes, toAPINote(note, true))
	}

	c.JSON(http.StatusOK, page)
}

func validateNote(request notesapi.NoteRequest) error {
	if request.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(request.Title) > maxTitleLength {
		return fmt.Errorf("title longer than %d bytes", maxTitleLength)
	}

	for i, resource := range request.Resources {
		sum := md5.Sum(resource.Data)
		if resource.BodyHash != hex.EncodeToString(sum[:]) {
			return fmt.Errorf("resource %d: body hash does not match data", i+1)
		}
		if resource.Size != len(resource.Data) {
			return fmt.Errorf("resource %d: size %d does not match data length %d", i+1, resource.Size, len(resource.Data))
		}
	}
	return nil
}

func toAPINote(note entities.SandboxNote, withContent bool) notesapi.Note {
	result := notesapi.Note{
		GUID:          note.GUID,
		Title:         note.Title,
		Created:       note.Created,
		TagNames:      notes.SplitTags(note.Tags),
		ResourceCount: len(note.Resources),
	}
	if withContent {
		result.Content = note.Content
	}
	return result
}
