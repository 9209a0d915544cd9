package exporters

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/keep-export/internal/entities"
	"github.com/mrlokans/keep-export/internal/fingerprint"
	"github.com/mrlokans/keep-export/internal/notesapi"
)

const (
	DefaultRemoteTitle = "Untitled"

	enmlHeader = `<?xml version="1.0" encoding="utf-8"?>` +
		`<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">` +
		`<en-note>`
	enmlFooter = `</en-note>`
)

// NoteCreator is the part of the notes API the remote sink needs.
type NoteCreator interface {
	CreateNote(ctx context.Context, note notesapi.NoteRequest) (*notesapi.Note, error)
}

// TransactionLog records which notes were already created per destination.
type TransactionLog interface {
	Contains(destination, fingerprint string) bool
	Append(destination, fingerprint string) error
}

// RemoteSink creates one remote note per exported note, skipping notes the
// transaction log already records for the destination.
type RemoteSink struct {
	creator     NoteCreator
	txLog       TransactionLog
	destination string
	logger      *log.Logger
}

func NewRemoteSink(creator NoteCreator, txLog TransactionLog, destination string, logger *log.Logger) *RemoteSink {
	if logger == nil {
		logger = log.Default()
	}
	return &RemoteSink{
		creator:     creator,
		txLog:       txLog,
		destination: destination,
		logger:      logger,
	}
}

func (s *RemoteSink) Name() string {
	return string(KindRemote)
}

func (s *RemoteSink) Export(ctx context.Context, note *entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fp := fingerprint.Note(note)
	if s.txLog.Contains(s.destination, fp) {
		s.logger.Printf("Skipping %s: note has already been created (remove its entry from the transaction log to force creation)", note.SourcePath)
		return ErrAlreadyExported
	}

	request := s.buildRequest(note)
	created, err := s.creator.CreateNote(ctx, request)
	unreadable := errors.Is(err, notesapi.ErrUnreadableResponse)
	if err != nil && !unreadable {
		return fmt.Errorf("%w: %s: %w", ErrRemoteSubmission, note.SourcePath, err)
	}

	// Appending can only happen after a confirmed creation. A failure here
	// means the next run would create a duplicate, so it aborts the run.
	if err := s.txLog.Append(s.destination, fp); err != nil {
		return fmt.Errorf("note %s created but not recorded: %w", note.SourcePath, err)
	}

	switch {
	case unreadable:
		s.logger.Printf("Created note %q but could not read the response: %v", request.Title, err)
	case created != nil:
		s.logger.Printf("Created note %q (%s)", request.Title, created.GUID)
	}
	return nil
}

func (s *RemoteSink) Finalize(ctx context.Context) error {
	return nil
}

func (s *RemoteSink) buildRequest(note *entities.Note) notesapi.NoteRequest {
	resources := make([]notesapi.Resource, 0, len(note.Attachments))
	for i, attachment := range note.Attachments {
		if attachment.IsExternal() {
			s.logger.Printf("Skipping attachment %d of %s: external reference %q cannot be uploaded", i+1, note.SourcePath, attachment.Reference)
			continue
		}
		resources = append(resources, NewResource(attachment))
	}

	labels := note.Labels
	if labels == nil {
		labels = []string{}
	}

	return notesapi.NoteRequest{
		Title:     note.TitleOr(DefaultRemoteTitle),
		Content:   RenderENML(note.Body, resources),
		Created:   note.CreatedAt,
		TagNames:  labels,
		Resources: resources,
	}
}

// NewResource converts an embedded attachment into an upload resource.
func NewResource(attachment entities.Attachment) notesapi.Resource {
	sum := md5.Sum(attachment.Data)
	return notesapi.Resource{
		MimeType: attachment.EffectiveMimeType(),
		BodyHash: hex.EncodeToString(sum[:]),
		Size:     attachment.Size(),
		Data:     attachment.Data,
	}
}

var (
	enmlEscaper     = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	enmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// RenderENML renders the note content document: the escaped body with line
// breaks, followed by one media reference per resource.
func RenderENML(body string, resources []notesapi.Resource) string {
	var b strings.Builder
	b.WriteString(enmlHeader)
	b.WriteString(strings.ReplaceAll(enmlEscaper.Replace(body), "\n", "<br/>"))
	for _, resource := range resources {
		fmt.Fprintf(&b, `<en-media type="%s" hash="%s"/>`, enmlAttrEscaper.Replace(resource.MimeType), resource.BodyHash)
	}
	b.WriteString(enmlFooter)
	return b.String()
}
