// Package fingerprint computes stable content hashes of notes.
//
// Fingerprints are persisted in the transaction log and compared across
// runs, so the encoding below must never change.
//
// Every position contributes the hex SHA-384 of its value. An absent value
// (no title, no attachment mime type) hashes exactly like the empty string.
// Lists contribute one entry per element, so a note with one empty label
// differs from a note with no labels.
package fingerprint

import (
	"crypto/sha512"
	"encoding/hex"
	"hash"

	"github.com/mrlokans/keep-export/internal/entities"
)

// TimeLayout is the canonical rendering of the creation time.
const TimeLayout = "2006-01-02 15:04:05"

// Note returns the fingerprint of a note over its creation time, title,
// body, labels and attachments, in that order.
func Note(note *entities.Note) string {
	h := sha512.New384()

	writeValue(h, []byte(note.CreatedAt.Format(TimeLayout)))
	writeValue(h, []byte(note.TitleOr("")))
	writeValue(h, []byte(note.Body))
	for _, label := range note.Labels {
		writeValue(h, []byte(label))
	}
	for _, attachment := range note.Attachments {
		h.Write([]byte(Attachment(attachment)))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Attachment returns the hash of an attachment over its mime type and data.
// External references hash their reference string in place of the data.
func Attachment(attachment entities.Attachment) string {
	h := sha512.New384()

	writeValue(h, []byte(attachment.MimeType))
	if attachment.IsExternal() {
		writeValue(h, []byte(attachment.Reference))
	} else {
		writeValue(h, attachment.Data)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Destination returns the identity hash of a remote destination credential.
func Destination(token string) string {
	return Digest([]byte(token))
}

// Digest is the hex SHA-384 of data.
func Digest(data []byte) string {
	sum := sha512.Sum384(data)
	return hex.EncodeToString(sum[:])
}

func writeValue(h hash.Hash, value []byte) {
	h.Write([]byte(Digest(value)))
}
