package exporters

import "errors"

// ErrInvalidEncoding indicates the requested output encoding is unknown.
// It aborts the whole run.
var ErrInvalidEncoding = errors.New("invalid output encoding")

// ErrEncodingMismatch indicates a note body cannot be represented in the
// output encoding. Only that note is skipped.
var ErrEncodingMismatch = errors.New("note cannot be represented in output encoding")

// ErrAlreadyExported indicates the transaction log already records the note
// for this destination; nothing was sent.
var ErrAlreadyExported = errors.New("note already exported")

// ErrRemoteSubmission wraps a failed note creation. The transaction log is
// not advanced for that note.
var ErrRemoteSubmission = errors.New("remote note submission failed")

// ErrSinkFinalized is returned when a finalized sink is used again.
var ErrSinkFinalized = errors.New("exporter already finalized")

// IsSkip reports whether err only means the note was skipped.
func IsSkip(err error) bool {
	return errors.Is(err, ErrAlreadyExported) || errors.Is(err, ErrEncodingMismatch)
}
