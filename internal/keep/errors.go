package keep

import "errors"

// ErrMalformedDocument indicates the HTML file lacks a structural element
// every exported Keep note has (title or heading). Callers scanning a
// directory skip such files.
var ErrMalformedDocument = errors.New("malformed Keep document")

// ErrInvalidAttachmentEncoding indicates a data URI attachment whose payload
// is not valid base64.
var ErrInvalidAttachmentEncoding = errors.New("invalid attachment encoding")
