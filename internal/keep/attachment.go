package keep

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/keep-export/internal/entities"
)

// Matches: "data:image/png;base64,iVBORw0KGgo..."
var dataURIPattern = regexp.MustCompile(`(?s)^data:([^;,]*);base64,(.*)$`)

// DecodeAttachment turns an <img> src value into an Attachment.
//
// Data URIs are decoded; anything else is kept as an external reference
// with no bytes and no mime type. Resolving references (Takeout archives
// that ship images as sibling files) is left to the caller.
func DecodeAttachment(src string) (entities.Attachment, error) {
	matches := dataURIPattern.FindStringSubmatch(src)
	if matches == nil {
		return entities.Attachment{Reference: src}, nil
	}

	mimeType := strings.TrimSpace(matches[1])
	payload := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, matches[2])

	data, err := decodeBase64(payload)
	if err != nil {
		return entities.Attachment{}, fmt.Errorf("%w: %v", ErrInvalidAttachmentEncoding, err)
	}
	if data == nil {
		data = []byte{}
	}

	return entities.Attachment{
		MimeType: mimeType,
		Data:     data,
	}, nil
}

// decodeBase64 accepts both padded and unpadded standard base64.
func decodeBase64(payload string) ([]byte, error) {
	if strings.HasSuffix(payload, "=") || len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
