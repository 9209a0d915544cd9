package notesapi

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the provided API token is invalid
var ErrInvalidToken = errors.New("invalid or expired notes API token")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("notes API rate limit exceeded")

// ErrUnreadableResponse indicates a successful status with a body that could
// not be decoded
var ErrUnreadableResponse = errors.New("notes API response could not be decoded")

// ServerError represents a 5xx error from the notes API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("notes API server error: HTTP %d", e.StatusCode)
}
