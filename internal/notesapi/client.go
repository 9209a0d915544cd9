package notesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	AuthPath  = "/v1/auth"
	NotesPath = "/v1/notes"

	defaultTimeout = 60 * time.Second

	maxRetries         = 3
	initialRetryDelay  = 1 * time.Second
	maxRetryDelay      = 30 * time.Second
	retryBackoffFactor = 2
)

// Client talks to a note-taking service over its JSON HTTP API.
// Only token validation is retried. A failed creation must surface to the
// caller so the transaction log is not advanced.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retryBase  time.Duration
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retryBase: initialRetryDelay,
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// Resource is a binary attachment uploaded together with a note.
type Resource struct {
	MimeType string `json:"mime_type"`
	BodyHash string `json:"body_hash"` // hex MD5 of Data
	Size     int    `json:"size"`
	Data     []byte `json:"data"`
}

// NoteRequest is the payload of a note creation.
type NoteRequest struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Created   time.Time  `json:"created"`
	TagNames  []string   `json:"tag_names"`
	Resources []Resource `json:"resources"`
}

// Note is a note as returned by the service.
type Note struct {
	GUID          string    `json:"guid"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	Created       time.Time `json:"created"`
	TagNames      []string  `json:"tag_names"`
	ResourceCount int       `json:"resource_count"`
}

// NotesPage is the response of the note listing endpoint.
type NotesPage struct {
	Count int    `json:"count"`
	Notes []Note `json:"notes"`
}

// ValidateToken checks the token against the auth endpoint, retrying on
// rate limits and server errors.
func (c *Client) ValidateToken(ctx context.Context) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay(attempt)):
			}
		}

		lastErr = c.validateToken(ctx)
		if lastErr == nil {
			return nil
		}
		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) validateToken(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, AuthPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}
	return nil
}

// CreateNote submits a new note and returns the stored version.
// A 2xx response whose body cannot be decoded returns ErrUnreadableResponse:
// the note exists on the server even though its details are unknown.
func (c *Client) CreateNote(ctx context.Context, note NoteRequest) (*Note, error) {
	body, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, NotesPath, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp)
	}

	var created Note
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableResponse, err)
	}
	return &created, nil
}

// ListNotes returns every note stored for the token.
func (c *Client) ListNotes(ctx context.Context) (*NotesPage, error) {
	resp, err := c.do(ctx, http.MethodGet, NotesPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp)
	}

	var page NotesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, ErrInvalidToken
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		resp.Body.Close()
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	return resp, nil
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.retryBase
	for i := 0; i < attempt; i++ {
		delay *= time.Duration(retryBackoffFactor)
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}
