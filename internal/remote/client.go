// Package remote talks to the flashcard collection over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Code, e.Message)
}

// Is lets callers match a 404 with errors.Is(err, domain.ErrNotFound).
func (e *StatusError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Code == http.StatusNotFound
}

// Client implements the deck's Remote against GET/POST /flashcards and
// PUT/DELETE /flashcards/{id}.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the server at baseURL. A zero timeout means none.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must use http or https", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "remote"),
	}, nil
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.do(ctx, http.MethodGet, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Create posts card without an id and returns the server's representation.
func (c *Client) Create(ctx context.Context, card domain.Card) (domain.Card, error) {
	card.ID = ""
	var created domain.Card
	if err := c.do(ctx, http.MethodPost, &card, &created); err != nil {
		return domain.Card{}, err
	}
	return created, nil
}

// Update replaces the card stored under card.ID.
func (c *Client) Update(ctx context.Context, card domain.Card) error {
	return c.do(ctx, http.MethodPut, &card, nil, card.ID)
}

// Delete removes the card stored under id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, nil, nil, id)
}

func (c *Client) do(ctx context.Context, method string, in, out any, path ...string) error {
	endpoint, err := url.JoinPath(c.baseURL, append([]string{"flashcards"}, path...)...)
	if err != nil {
		return fmt.Errorf("failed to build url: %w", err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request complete",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:  method,
			URL:     endpoint,
			Code:    resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	err = json.NewDecoder(resp.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		// Empty body; the caller keeps its zero value.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return string(bytes.TrimSpace(b))
}
