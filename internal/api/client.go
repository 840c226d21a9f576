package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/community-notify/internal/model"
)

// TokenSource supplies the bearer credential for the current session.
// Implementations live with the session collaborator (env var, keyring).
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource around a fixed string, used in tests and
// for tokens passed directly on the environment.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client is a thin HTTP client for the platform's notification API.
// It handles Bearer token authentication, JSON marshaling, and bounded
// request timeouts. Transient failures are not retried here; retry is
// the caller's schedule (next poll tick or next user action).
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a notification API client. The baseURL should be the
// root URL of the platform API (e.g., https://api.community.example.com).
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// List retrieves a page of notifications in server order.
func (c *Client) List(
	ctx context.Context,
	opts ListOptions,
) ([]model.Notification, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.UnreadOnly {
		q.Set("unread_only", "true")
	}

	path := "/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []model.Notification
	if err := c.do(ctx, http.MethodGet, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UnreadCount retrieves the server-computed number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", &resp); err != nil {
		return 0, err
	}
	if resp.UnreadCount < 0 {
		return 0, nil
	}
	return resp.UnreadCount, nil
}

// MarkRead marks a single notification read server-side.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	path := "/notifications/" + url.PathEscape(id) + "/read"
	return c.do(ctx, http.MethodPatch, path, nil)
}

// MarkAllRead marks every notification read server-side.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/notifications/read-all", nil)
}

// do builds the request, attaches auth and a request ID, and decodes the
// JSON response into result when result is non-nil.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	result interface{},
) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("loading session token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{
			Message: fmt.Sprintf("credential rejected by %s", c.baseURL),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	// No content to parse (e.g. 204 from the PATCH endpoints).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w",
			method, path, err,
		)
	}

	return nil
}
