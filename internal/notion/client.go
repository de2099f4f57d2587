package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL  = "https://api.notion.com"
	defaultVersion  = "2022-06-28"
	defaultPageSize = 100

	maxAttempts = 3
)

// ChildFetcher retrieves the ordered immediate children of a block. A page
// is itself a block, so the fetcher also serves top-level page lookups.
type ChildFetcher interface {
	BlockChildren(ctx context.Context, blockID string) ([]Block, error)
}

// Client communicates with the Notion HTTP API.
type Client struct {
	baseURL    string
	token      string
	version    string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithVersion overrides the Notion-Version header.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// WithPageSize sets the pagination window for child listings.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		token:    token,
		version:  defaultVersion,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type childList struct {
	Results    []Block `json:"results"`
	NextCursor string  `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// BlockChildren lists all immediate children of a block, following the
// cursor until the API reports no more pages. Order is API order.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		u := fmt.Sprintf("%s/v1/blocks/%s/children?page_size=%d", c.baseURL, url.PathEscape(blockID), c.pageSize)
		if cursor != "" {
			u += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var page childList
		if err := c.getJSON(ctx, u, &page); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", blockID, err)
		}
		blocks = append(blocks, page.Results...)
		if !page.HasMore || page.NextCursor == "" {
			return blocks, nil
		}
		cursor = page.NextCursor
	}
}

// Page retrieves page metadata (title, url, timestamps).
func (c *Client) Page(ctx context.Context, pageID string) (*Page, error) {
	u := c.baseURL + "/v1/pages/" + url.PathEscape(pageID)
	var page Page
	if err := c.getJSON(ctx, u, &page); err != nil {
		return nil, fmt.Errorf("get page %s: %w", pageID, err)
	}
	return &page, nil
}

// getJSON performs an authenticated GET, retrying rate limits and server
// errors with backoff before giving up.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	var lastErr error
	retryAfter := time.Duration(0)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := backoff(attempt - 1)
			if retryAfter > 0 {
				wait = retryAfter
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.version)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		done, err := func() (bool, error) {
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
					return true, fmt.Errorf("decode response: %w", err)
				}
				return true, nil
			}
			apiErr := &APIError{Status: resp.StatusCode}
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = json.Unmarshal(body, apiErr)
			if !apiErr.Temporary() {
				return true, apiErr
			}
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			return false, apiErr
		}()
		if done {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Temporary reports whether the request is worth retrying.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(header, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return 0
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
