// Package client talks to a running mbudget server over its JSON API.
package client

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

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/server"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "github.com/theirongolddev/mbudget/1.0"
)

var (
	// ErrNotFound indicates the server does not know the named category or subcategory.
	ErrNotFound = errors.New("mbudget: not found")
	// ErrRejected indicates the server refused the action for the current session state.
	ErrRejected = errors.New("mbudget: action rejected")
	// ErrBadRequest indicates the request body was malformed.
	ErrBadRequest = errors.New("mbudget: bad request")
)

// APIError carries the message the server returned with a failing status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mbudget: unexpected status %d", e.StatusCode)
	}
	return "mbudget: " + e.Message
}

// Unwrap maps the status code onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		return ErrRejected
	case http.StatusBadRequest:
		return ErrBadRequest
	}
	return nil
}

// Category is one row of a session snapshot.
type Category struct {
	Name           string      `json:"name"`
	Budget         json.Number `json:"budget"`
	Remaining      json.Number `json:"remaining"`
	Spent          json.Number `json:"spent"`
	DaysLogged     int         `json:"days_logged"`
	DaysLeft       int         `json:"days_left"`
	DailyAllowance json.Number `json:"daily_allowance"`
	UsedPercent    float64     `json:"used_percent"`
	Subcategories  []struct {
		Name  string      `json:"name"`
		Spent json.Number `json:"spent"`
	} `json:"subcategories"`
}

// Snapshot is the session as the server reports it after every action.
type Snapshot struct {
	server.Totals
	Categories []Category `json:"categories"`
}

// Client issues requests against one server address.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for addr, which may be a bare host:port or a URL.
// Returns nil if addr is empty.
func New(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if addr == "" {
		return nil
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{baseURL: addr, http: &http.Client{}}
}

// Status returns the server's counters and session totals.
func (c *Client) Status(ctx context.Context) (server.Status, error) {
	var st server.Status
	body, err := c.do(ctx, http.MethodGet, "/v1/status", nil)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("mbudget: parsing status: %w", err)
	}
	return st, nil
}

// Session returns the current session snapshot.
func (c *Client) Session(ctx context.Context) (Snapshot, error) {
	return c.snapshot(ctx, http.MethodGet, "/v1/session", nil)
}

// AddCategory registers a category during setup.
func (c *Client) AddCategory(ctx context.Context, name string, budget decimal.Decimal, subs []string) (Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/v1/categories", map[string]any{
		"name":          name,
		"budget":        budget,
		"subcategories": subs,
	})
}

// StartMonth closes setup and begins tracking a month of days.
func (c *Client) StartMonth(ctx context.Context, days int) (Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/v1/start", map[string]any{"days": days})
}

// LogSpend records the next day's amount for a category and subcategory.
func (c *Client) LogSpend(ctx context.Context, category, subcategory string, amount decimal.Decimal) (Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/v1/spend", map[string]any{
		"category":    category,
		"subcategory": subcategory,
		"amount":      amount,
	})
}

// Reset discards the session and returns to setup.
func (c *Client) Reset(ctx context.Context) (Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/v1/reset", nil)
}

// Export downloads the summary report in the given format ("csv" or "json").
func (c *Client) Export(ctx context.Context, format string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/v1/export/"+format, nil)
}

func (c *Client) snapshot(ctx context.Context, method, path string, payload any) (Snapshot, error) {
	var snap Snapshot
	body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return snap, fmt.Errorf("mbudget: parsing session: %w", err)
	}
	return snap, nil
}

// do sends one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("mbudget: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("mbudget: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mbudget: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("mbudget: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil {
			apiErr.Message = e.Error
		}
		return nil, apiErr
	}
	return body, nil
}
