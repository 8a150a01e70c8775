// Package client calls the inspection records REST API.
//
// Every call is made once. A transport error or non-success status returns an
// error wrapping ErrRequestFailed; a 404 additionally wraps ErrNotFound.
// Nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/search"
)

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 4 << 10

// Client is a RecordStore backed by the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ search.RecordSearcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a client from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ListRecords fetches one page of records.
func (c *Client) ListRecords(ctx context.Context, page, perPage int, text string) (*core.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("search", text)

	var result core.Page
	if err := c.do(ctx, http.MethodGet, "/records", query, nil, &result); err != nil {
		return nil, err
	}
	if result.Records == nil {
		result.Records = []*core.Record{}
	}
	return &result, nil
}

// GetRecord fetches one record.
func (c *Client) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	var record core.Record
	if err := c.do(ctx, http.MethodGet, recordPath(id), nil, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateRecord posts a creation body and returns the stored record.
func (c *Client) CreateRecord(ctx context.Context, req *core.NewRecordRequest) (*core.Record, error) {
	var record core.Record
	if err := c.do(ctx, http.MethodPost, "/records", nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateRecord applies a partial update and returns the stored record.
func (c *Client) UpdateRecord(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error) {
	var record core.Record
	if err := c.do(ctx, http.MethodPut, recordPath(id), nil, patch, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRecord deletes one record. Deleting an absent id returns ErrNotFound.
func (c *Client) DeleteRecord(ctx context.Context, id core.ID) error {
	return c.do(ctx, http.MethodDelete, recordPath(id), nil, nil, nil)
}

// SearchRecords runs a server-side search. Params are keyed by wire names;
// blank values are not sent.
func (c *Client) SearchRecords(ctx context.Context, params map[string]string) ([]*core.Record, error) {
	query := url.Values{}
	for key, value := range params {
		if value != "" {
			query.Set(key, value)
		}
	}

	var result struct {
		Records []*core.Record `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, "/records/search", query, nil, &result); err != nil {
		return nil, err
	}
	if result.Records == nil {
		result.Records = []*core.Record{}
	}
	return result.Records, nil
}

// UploadAttachment stores attachment metadata.
func (c *Client) UploadAttachment(ctx context.Context, attachment *core.Attachment) (*core.Attachment, error) {
	var result core.Attachment
	if err := c.do(ctx, http.MethodPost, "/attachments", nil, attachment, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Notifications lists a user's notifications.
func (c *Client) Notifications(ctx context.Context, userID string) ([]*core.Notification, error) {
	query := url.Values{}
	query.Set("user_id", userID)

	var result struct {
		Notifications []*core.Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Notifications, nil
}

// CreateNotification stores a notification.
func (c *Client) CreateNotification(ctx context.Context, notification *core.Notification) (*core.Notification, error) {
	var result core.Notification
	if err := c.do(ctx, http.MethodPost, "/notifications", nil, notification, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func recordPath(id core.ID) string {
	return "/records/" + url.PathEscape(id.String())
}

// do sends one request and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding %s %s: %w", ErrRequestFailed, method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: building %s %s: %w", ErrRequestFailed, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("unexpected status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(detail))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w: %s %s", ErrRequestFailed, ErrNotFound, method, path)
		}
		return fmt.Errorf("%w: %s %s: status %d", ErrRequestFailed, method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %w", ErrRequestFailed, method, path, err)
	}
	return nil
}
