// Package client talks to the insurance forms API: it lists form schemas,
// posts completed submissions, and reads back the submission log.
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

	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/schema"
)

const (
	FormsPath       = "/api/insurance/forms"
	SubmitPath      = "/api/insurance/forms/submit"
	SubmissionsPath = "/api/insurance/forms/submissions"

	// TypeColumn is the submission column the dashboard summary groups by.
	TypeColumn = "Insurance Type"

	maxBodyBytes = 8 << 20
)

// ErrStatus reports a non-2xx response.
var ErrStatus = errors.New("client: unexpected status")

// Record is one row of the submission log. Columns are server defined.
type Record map[string]any

// Client is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	requestID func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout caps each call.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(cl *Client) {
		if fn != nil {
			cl.requestID = fn
		}
	}
}

// New returns a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:      http.DefaultClient,
		timeout:   15 * time.Second,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseURL reports the configured root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Catalogue fetches every published form schema.
func (c *Client) Catalogue(ctx context.Context) (schema.Catalogue, error) {
	body, err := c.do(ctx, http.MethodGet, FormsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("client: fetch forms: %w", err)
	}
	catalogue, err := schema.DecodeCatalogue(body)
	if err != nil {
		return nil, fmt.Errorf("client: fetch forms: %w", err)
	}
	return catalogue, nil
}

// Submit posts the submission. Any non-2xx status is an error.
func (c *Client) Submit(ctx context.Context, sub model.Submission) error {
	if sub.Values == nil {
		sub.Values = model.Values{}
	}
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("client: encode submission: %w", err)
	}
	if _, err := c.do(ctx, http.MethodPost, SubmitPath, payload); err != nil {
		return fmt.Errorf("client: submit: %w", err)
	}
	return nil
}

// Submissions lists submitted applications. A response without a data list
// yields an empty slice.
func (c *Client) Submissions(ctx context.Context) ([]Record, error) {
	body, err := c.do(ctx, http.MethodGet, SubmissionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("client: fetch submissions: %w", err)
	}
	var envelope struct {
		Data []Record `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("client: decode submissions: %w", err)
	}
	if envelope.Data == nil {
		return []Record{}, nil
	}
	return envelope.Data, nil
}

// CountByType tallies records by their TypeColumn. Records with an empty or
// missing type are not counted.
func CountByType(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		value, ok := record[TypeColumn]
		if !ok || value == nil || value == "" || value == false {
			continue
		}
		counts[model.Stringify(value)]++
	}
	return counts
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", c.requestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}
	return data, nil
}
