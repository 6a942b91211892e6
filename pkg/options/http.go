package options

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/model"
)

const maxResponseBytes = 4 << 20

// HTTPFetcher resolves option requests against an HTTP API. Relative
// endpoints are joined onto the base URL; absolute endpoints are used as is.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	headers map[string]string
}

// HTTPOption customises an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout caps each lookup.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) HTTPOption {
	return func(f *HTTPFetcher) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if f.headers == nil {
			f.headers = make(map[string]string)
		}
		f.headers[name] = value
	}
}

// NewHTTPFetcher constructs a fetcher rooted at baseURL.
func NewHTTPFetcher(baseURL string, opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Fetch performs the lookup and parses the body with ParseOptions. Transport
// errors, non-2xx statuses, and undecodable bodies wrap ErrFetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) ([]model.Option, error) {
	target, err := f.resolve(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	reqCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %v", ErrFetchFailed, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	for name, value := range f.headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", ErrFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	return ParseOptions(body)
}

func (f *HTTPFetcher) resolve(req Request) (string, error) {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("endpoint is required")
	}

	raw := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if !strings.HasPrefix(endpoint, "/") {
			endpoint = "/" + endpoint
		}
		raw = f.baseURL + endpoint
	}

	target, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(req.Params) > 0 {
		q := target.Query()
		for key, value := range req.Params {
			q.Set(key, value)
		}
		target.RawQuery = q.Encode()
	}
	return target.String(), nil
}
