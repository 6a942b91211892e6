package options_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/logging"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/options"
)

func TestParseOptions(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []model.Option
	}{
		{
			name: "bare list",
			body: `["Austin","Dallas"]`,
			want: []model.Option{{Label: "Austin", Value: "Austin"}, {Label: "Dallas", Value: "Dallas"}},
		},
		{
			name: "object with list key",
			body: `{"status":"ok","count":2,"cities":["Reno","Vegas"],"other":["x"]}`,
			want: []model.Option{{Label: "Reno", Value: "Reno"}, {Label: "Vegas", Value: "Vegas"}},
		},
		{
			name: "integer keys enumerate first",
			body: `{"cities":["Reno"],"2":["b"],"1":["a"]}`,
			want: []model.Option{{Label: "a", Value: "a"}},
		},
		{
			name: "object without list",
			body: `{"status":"ok"}`,
			want: []model.Option{},
		},
		{
			name: "scalar body",
			body: `"nope"`,
			want: []model.Option{},
		},
		{
			name: "numbers stringified",
			body: `[1, 2.5, true]`,
			want: []model.Option{{Label: "1", Value: "1"}, {Label: "2.5", Value: "2.5"}, {Label: "true", Value: "true"}},
		},
		{
			name: "paired entries",
			body: `[{"label":"Los Angeles","value":"la"},{"value":"sf"},{"label":"skip"}]`,
			want: []model.Option{{Label: "Los Angeles", Value: "la"}, {Label: "sf", Value: "sf"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := options.ParseOptions([]byte(tc.body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOptions_InvalidJSON(t *testing.T) {
	_, err := options.ParseOptions([]byte(`{"cities":[`))
	if !errors.Is(err, options.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestHTTPFetcher_SendsSingleQueryParameter(t *testing.T) {
	var (
		mu     sync.Mutex
		gotURL string
		method string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotURL = r.URL.String()
		method = r.Method
		mu.Unlock()
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":["San Diego"]}`))
	}))
	defer srv.Close()

	fetcher := options.NewHTTPFetcher(srv.URL + "/")
	field := model.Field{
		ID:             "city",
		DynamicOptions: &model.DynamicOptions{DependsOn: "state", Endpoint: "/api/cities", Method: "get"},
	}
	req, ok := options.RequestFor(field, "state", "CA")
	if !ok {
		t.Fatalf("expected request")
	}

	got, err := fetcher.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := []model.Option{{Label: "San Diego", Value: "San Diego"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotURL != "/api/cities?state=CA" {
		t.Fatalf("url = %q, want %q", gotURL, "/api/cities?state=CA")
	}
	if method != http.MethodGet {
		t.Fatalf("method = %q, want GET", method)
	}
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := options.NewHTTPFetcher(srv.URL).Fetch(context.Background(), options.Request{Endpoint: "/x"})
	if !errors.Is(err, options.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func TestResolver_FailureYieldsEmptyList(t *testing.T) {
	logger := &recordingLogger{}
	resolver := options.NewResolver(options.FetcherFunc(func(ctx context.Context, req options.Request) ([]model.Option, error) {
		return nil, options.ErrFetchFailed
	}), options.WithLogger(logger))

	field := model.Field{ID: "city", DynamicOptions: &model.DynamicOptions{DependsOn: "state", Endpoint: "/api/cities"}}
	got := resolver.Resolve(context.Background(), field, "state", "CA")

	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
	if len(logger.lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(logger.lines))
	}
}

func TestResolver_DefaultsMethodAndStringifiesValue(t *testing.T) {
	var got options.Request
	resolver := options.NewResolver(options.FetcherFunc(func(ctx context.Context, req options.Request) ([]model.Option, error) {
		got = req
		return []model.Option{{Label: "a", Value: "a"}}, nil
	}), options.WithLogger(logging.Discard()))

	field := model.Field{ID: "trim", DynamicOptions: &model.DynamicOptions{DependsOn: "year", Endpoint: "/api/trims"}}
	opts := resolver.Resolve(context.Background(), field, "year", float64(2024))

	if len(opts) != 1 {
		t.Fatalf("expected one option, got %#v", opts)
	}
	want := options.Request{Endpoint: "/api/trims", Method: http.MethodGet, Params: map[string]string{"year": "2024"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}
