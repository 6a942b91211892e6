package optionsource

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formengine/pkg/model"
)

type handlerResponse struct {
	Data []model.Option `json:"data"`
}

var cities = map[string][]string{
	"CA": {"Los Angeles", "San Diego", "San Francisco"},
	"NY": {"New York"},
}

func TestHandler_UnknownValueReturnsEmptyDataArray(t *testing.T) {
	h := Handler(WithParam("state"), WithEntries(cities))

	req := httptest.NewRequest(http.MethodGet, "/api/options?state=TX", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var payload handlerResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestHandler_LookupAndLimitClamped(t *testing.T) {
	h := Handler(WithParam("state"), WithEntries(cities), WithMaxLimit(2))

	req := httptest.NewRequest(http.MethodGet, "/api/options?state=CA&limit=10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 2 {
		t.Fatalf("expected 2 results, got %d: %#v", len(payload.Data), payload.Data)
	}
	if payload.Data[0].Value != "Los Angeles" || payload.Data[0].Label != "Los Angeles" {
		t.Fatalf("unexpected first option: %#v", payload.Data[0])
	}
	if payload.Data[1].Value != "San Diego" {
		t.Fatalf("unexpected second option: %#v", payload.Data[1])
	}
}

func TestHandler_ListShapeAndFoldCase(t *testing.T) {
	h := Handler(WithParam("make"), WithEntries(map[string][]string{"Volvo": {"XC60", "V70"}}), WithShape(ShapeList), WithFoldCase(true))

	req := httptest.NewRequest(http.MethodGet, "/api/options?make=volvo", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload []string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 2 || payload[0] != "XC60" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("request id not echoed")
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := Handler(
		WithEntries(cities),
		WithGuard(func(r *http.Request) error {
			if r.Header.Get("Authorization") == "" {
				return ErrUnauthorized
			}
			return errors.New("token revoked")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/options?value=CA", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	req.Header.Set("Authorization", "Bearer old")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := Handler(WithEntries(cities))

	req := httptest.NewRequest(http.MethodPost, "/api/options?value=CA", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_NegativeLimitReturnsEmptyDataArray(t *testing.T) {
	h := Handler(WithParam("state"), WithEntries(cities))

	req := httptest.NewRequest(http.MethodGet, "/api/options?state=CA&limit=-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestHandler_MissingTriggerParam(t *testing.T) {
	h := Handler(WithParam("state"), WithEntries(cities))

	req := httptest.NewRequest(http.MethodGet, "/api/options?value=CA", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing state parameter") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestHandler_ClearedTriggerReturnsEmptyList(t *testing.T) {
	h := Handler(WithParam("state"), WithEntries(map[string][]string{"": {"Nowhere"}, "CA": {"Fresno"}}))

	req := httptest.NewRequest(http.MethodGet, "/api/options?state=", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestHandler_HeadWritesNoBody(t *testing.T) {
	h := Handler(WithParam("state"), WithEntries(cities))

	req := httptest.NewRequest(http.MethodHead, "/api/options?state=CA", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200, got %d with %q", rec.Code, rec.Body.String())
	}
}
