package mockapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/internal/mockapi"
	"github.com/goliatone/go-formengine/pkg/client"
	"github.com/goliatone/go-formengine/pkg/draft"
	"github.com/goliatone/go-formengine/pkg/logging"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/options"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/session"
)

func newServer(t *testing.T, opts ...mockapi.Option) (*mockapi.Server, *httptest.Server) {
	t.Helper()
	opts = append([]mockapi.Option{mockapi.WithLogger(logging.Discard())}, opts...)
	api, err := mockapi.New(opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	handler, err := api.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api, srv
}

func TestServer_FillAndSubmitHealthForm(t *testing.T) {
	api, srv := newServer(t, mockapi.WithIDGenerator(func() string { return "sub-1" }))
	c := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	store := draft.NewMemoryStore()

	gen := orchestrator.New(
		orchestrator.WithSchemaSource(c),
		orchestrator.WithFetcher(options.NewHTTPFetcher(srv.URL, options.WithHTTPClient(srv.Client()))),
		orchestrator.WithDraftStore(store),
		orchestrator.WithSubmitter(c),
		orchestrator.WithLogger(logging.Discard()),
		orchestrator.WithAutosaveInterval(-1),
	)
	sess, err := gen.Open(context.Background(), "health")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sess.Close()

	structure, _ := sess.Structure()
	if structure.ID != "health_insurance_application" {
		t.Fatalf("expected published health form, got %q", structure.ID)
	}

	if err := sess.Update("state", "Texas"); err != nil {
		t.Fatalf("update state: %v", err)
	}
	sess.Wait()

	structure, _ = sess.Structure()
	city, _ := structure.Field("city")
	want := []model.Option{
		{Label: "Houston", Value: "Houston"},
		{Label: "Dallas", Value: "Dallas"},
		{Label: "Austin", Value: "Austin"},
	}
	if diff := cmp.Diff(want, city.Options); diff != "" {
		t.Fatalf("city options mismatch (-want +got):\n%s", diff)
	}

	if err := sess.Submit(context.Background()); !errors.Is(err, session.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}

	for id, value := range map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"dob":        "1990-12-10",
		"gender":     "Female",
		"city":       "Austin",
		"smoker":     "No",
	} {
		if err := sess.Update(id, value); err != nil {
			t.Fatalf("update %s: %v", id, err)
		}
	}
	if err := sess.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	records := api.Records()
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0]["id"] != "sub-1" || records[0][client.TypeColumn] != "Health" || records[0]["city"] != "Austin" {
		t.Fatalf("unexpected record %#v", records[0])
	}
	if _, err := store.Read(context.Background()); !errors.Is(err, draft.ErrNotFound) {
		t.Fatalf("expected draft cleared after submit, got %v", err)
	}

	fetched, err := c.Submissions(context.Background())
	if err != nil {
		t.Fatalf("submissions: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"Health": 1}, client.CountByType(fetched)); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_ModelLookupListShape(t *testing.T) {
	_, srv := newServer(t)
	resolver := options.NewResolver(options.NewHTTPFetcher(srv.URL), options.WithLogger(logging.Discard()))

	field := model.Field{ID: "car_model", DynamicOptions: &model.DynamicOptions{DependsOn: "car_make", Endpoint: "/api/getModels"}}
	got := resolver.Resolve(context.Background(), field, "car_make", "volvo")
	if len(got) != 3 || got[0].Value != "XC60" {
		t.Fatalf("unexpected model options %#v", got)
	}
}

func TestServer_RejectsBadSubmissions(t *testing.T) {
	_, srv := newServer(t)
	c := client.New(srv.URL, client.WithHTTPClient(srv.Client()))

	err := c.Submit(context.Background(), model.Submission{FormType: "health", Values: model.Values{}})
	if !errors.Is(err, client.ErrStatus) {
		t.Fatalf("expected status error, got %v", err)
	}

	resp, err := srv.Client().Get(srv.URL + client.SubmitPath)
	if err != nil {
		t.Fatalf("get submit: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestNew_RejectsInvalidForms(t *testing.T) {
	if _, err := mockapi.New(mockapi.WithForms([]byte(`{"forms":[]}`))); err == nil {
		t.Fatal("expected error for non-list catalogue")
	}
}
