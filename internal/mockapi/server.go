// Package mockapi serves the forms API contract in memory for local
// development and end-to-end tests.
package mockapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/components/optionsource"
	"github.com/goliatone/go-formengine/pkg/client"
	"github.com/goliatone/go-formengine/pkg/logging"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/schema"
)

//go:embed data/forms.json data/options.yaml
var embedded embed.FS

const maxBodyBytes = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithForms replaces the served catalogue with raw, which must decode as a
// list of forms.
func WithForms(raw []byte) Option {
	return func(s *Server) {
		s.forms = append([]byte(nil), raw...)
	}
}

// WithOptionCatalogue replaces the dependent-option routes.
func WithOptionCatalogue(cat optionsource.Catalogue) Option {
	return func(s *Server) {
		c := cat
		s.options = &c
	}
}

// WithIDGenerator overrides how submission ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Server holds the catalogue and the submission log.
type Server struct {
	forms   []byte
	options *optionsource.Catalogue
	newID   func() string
	logger  logging.Logger

	mu      sync.Mutex
	records []client.Record
}

// New builds a server. Without overrides it serves the embedded health, home,
// and car forms plus their city and model lookups.
func New(opts ...Option) (*Server, error) {
	s := &Server{newID: uuid.NewString}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)

	if s.forms == nil {
		raw, err := embedded.ReadFile("data/forms.json")
		if err != nil {
			return nil, fmt.Errorf("mockapi: read embedded forms: %w", err)
		}
		s.forms = raw
	}
	if _, err := schema.DecodeCatalogue(s.forms); err != nil {
		return nil, fmt.Errorf("mockapi: forms: %w", err)
	}

	if s.options == nil {
		raw, err := embedded.ReadFile("data/options.yaml")
		if err != nil {
			return nil, fmt.Errorf("mockapi: read embedded options: %w", err)
		}
		cat, err := optionsource.LoadCatalogue(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("mockapi: options: %w", err)
		}
		s.options = &cat
	}
	return s, nil
}

// Handler returns the routed API.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+client.FormsPath, s.handleForms)
	mux.HandleFunc("POST "+client.SubmitPath, s.handleSubmit)
	mux.HandleFunc("GET "+client.SubmissionsPath, s.handleSubmissions)
	if _, err := optionsource.RegisterCatalogue(mux, "", *s.options); err != nil {
		return nil, fmt.Errorf("mockapi: register option routes: %w", err)
	}
	return s.logRequests(mux), nil
}

// Records returns a copy of the submission log.
func (s *Server) Records() []client.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, cloneRecord(rec))
	}
	return out
}

func (s *Server) handleForms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(s.forms)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	var sub model.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(sub.FormID) == "" {
		writeError(w, http.StatusBadRequest, "formId is required")
		return
	}

	rec := make(client.Record, len(sub.Values)+2)
	for key, value := range sub.Values {
		rec[key] = value
	}
	rec["id"] = s.newID()
	rec[client.TypeColumn] = titleCase(sub.FormType)

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"id": rec["id"], "message": "Form submitted successfully"})
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.Records()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("mockapi: %s %s -> %d (%s)", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func cloneRecord(rec client.Record) client.Record {
	out := make(client.Record, len(rec))
	for key, value := range rec {
		out[key] = value
	}
	return out
}

func titleCase(value string) string {
	if value == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(first)) + value[size:]
}
