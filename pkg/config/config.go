// Package config loads process-wide settings for the engine commands from a
// YAML file, with environment variables taking precedence over file values.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/draft"
)

// Draft store kinds.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Environment overrides.
const (
	EnvBaseURL         = "FORMENGINE_BASE_URL"
	EnvSchemaSource    = "FORMENGINE_SCHEMA_SOURCE"
	EnvTimeout         = "FORMENGINE_TIMEOUT"
	EnvDraftStore      = "FORMENGINE_DRAFT_STORE"
	EnvDraftDir        = "FORMENGINE_DRAFT_DIR"
	EnvDraftDSN        = "FORMENGINE_DRAFT_DSN"
	EnvDraftPassphrase = "FORMENGINE_DRAFT_PASSPHRASE"
	EnvAutosave        = "FORMENGINE_AUTOSAVE"
)

const (
	defaultBaseURL = "http://127.0.0.1:8080"
	defaultTimeout = 15 * time.Second
)

// Config is the top-level configuration document.
type Config struct {
	// BaseURL roots the forms API and relative dependent-option endpoints.
	BaseURL string `yaml:"baseURL"`
	// SchemaSource, when set, loads the form catalogue from a file path or
	// URL instead of the forms API.
	SchemaSource string        `yaml:"schemaSource"`
	Timeout      time.Duration `yaml:"timeout"`
	// Sanitize strips markup from schema display text.
	Sanitize bool        `yaml:"sanitize"`
	Draft    DraftConfig `yaml:"draft"`
	// Headers are sent with every dependent-option lookup.
	Headers map[string]string `yaml:"headers"`
}

// DraftConfig selects and configures the draft slot backend.
type DraftConfig struct {
	Store string `yaml:"store"`
	// Dir holds the file store slot.
	Dir string `yaml:"dir"`
	// DSN is the SQLite path or Postgres connection string.
	DSN string `yaml:"dsn"`
	// Passphrase enables encryption of the stored payload.
	Passphrase string `yaml:"passphrase"`
	// Autosave is the periodic save interval. Negative disables autosave.
	Autosave time.Duration `yaml:"autosave"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		BaseURL:  defaultBaseURL,
		Timeout:  defaultTimeout,
		Sanitize: true,
		Draft: DraftConfig{
			Store:    StoreFile,
			Dir:      defaultDraftDir(),
			Autosave: 30 * time.Second,
		},
	}
}

func defaultDraftDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".formengine"
	}
	return filepath.Join(home, ".formengine")
}

// Load reads path over the defaults, applies environment overrides, and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
		cfg = parsed
	}
	cfg, err := ApplyEnv(cfg, os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment values found through lookup.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(EnvBaseURL, &cfg.BaseURL)
	str(EnvSchemaSource, &cfg.SchemaSource)
	str(EnvDraftStore, &cfg.Draft.Store)
	str(EnvDraftDir, &cfg.Draft.Dir)
	str(EnvDraftDSN, &cfg.Draft.DSN)
	if v, ok := lookup(EnvDraftPassphrase); ok {
		cfg.Draft.Passphrase = v
	}
	if err := dur(EnvTimeout, &cfg.Timeout); err != nil {
		return Config{}, err
	}
	if err := dur(EnvAutosave, &cfg.Draft.Autosave); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" && strings.TrimSpace(c.SchemaSource) == "" {
		return errors.New("config: baseURL or schemaSource is required")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	switch c.Draft.Store {
	case StoreMemory:
	case StoreFile:
		if strings.TrimSpace(c.Draft.Dir) == "" {
			return errors.New("config: draft.dir is required for the file store")
		}
	case StoreSQLite, StorePostgres:
		if strings.TrimSpace(c.Draft.DSN) == "" {
			return fmt.Errorf("config: draft.dsn is required for the %s store", c.Draft.Store)
		}
	default:
		return fmt.Errorf("config: unknown draft store %q", c.Draft.Store)
	}
	return nil
}

// OpenStore builds the configured draft store. The returned close function
// releases any database handle and is never nil.
func (d DraftConfig) OpenStore(ctx context.Context) (draft.Store, func() error, error) {
	noop := func() error { return nil }

	var (
		store   draft.Store
		closeFn = noop
	)
	switch d.Store {
	case StoreMemory:
		store = draft.NewMemoryStore()
	case StoreFile:
		store = draft.NewFileStore(d.Dir)
	case StoreSQLite:
		s, err := draft.OpenSQLite(d.DSN)
		if err != nil {
			return nil, noop, err
		}
		store, closeFn = s, s.Close
	case StorePostgres:
		s, err := draft.OpenPostgres(ctx, d.DSN, "")
		if err != nil {
			return nil, noop, err
		}
		store, closeFn = s, s.Close
	default:
		return nil, noop, fmt.Errorf("config: unknown draft store %q", d.Store)
	}

	if d.Passphrase != "" {
		sealed, err := draft.NewSealedStore(store, d.Passphrase)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		store = sealed
	}
	return store, closeFn, nil
}
