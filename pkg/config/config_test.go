package config_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/config"
	"github.com/goliatone/go-formengine/pkg/draft"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvDraftDSN, "")

	cfg, err := config.Load(filepath.Join("testdata", "formengine.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := config.Config{
		BaseURL:  "https://forms.example.test",
		Timeout:  5 * time.Second,
		Sanitize: false,
		Headers:  map[string]string{"Authorization": "Bearer test"},
		Draft: config.DraftConfig{
			Store:    config.StoreSQLite,
			Dir:      config.Default().Draft.Dir,
			DSN:      "/tmp/formengine-drafts.db",
			Autosave: time.Minute,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	if _, err := config.Parse([]byte("baseurl: x\nunknown: 1\n")); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg, err := config.ApplyEnv(config.Default(), env(map[string]string{
		config.EnvBaseURL:         "http://api.local",
		config.EnvDraftStore:      "postgres",
		config.EnvDraftDSN:        "postgres://localhost/forms",
		config.EnvAutosave:        "-1s",
		config.EnvDraftPassphrase: "secret",
	}))
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.BaseURL != "http://api.local" {
		t.Fatalf("base url not overridden: %q", cfg.BaseURL)
	}
	if cfg.Draft.Store != config.StorePostgres || cfg.Draft.DSN != "postgres://localhost/forms" {
		t.Fatalf("draft not overridden: %+v", cfg.Draft)
	}
	if cfg.Draft.Autosave != -time.Second || cfg.Draft.Passphrase != "secret" {
		t.Fatalf("unexpected draft settings: %+v", cfg.Draft)
	}
}

func TestApplyEnv_InvalidDuration(t *testing.T) {
	if _, err := config.ApplyEnv(config.Default(), env(map[string]string{config.EnvTimeout: "soon"})); err == nil {
		t.Fatal("expected duration error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"no endpoint":   func(c *config.Config) { c.BaseURL = "" },
		"unknown store": func(c *config.Config) { c.Draft.Store = "redis" },
		"sqlite no dsn": func(c *config.Config) { c.Draft.Store = config.StoreSQLite },
		"file no dir":   func(c *config.Config) { c.Draft.Dir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDraftConfig_OpenStore(t *testing.T) {
	ctx := context.Background()
	cases := []config.DraftConfig{
		{Store: config.StoreMemory},
		{Store: config.StoreFile, Dir: t.TempDir()},
		{Store: config.StoreSQLite, DSN: filepath.Join(t.TempDir(), "drafts.db")},
		{Store: config.StoreFile, Dir: t.TempDir(), Passphrase: "pw"},
	}
	for _, dc := range cases {
		store, closeFn, err := dc.OpenStore(ctx)
		if err != nil {
			t.Fatalf("%s: open: %v", dc.Store, err)
		}
		if _, err := draft.Load(ctx, store); !errors.Is(err, draft.ErrNotFound) {
			t.Fatalf("%s: expected empty slot, got %v", dc.Store, err)
		}
		if err := draft.Save(ctx, store, draft.Draft{FormID: "f"}); err != nil {
			t.Fatalf("%s: save: %v", dc.Store, err)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("%s: close: %v", dc.Store, err)
		}
	}
}
