package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a schema catalogue lives so loaders can read files,
// fs.FS entries, or the forms API without leaking transport details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL validates the URL and returns a Source.
func SourceFromURL(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// ParseSource picks a URL source for http(s) locations and a file source
// otherwise. Empty input returns nil.
func ParseSource(raw string) (Source, error) {
	location := strings.TrimSpace(raw)
	if location == "" {
		return nil, nil
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return SourceFromURL(location)
	}
	return SourceFromFile(location), nil
}
