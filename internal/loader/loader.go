// Package loader reads published form catalogues from disk, an fs.FS or the
// forms endpoint and rejects payloads that are not a list of forms before
// they reach the normalizer.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formengine/pkg/schema"
)

var (
	// ErrRemoteDisabled is returned for URL sources when no HTTP client is
	// configured.
	ErrRemoteDisabled = errors.New("loader: remote catalogues are disabled")
	// ErrNoFileSystem is returned for fs sources when no fs.FS is configured.
	ErrNoFileSystem = errors.New("loader: no file system configured")
)

// Loader implements schema.Loader for form catalogues.
type Loader struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options. A caller supplied client
// is copied so the request timeout never leaks back into it.
func New(options schema.LoaderOptions) *Loader {
	l := &Loader{files: options.FileSystem, timeout: options.RequestTimeout}
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.client = &clone
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load reads src and returns it as a Document once the payload decodes as a
// catalogue. Loose entries inside the list are left to the schema decoder.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	doc, err := schema.NewDocument(src, data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}
	if _, err := doc.Catalogue(); err != nil {
		return schema.Document{}, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}
	return doc, nil
}

func (l *Loader) read(ctx context.Context, src schema.Source) ([]byte, error) {
	switch src.Kind() {
	case schema.SourceKindFile:
		return readFile(src.Location())
	case schema.SourceKindFS:
		if l.files == nil {
			return nil, ErrNoFileSystem
		}
		return readFS(l.files, src.Location())
	case schema.SourceKindURL:
		if l.client == nil {
			return nil, ErrRemoteDisabled
		}
		return fetchCatalogue(ctx, l.client, src.Location(), l.timeout)
	}
	return nil, fmt.Errorf("loader: unsupported source kind %q", src.Kind())
}
