package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxCatalogueBytes caps how much of a forms endpoint response is read.
const maxCatalogueBytes = 8 << 20

func fetchCatalogue(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if url == "" {
		return nil, errors.New("loader: forms url is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build forms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch forms: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("loader: fetch forms: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogueBytes+1))
	if err != nil {
		return nil, fmt.Errorf("loader: read forms: %w", err)
	}
	if len(data) > maxCatalogueBytes {
		return nil, fmt.Errorf("loader: forms response exceeds %d bytes", maxCatalogueBytes)
	}
	return data, nil
}
