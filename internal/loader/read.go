package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: catalogue path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: read catalogue: %w", err)
	}
	return data, nil
}

func readFS(files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("loader: catalogue path is required")
	}
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("loader: read catalogue: %w", err)
	}
	return data, nil
}
