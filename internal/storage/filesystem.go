package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSystem stores book exports under a base directory. Every path is
// resolved with resolve, so a path that would land outside the base
// directory never reaches the filesystem.
type FileSystem struct {
	baseDir string
}

func NewFileSystem(baseDir string) *FileSystem {
	return &FileSystem{
		baseDir: baseDir,
	}
}

// resolve maps a store-relative path onto the base directory. Absolute
// paths and anything that escapes the base directory are rejected.
func (fs *FileSystem) resolve(path string) (string, error) {
	cleaned := filepath.Clean(path)
	if !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("invalid path %q: not local to the store", path)
	}
	return filepath.Join(fs.baseDir, cleaned), nil
}

// Save writes data to the store-relative path, creating parent directories
// as needed. Chapters and manifests are plain world-readable files.
func (fs *FileSystem) Save(ctx context.Context, path string, data []byte) error {
	fullPath, err := fs.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func (fs *FileSystem) Load(ctx context.Context, path string) ([]byte, error) {
	fullPath, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// List globs within the store and returns store-relative matches. The
// pattern may use * and ? but is held to the same locality rule as paths.
func (fs *FileSystem) List(ctx context.Context, pattern string) ([]string, error) {
	cleaned := filepath.Clean(pattern)
	if !filepath.IsLocal(cleaned) {
		return nil, fmt.Errorf("invalid pattern %q: not local to the store", pattern)
	}

	matches, err := filepath.Glob(filepath.Join(fs.baseDir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	results := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(fs.baseDir, match)
		if err != nil || !filepath.IsLocal(rel) {
			continue
		}
		results = append(results, rel)
	}
	return results, nil
}
