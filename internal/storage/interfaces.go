// Package storage persists exported chapters and plot state under a session
// directory tree.
package storage

import "context"

// Storage abstracts the backing store for exported books. Paths are always
// relative to the store's root; see SessionDir and ChapterFilename for the
// canonical layout.
type Storage interface {
	Save(ctx context.Context, path string, data []byte) error
	Load(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, pattern string) ([]string, error)
}
