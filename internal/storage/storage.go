// Package storage is the remote object-storage surface used by the backup
// walker: bucket listing, folder-like paginated entry listing and whole-file
// downloads.
package storage

import (
	"context"
	"fmt"

	appConfig "storagebackup/config"
)

// Bucket is a top-level namespace in the remote store.
type Bucket struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// Entry is one row of a listing: a file or a folder.
type Entry struct {
	Name     string         `json:"name"`
	ID       string         `json:"id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// IsFile reports whether the entry should be downloaded rather than
// expanded. Folders come back with neither an id nor a metadata block.
// Zero-byte files or odd folders may be misclassified.
func (e Entry) IsFile() bool {
	return e.ID != "" || e.Metadata != nil
}

type SortBy struct {
	Column string
	Order  string
}

type ListOptions struct {
	Limit  int
	Offset int
	SortBy SortBy
}

// Backend is implemented by every storage client the walker can drive.
type Backend interface {
	ListBuckets(ctx context.Context) ([]Bucket, error)
	ListEntries(ctx context.Context, bucket, prefix string, opts ListOptions) ([]Entry, error)
	Download(ctx context.Context, bucket, path string) ([]byte, error)
}

// New builds the backend selected by cfg.Backend. cfg must already be valid.
func New(cfg *appConfig.Config) (Backend, error) {
	switch cfg.Backend {
	case appConfig.BackendREST, "":
		return NewREST(cfg), nil
	case appConfig.BackendS3:
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
