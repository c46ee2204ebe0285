package storage

import (
	"context"

	storage_go "github.com/supabase-community/storage-go"

	appConfig "storagebackup/config"
)

// restAPI is the part of the storage-go client used here.
type restAPI interface {
	ListBuckets() ([]storage_go.Bucket, error)
	ListFiles(bucketId string, queryPath string, options storage_go.FileSearchOptions) ([]storage_go.FileObject, error)
	DownloadFile(bucketId string, filePath string, urlOptions ...storage_go.UrlOptions) ([]byte, error)
}

// REST talks to the storage REST API with the service credential.
type REST struct {
	api restAPI
}

func NewREST(cfg *appConfig.Config) *REST {
	client := storage_go.NewClient(cfg.StorageURL(), cfg.ServiceRole, map[string]string{
		"apikey": cfg.ServiceRole,
	})
	return &REST{api: client}
}

func (r *REST) ListBuckets(ctx context.Context) ([]Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("list_buckets", "", "", err)
	}

	buckets, err := r.api.ListBuckets()
	if err != nil {
		return nil, newError("list_buckets", "", "", err)
	}

	result := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, Bucket{ID: b.Id, Name: b.Name, Public: b.Public})
	}
	return result, nil
}

func (r *REST) ListEntries(ctx context.Context, bucket, prefix string, opts ListOptions) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("list", bucket, prefix, err)
	}

	files, err := r.api.ListFiles(bucket, prefix, storage_go.FileSearchOptions{
		Limit:  opts.Limit,
		Offset: opts.Offset,
		SortByOptions: storage_go.SortBy{
			Column: opts.SortBy.Column,
			Order:  opts.SortBy.Order,
		},
	})
	if err != nil {
		return nil, newError("list", bucket, prefix, err)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, entryFromFileObject(f))
	}
	return entries, nil
}

func (r *REST) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("download", bucket, path, err)
	}

	data, err := r.api.DownloadFile(bucket, path)
	if err != nil {
		return nil, newError("download", bucket, path, err)
	}
	return data, nil
}

func entryFromFileObject(f storage_go.FileObject) Entry {
	entry := Entry{Name: f.Name, ID: f.Id}

	switch md := f.Metadata.(type) {
	case nil:
	case map[string]any:
		entry.Metadata = md
	default:
		entry.Metadata = map[string]any{"value": md}
	}
	return entry
}
