package walker

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"

	"storagebackup/internal/storage"
)

type listCall struct {
	Bucket string
	Prefix string
	Offset int
}

// fakeBackend serves an in-memory tree. Files are added by full path and
// the folders above them are derived.
type fakeBackend struct {
	buckets   []string
	entries   map[string]map[string][]storage.Entry
	data      map[string][]byte
	listCalls []listCall
	downloads []string

	listErr     error
	downloadErr map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		entries:     make(map[string]map[string][]storage.Entry),
		data:        make(map[string][]byte),
		downloadErr: make(map[string]error),
	}
}

func (f *fakeBackend) addBucket(name string) {
	f.buckets = append(f.buckets, name)
	f.entries[name] = make(map[string][]storage.Entry)
}

func (f *fakeBackend) addFile(bucket, filePath, content string) {
	f.data[bucket+"/"+filePath] = []byte(content)

	dir, name := path.Split(filePath)
	dir = strings.TrimSuffix(dir, "/")
	f.addEntry(bucket, dir, storage.Entry{Name: name, ID: "id-" + filePath, Metadata: map[string]any{"size": len(content)}})

	for dir != "" {
		parent, folder := path.Split(dir)
		parent = strings.TrimSuffix(parent, "/")
		f.addEntry(bucket, parent, storage.Entry{Name: folder})
		dir = parent
	}
}

func (f *fakeBackend) addEntry(bucket, prefix string, entry storage.Entry) {
	for _, e := range f.entries[bucket][prefix] {
		if e.Name == entry.Name {
			return
		}
	}
	list := append(f.entries[bucket][prefix], entry)
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	f.entries[bucket][prefix] = list
}

func (f *fakeBackend) ListBuckets(context.Context) ([]storage.Bucket, error) {
	buckets := make([]storage.Bucket, 0, len(f.buckets))
	for _, name := range f.buckets {
		buckets = append(buckets, storage.Bucket{ID: name, Name: name})
	}
	return buckets, nil
}

func (f *fakeBackend) ListEntries(_ context.Context, bucket, prefix string, opts storage.ListOptions) ([]storage.Entry, error) {
	f.listCalls = append(f.listCalls, listCall{Bucket: bucket, Prefix: prefix, Offset: opts.Offset})
	if f.listErr != nil {
		return nil, f.listErr
	}

	all := f.entries[bucket][prefix]
	if opts.Offset >= len(all) {
		return []storage.Entry{}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end], nil
}

func (f *fakeBackend) Download(_ context.Context, bucket, filePath string) ([]byte, error) {
	key := bucket + "/" + filePath
	f.downloads = append(f.downloads, key)
	if err := f.downloadErr[key]; err != nil {
		return nil, err
	}
	data, ok := f.data[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

var errFake = errors.New("fake failure")
