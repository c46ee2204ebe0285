// Package walker mirrors every bucket of a storage project onto the local
// filesystem.
//
// A run is strictly sequential: buckets are listed, then each bucket's
// folder tree is expanded depth-first with an explicit stack of prefixes,
// and every discovered file is downloaded before the next one is requested.
// The first failure aborts the run. Files already written stay on disk and
// no manifest is produced.
package walker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storagebackup/internal/models"
	"storagebackup/internal/storage"
	"storagebackup/pkg/utils"
)

const (
	// PageSize is the listing page size. A page shorter than this ends the
	// listing of a prefix.
	PageSize = 1000

	ManifestName     = "manifest.json"
	DefaultOutputDir = "storage-backup"
)

type Options struct {
	// OutputDir is the root of the local mirror.
	OutputDir string
	// Project is recorded in the manifest, normally the endpoint URL.
	Project string
	// Stdout receives one line per downloaded file.
	Stdout io.Writer
	Logger *slog.Logger
	// Now is used for the manifest timestamp.
	Now func() time.Time
}

type Walker struct {
	backend   storage.Backend
	outputDir string
	project   string
	stdout    io.Writer
	logger    *slog.Logger
	now       func() time.Time
}

func New(backend storage.Backend, opts Options) *Walker {
	w := &Walker{
		backend:   backend,
		outputDir: opts.OutputDir,
		project:   opts.Project,
		stdout:    opts.Stdout,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if w.outputDir == "" {
		w.outputDir = DefaultOutputDir
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.now == nil {
		w.now = time.Now
	}
	return w
}

// ListAllFiles returns the path of every file under prefix in bucket.
//
// Folders are expanded in stack-pop order, so the result is not sorted;
// only entries within one page arrive in ascending name order. A listing
// failure discards everything found so far.
func (w *Walker) ListAllFiles(ctx context.Context, bucket, prefix string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	stack := []string{prefix}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for offset := 0; ; offset += PageSize {
			entries, err := w.backend.ListEntries(ctx, bucket, current, storage.ListOptions{
				Limit:  PageSize,
				Offset: offset,
				SortBy: storage.SortBy{Column: "name", Order: "asc"},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list %s/%s: %w", bucket, current, err)
			}

			for _, entry := range entries {
				p := joinPath(current, entry.Name)
				if !entry.IsFile() {
					stack = append(stack, p)
					continue
				}
				if _, dup := seen[p]; dup {
					w.logger.Debug("Skipping duplicate listing entry", "bucket", bucket, "path", p)
					continue
				}
				seen[p] = struct{}{}
				files = append(files, p)
			}

			if len(entries) < PageSize {
				break
			}
		}
	}

	return files, nil
}

// Run backs up every bucket and writes the manifest last.
func (w *Walker) Run(ctx context.Context) (*models.BackupResult, error) {
	startTime := w.now()

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	buckets, err := w.backend.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	w.logger.Debug("Listed buckets", "count", len(buckets))

	result := &models.BackupResult{
		Project:       w.project,
		OutputDir:     w.outputDir,
		Buckets:       make([]models.BucketSummary, 0, len(buckets)),
		OperationTime: utils.FormatTime(startTime),
	}

	for _, b := range buckets {
		summary, err := w.backupBucket(ctx, b.Name)
		if err != nil {
			return nil, err
		}
		result.Buckets = append(result.Buckets, *summary)
		result.TotalFiles += summary.FileCount
		result.TotalSizeBytes += summary.TotalSizeBytes
	}

	manifestPath, err := w.writeManifest()
	if err != nil {
		return nil, err
	}

	result.ManifestPath = manifestPath
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)
	result.BackupDuration = w.now().Sub(startTime).String()
	return result, nil
}

func (w *Walker) backupBucket(ctx context.Context, bucket string) (*models.BucketSummary, error) {
	bucketDir := filepath.Join(w.outputDir, bucket)
	if err := os.MkdirAll(bucketDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bucket directory %s: %w", bucketDir, err)
	}

	files, err := w.ListAllFiles(ctx, bucket, "")
	if err != nil {
		return nil, err
	}
	w.logger.Debug("Listed bucket", "bucket", bucket, "files", len(files))

	summary := &models.BucketSummary{
		BucketName: bucket,
		LocalPath:  bucketDir,
	}

	for _, filePath := range files {
		n, err := w.downloadFile(ctx, bucket, bucketDir, filePath)
		if err != nil {
			return nil, err
		}
		summary.FileCount++
		summary.TotalSizeBytes += n
	}

	return summary, nil
}

func (w *Walker) downloadFile(ctx context.Context, bucket, bucketDir, filePath string) (int64, error) {
	dest, err := LocalPath(bucketDir, filePath)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	data, err := w.backend.Download(ctx, bucket, filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s/%s: %w", bucket, filePath, err)
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	fmt.Fprintf(w.stdout, "Downloaded: %s/%s\n", bucket, filePath)
	w.logger.Debug("Wrote file", "path", dest, "size", utils.FormatBytes(int64(len(data))))
	return int64(len(data)), nil
}

func (w *Walker) writeManifest() (string, error) {
	manifest := models.Manifest{
		Project:     w.project,
		GeneratedAt: utils.FormatISOTime(w.now()),
	}

	data, err := utils.MarshalJSON(manifest)
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.outputDir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// LocalPath maps a bucket-relative file path below bucketDir. Paths that
// would land outside bucketDir are rejected.
func LocalPath(bucketDir, filePath string) (string, error) {
	dest := filepath.Join(bucketDir, filepath.FromSlash(filePath))

	rel, err := filepath.Rel(bucketDir, dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("refusing to write %q outside %s", filePath, bucketDir)
	}
	return dest, nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
