package models

import "time"

// Manifest is written to <outputDir>/manifest.json after a successful run.
type Manifest struct {
	Project     string `json:"project"`
	GeneratedAt string `json:"generated_at"`
}

type BucketSummary struct {
	BucketName     string `json:"bucket_name"`
	LocalPath      string `json:"local_path"`
	FileCount      int    `json:"file_count"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
}

type BackupResult struct {
	Project        string          `json:"project"`
	OutputDir      string          `json:"output_dir"`
	ManifestPath   string          `json:"manifest_path"`
	Buckets        []BucketSummary `json:"buckets"`
	TotalFiles     int             `json:"total_files"`
	TotalSizeBytes int64           `json:"total_size_bytes"`
	TotalSizeHuman string          `json:"total_size_human"`
	OperationTime  string          `json:"operation_time"`
	BackupDuration string          `json:"backup_duration"`
	Archive        *ArchiveInfo    `json:"archive,omitempty"`
}

type BucketInfo struct {
	BucketName string `json:"bucket_name"`
	BucketID   string `json:"bucket_id"`
	Public     bool   `json:"public"`
	FileCount  *int   `json:"file_count,omitempty"`
}

type FileListing struct {
	BucketName string   `json:"bucket_name"`
	Prefix     string   `json:"prefix"`
	Files      []string `json:"files"`
	TotalFiles int      `json:"total_files"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

type ArchiveInfo struct {
	ArchivePath      string    `json:"archive_path"`
	OriginalPaths    []string  `json:"original_paths"`
	CompressedSize   int64     `json:"compressed_size"`
	OriginalSize     int64     `json:"original_size"`
	CompressionRatio float64   `json:"compression_ratio"`
	CreatedAt        time.Time `json:"created_at"`
}
