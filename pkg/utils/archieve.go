package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storagebackup/internal/models"
)

// ArchiveDir zips a finished backup directory into a timestamped archive
// placed next to it. A half-written archive is removed on failure.
func ArchiveDir(dir string) (*models.ArchiveInfo, error) {
	if err := ValidatePaths([]string{dir}); err != nil {
		return nil, err
	}

	cleaned := filepath.Clean(dir)
	archivePath := filepath.Join(filepath.Dir(cleaned), GenerateArchiveName([]string{cleaned}, ".zip"))

	info, err := CreateArchive([]string{cleaned}, archivePath)
	if err != nil {
		if cleanupErr := CleanupTempFile(archivePath); cleanupErr != nil {
			return nil, fmt.Errorf("%w (%v)", err, cleanupErr)
		}
		return nil, err
	}
	return info, nil
}

func CreateArchive(paths []string, outputPath string) (*models.ArchiveInfo, error) {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	zipWriter := zip.NewWriter(outFile)

	var originalSize int64
	createdAt := time.Now()

	for _, path := range paths {
		size, err := addToArchive(zipWriter, path, outputPath)
		if err != nil {
			zipWriter.Close()
			return nil, fmt.Errorf("failed to add %s to archive: %w", path, err)
		}
		originalSize += size
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	fileInfo, err := outFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get archive info: %w", err)
	}
	compressedSize := fileInfo.Size()

	compressionRatio := 0.0
	if originalSize > 0 {
		compressionRatio = float64(compressedSize) / float64(originalSize)
	}

	return &models.ArchiveInfo{
		ArchivePath:      outputPath,
		OriginalPaths:    paths,
		CompressedSize:   compressedSize,
		OriginalSize:     originalSize,
		CompressionRatio: compressionRatio,
		CreatedAt:        createdAt,
	}, nil
}

// addToArchive stores sourcePath under its base name and returns the number
// of uncompressed bytes written. skip is never archived.
func addToArchive(zipWriter *zip.Writer, sourcePath, skip string) (int64, error) {
	var written int64
	skipAbs, _ := filepath.Abs(skip)
	root := filepath.Dir(filepath.Clean(sourcePath))

	err := filepath.WalkDir(sourcePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == skipAbs {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		n, err := io.Copy(writer, file)
		written += n
		return err
	})

	return written, err
}

func GenerateArchiveName(paths []string, extension string) string {
	if len(paths) == 1 {
		baseName := filepath.Base(paths[0])
		if ext := filepath.Ext(baseName); ext != "" {
			baseName = strings.TrimSuffix(baseName, ext)
		}
		return fmt.Sprintf("%s_%s%s", baseName, time.Now().Format("20060102_150405"), extension)
	}

	return fmt.Sprintf("archive_%s%s", time.Now().Format("20060102_150405"), extension)
}

func ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("path does not exist: %s", path)
			}
			return fmt.Errorf("cannot access path %s: %w", path, err)
		}
	}
	return nil
}

func CleanupTempFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to cleanup temporary file %s: %w", path, err)
	}
	return nil
}
